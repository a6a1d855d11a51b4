// Package main is the worksite command-line client. It drives the
// session coordinator the same way the web pages do: run the auth
// check before touching protected data, fall back to the login flow
// when the check fails.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pinhsin/worksite/internal/client/api"
	"github.com/pinhsin/worksite/internal/client/auth"
	"github.com/pinhsin/worksite/internal/client/session"
	"github.com/pinhsin/worksite/internal/client/warmup"
	"github.com/pinhsin/worksite/internal/logger"
	"github.com/pinhsin/worksite/internal/models"
)

var (
	version   string
	buildDate string
)

// promptCredentials reads a username and password from the terminal.
func promptCredentials() (string, string) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Username: ")
	scanner.Scan()
	username := strings.TrimSpace(scanner.Text())

	fmt.Print("Password: ")
	scanner.Scan()
	password := scanner.Text()

	return username, password
}

// loginViaModal walks the login modal flow on the terminal: prompt,
// submit, and surface the inline error on rejection.
func loginViaModal(ctx context.Context, coord *auth.Coordinator) bool {
	username, password := promptCredentials()
	if err := coord.Login(ctx, username, password); err != nil {
		fmt.Println("Login failed:", coord.Modal().ErrorText)
		return false
	}
	return true
}

func main() {
	var (
		cmd         string
		host        string
		sessionPath string
		admin       bool
		liffUserID  string
		liffToken   string
		showVer     bool
	)

	flag.StringVar(&cmd, "cmd", "", "command: check | login | whoami | logout | liff")
	flag.StringVar(&host, "host", "localhost", "hostname the app is served from (selects the backend)")
	flag.StringVar(&sessionPath, "session", session.DefaultPath, "path to the session state file")
	flag.BoolVar(&admin, "admin", false, "require the admin role for the check")
	flag.StringVar(&liffUserID, "liff-user", "", "LIFF user ID for cross-channel auth")
	flag.StringVar(&liffToken, "liff-token", "", "LIFF access token for cross-channel auth")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Worksite Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	zl := logger.New()
	if err := zl.Init("warn"); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Log.Sync() }()

	// The session must be restored before anything reads the token.
	store := session.NewStore(sessionPath)
	if err := store.Load(); err != nil {
		log.Fatal(err)
	}

	client := api.NewClient(api.ResolveBaseURL(host), store)
	prober := warmup.NewProber(client.HealthURL())
	coord := auth.NewCoordinator(client, store, prober, zl.Log)

	// Render coordinator state as terminal output.
	coord.OnOverlayChange(func(s auth.OverlayState) {
		if s.Visible {
			fmt.Println("…", s.Message)
		}
	})
	coord.OnNotice(func(n auth.Notice) {
		fmt.Printf("[%s] %s\n", n.Level, n.Message)
	})

	ctx := context.Background()

	switch cmd {
	case "check":
		var ok bool
		coord.InitializeAuthCheck(ctx, auth.CheckOptions{
			RequireAdmin: admin,
			OnSuccess: func(p models.Profile) {
				ok = true
				fmt.Printf("Welcome %s (%s)\n", p.DisplayName, p.Role.DisplayName())
			},
			OnFailure: func() {
				fmt.Println("Authentication check failed")
			},
		})
		if !ok && coord.Modal().Visible {
			if loginViaModal(ctx, coord) {
				fmt.Println("Re-run the check to continue")
			}
		}
		coord.WaitBackground()
	case "login":
		if !loginViaModal(ctx, coord) {
			os.Exit(1)
		}
	case "whoami":
		profile := coord.CurrentProfile()
		if profile == nil {
			fmt.Println("Not logged in")
			os.Exit(1)
		}
		fmt.Printf("%s (%s) role=%s site=%s\n",
			profile.Username, profile.DisplayName, profile.Role, profile.SiteID)
	case "logout":
		coord.Logout()
	case "liff":
		if liffUserID == "" || liffToken == "" {
			log.Fatal("please provide -liff-user and -liff-token")
		}
		result, err := client.CrossChannelAuth(ctx, liffUserID, liffToken)
		if err != nil {
			log.Fatal(err)
		}
		if err := store.SetToken(result.AuthToken); err != nil {
			log.Fatal(err)
		}
		profile, err := client.CurrentUser(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if err := store.SetProfile(*profile); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Linked as %s (%s)\n", profile.Username, profile.Role.DisplayName())
	default:
		log.Fatalf("unknown command: %s", cmd)
	}
}
