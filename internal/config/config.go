// Package config provides configuration for the worksite server using
// command-line flags, an optional JSON config file, and environment
// variables. Environment variables win over the file, which wins over
// flags.
package config

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"
)

// Options holds the configuration values for the server.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"addr" env:"SERVER_ADDRESS"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn" env:"DATABASE_DSN"`

	// JWTSecret signs login-issued tokens.
	JWTSecret string `json:"jwt_secret" env:"JWT_SECRET"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// SeedTestAccounts enables the local-development login accounts.
	SeedTestAccounts bool `json:"seed_test_accounts" env:"SEED_TEST_ACCOUNTS"`

	// ChannelTokenTTLHours bounds the lifetime of LIFF-issued tokens.
	ChannelTokenTTLHours int `json:"channel_token_ttl_hours" env:"CHANNEL_TOKEN_TTL_HOURS"`

	// Config is the path to the JSON config file.
	Config string `json:"-" env:"CONFIG"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:3000", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "jwt-secret", "", "secret for signing tokens")
	flag.StringVar(&options.LogLevel, "log-level", "info", "minimum log level")
	flag.BoolVar(&options.SeedTestAccounts, "seed", false, "seed development accounts")
	flag.IntVar(&options.ChannelTokenTTLHours, "channel-ttl", 12, "LIFF token lifetime in hours")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse merges flags, the config file and environment variables into
// the final Options.
func Parse() (*Options, error) {
	flag.Parse()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(context.Background(), options); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	return options, nil
}
