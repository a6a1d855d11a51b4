// Package main initializes and starts the worksite API server, wiring
// configuration, logging, the database, repositories, services and
// HTTP handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/pinhsin/worksite/internal/config"
	"github.com/pinhsin/worksite/internal/db"
	"github.com/pinhsin/worksite/internal/logger"
	"github.com/pinhsin/worksite/internal/repository"
	"github.com/pinhsin/worksite/internal/server/handler/http"
	"github.com/pinhsin/worksite/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging early so config failures are loggable.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()

	options, err := config.Parse()
	if err != nil {
		log.Log.Fatal("failed to parse configuration", zap.Error(err))
	}
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	if options.SeedTestAccounts {
		if err := db.SeedTestAccounts(context.Background(), postgresDB); err != nil {
			zapLogger.Fatal("cannot seed test accounts", zap.Error(err))
		}
		zapLogger.Info("development accounts seeded")
	}

	// Expired LIFF tokens are swept in the background.
	db.StartChannelTokenCleaner(context.Background(), postgresDB,
		time.Hour,
		zapLogger,
	)

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	tokenRepo := repository.NewPostgresChannelTokenRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(
		authRepo,
		tokenRepo,
		options.JWTSecret,
		24*time.Hour,
		time.Duration(options.ChannelTokenTTLHours)*time.Hour,
	)

	// Create HTTP handlers.
	authHandler := http.NewAuthHandler(authService)
	healthHandler := &http.HealthHandler{}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, healthHandler, options.JWTSecret, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
