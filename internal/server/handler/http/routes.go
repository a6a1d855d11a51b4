package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pinhsin/worksite/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the worksite API.
//
// Routes:
//
//	GET  /health                       → healthHandler.Health (no auth)
//	POST /api/auth/login               → authHandler.Login
//	POST /api/line/cross-channel-auth  → authHandler.CrossChannelAuth
//	GET  /api/auth/me                  → authHandler.Me (bearer auth)
//
// The /api subtree only accepts application/json bodies. Request
// logging covers everything, including the health probe.
func NewRouter(
	authHandler *AuthHandler,
	healthHandler *HealthHandler,
	jwtSecret string,
	channelTokens middleware.ChannelTokenValidator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))

	// The warmup probe must stay reachable without auth or headers.
	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		// Public endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/line/cross-channel-auth", authHandler.CrossChannelAuth)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(jwtSecret, channelTokens))
			r.Get("/auth/me", authHandler.Me)
		})
	})

	return r
}
