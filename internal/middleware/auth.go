// Package middleware provides HTTP middlewares for authentication and
// request logging.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pinhsin/worksite/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// ChannelTokenValidator resolves an opaque LIFF-issued token to the
// owning user ID. Returns an error for unknown or expired tokens.
type ChannelTokenValidator interface {
	UserIDForToken(ctx context.Context, token string) (string, error)
}

// BearerAuth enforces bearer-token authentication. It accepts the
// service's own HS256 JWTs as well as the opaque tokens issued by the
// LIFF cross-channel exchange, and stores the resolved user ID in the
// request context for downstream handlers.
func BearerAuth(jwtSecret string, channelTokens ChannelTokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "AUTHENTICATION_REQUIRED", "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				unauthorized(w, "AUTHENTICATION_REQUIRED", "invalid authorization header")
				return
			}
			token := parts[1]

			userID, err := resolveJWT(token, jwtSecret)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "TOKEN_EXPIRED", "token has expired")
					return
				}
				// Not one of our JWTs; try the opaque channel tokens.
				if channelTokens != nil {
					userID, err = channelTokens.UserIDForToken(r.Context(), token)
				}
				if err != nil || userID == "" {
					unauthorized(w, "AUTHENTICATION_REQUIRED", "invalid token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveJWT verifies an HS256 JWT and returns its subject.
func resolveJWT(token, secret string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return sub, nil
}

func unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.Envelope{
		Success: false,
		Error:   &models.ErrorBody{Code: code, Message: message},
	})
}

// WithUserID returns a context carrying the authenticated user ID, the
// same way BearerAuth stores it.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// GetUserIDFromContext extracts the authenticated user ID from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
