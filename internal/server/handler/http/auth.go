// Package http provides the HTTP handlers for the worksite API:
// authentication, LIFF cross-channel token exchange, and health.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pinhsin/worksite/internal/middleware"
	"github.com/pinhsin/worksite/internal/models"
)

// AuthService defines the authentication operations required by the
// HTTP handlers.
type AuthService interface {
	// Login verifies credentials and returns a token plus the
	// user's profile. Returns models.ErrInvalidCredentials when the
	// username or password is wrong.
	Login(ctx context.Context, username, password string) (string, *models.Profile, error)
	// UserByID returns the profile of the user with the given ID.
	UserByID(ctx context.Context, id string) (*models.Profile, error)
	// ExchangeCrossChannel swaps a LIFF identity for a worksite
	// token. Returns models.ErrChannelUnauthorized when the LINE
	// user has no bound account.
	ExchangeCrossChannel(ctx context.Context, liffUserID, liffAccessToken string) (*models.CrossChannelResult, error)
}

// AuthHandler handles login, current-user and cross-channel requests.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Validate checks decoded request schemas.
	Validate *validator.Validate
}

// NewAuthHandler constructs an AuthHandler around the given service.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		AuthService: svc,
		Validate:    validator.New(),
	}
}

// loginRequest is the JSON payload for POST /api/auth/login.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login. On success it returns the token
// and profile inside the standard envelope.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body is not valid JSON", "")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required", "")
		return
	}

	token, profile, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED",
				"invalid username or password", "Check your credentials and try again")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "login failed", "")
		return
	}

	writeSuccess(w, http.StatusOK, models.LoginResult{Token: token, User: *profile})
}

// Me handles GET /api/auth/me. The bearer middleware has already
// resolved the token to a user ID in the request context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "authentication required", "")
		return
	}

	profile, err := h.AuthService.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// The token outlived the account.
			writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "account no longer exists", "Log in again")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load user", "")
		return
	}

	writeSuccess(w, http.StatusOK, profile)
}

// crossChannelRequest is the JSON payload for
// POST /api/line/cross-channel-auth.
type crossChannelRequest struct {
	LiffUserID      string `json:"liffUserId" validate:"required"`
	LiffAccessToken string `json:"liffAccessToken" validate:"required"`
	ChannelType     string `json:"channelType" validate:"required,eq=liff"`
}

// CrossChannelAuth handles the LIFF token exchange. A LINE user with a
// bound worksite account receives an opaque auth token scoped to the
// configured TTL.
func (h *AuthHandler) CrossChannelAuth(w http.ResponseWriter, r *http.Request) {
	var req crossChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body is not valid JSON", "")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"liffUserId, liffAccessToken and channelType=liff are required", "")
		return
	}

	result, err := h.AuthService.ExchangeCrossChannel(r.Context(), req.LiffUserID, req.LiffAccessToken)
	if err != nil {
		if errors.Is(err, models.ErrChannelUnauthorized) {
			writeError(w, http.StatusForbidden, "ACCESS_DENIED",
				"this LINE account is not linked to a worksite user", "Contact your site manager to get linked")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "cross-channel exchange failed", "")
		return
	}

	writeSuccess(w, http.StatusOK, result)
}
