package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pinhsin/worksite/internal/models"
)

// PostgresChannelTokenRepository stores the opaque tokens issued by
// the LIFF cross-channel exchange.
type PostgresChannelTokenRepository struct {
	DB *sql.DB
}

// NewPostgresChannelTokenRepository creates a repository over the given
// database connection.
func NewPostgresChannelTokenRepository(db *sql.DB) *PostgresChannelTokenRepository {
	return &PostgresChannelTokenRepository{DB: db}
}

// Insert records a freshly issued token with its expiry.
func (r *PostgresChannelTokenRepository) Insert(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO channel_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt)
	return err
}

// UserIDForToken resolves an unexpired token to its owner. Unknown and
// expired tokens both come back as models.ErrUserNotFound.
func (r *PostgresChannelTokenRepository) UserIDForToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id FROM channel_tokens WHERE token = $1 AND expires_at > NOW()`,
		token).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.ErrUserNotFound
		}
		return "", err
	}
	return userID, nil
}
