// Package repository provides PostgreSQL persistence for users and
// channel tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pinhsin/worksite/internal/models"
)

// PostgresAuthRepository implements user lookups against PostgreSQL.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a repository over the given
// database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

const userColumns = `id, username, display_name, role, site_id, password_hash, line_user_id`

// scanUser reads one user row. sql.ErrNoRows becomes
// models.ErrUserNotFound.
func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u          models.User
		siteID     sql.NullString
		lineUserID sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role, &siteID, &u.PasswordHash, &lineUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	u.SiteID = siteID.String
	u.LineUserID = lineUserID.String
	return &u, nil
}

// UserByUsername returns the user with the given login name.
func (r *PostgresAuthRepository) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// UserByID returns the user with the given ID.
func (r *PostgresAuthRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UserByLineID returns the user bound to the given LINE user ID.
func (r *PostgresAuthRepository) UserByLineID(ctx context.Context, lineUserID string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE line_user_id = $1`, lineUserID)
	return scanUser(row)
}
