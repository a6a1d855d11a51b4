// Package db initializes the PostgreSQL schema and runs background
// maintenance over it.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/lib/pq"

	"github.com/pinhsin/worksite/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    display_name TEXT NOT NULL,
    role TEXT NOT NULL,
    site_id TEXT,
    password_hash BYTEA NOT NULL,
    line_user_id TEXT UNIQUE
);

CREATE TABLE IF NOT EXISTS channel_tokens (
    token TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users(id) ON DELETE CASCADE,
    expires_at TIMESTAMPTZ NOT NULL
);
`

// InitPostgres opens the database, verifies connectivity and applies
// the schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

// testAccounts are the local-development logins. Only seeded when the
// config explicitly asks for it.
var testAccounts = []struct {
	username    string
	displayName string
	role        models.Role
}{
	{"admin", "Administrator", models.RoleAdmin},
	{"manager1", "Site Manager One", models.RoleSiteManager},
}

// SeedTestAccounts inserts the development accounts (password
// "test123") when they do not exist yet.
func SeedTestAccounts(ctx context.Context, db *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("test123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash test password: %w", err)
	}

	for _, acc := range testAccounts {
		_, err := db.ExecContext(ctx, `
            INSERT INTO users (id, username, display_name, role, password_hash)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (username) DO NOTHING
        `, uuid.NewString(), acc.username, acc.displayName, string(acc.role), hash)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", acc.username, err)
		}
	}
	return nil
}
