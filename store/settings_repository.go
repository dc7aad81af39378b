package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SettingsRepository reads and writes per-user settings
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a repository over an open connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Server returns the user's configured Ombi server address, or "" when the
// user has never set one.
func (r *SettingsRepository) Server(ctx context.Context, userID string) (string, error) {
	return r.get(ctx, userID, "server")
}

// SetServer stores the user's Ombi server address
func (r *SettingsRepository) SetServer(ctx context.Context, userID, server string) error {
	return r.set(ctx, userID, "server", server)
}

// Token returns the user's stored API token, or "" when the user has never
// logged in.
func (r *SettingsRepository) Token(ctx context.Context, userID string) (string, error) {
	return r.get(ctx, userID, "token")
}

// SetToken stores the user's API token
func (r *SettingsRepository) SetToken(ctx context.Context, userID, token string) error {
	return r.set(ctx, userID, "token", token)
}

func (r *SettingsRepository) get(ctx context.Context, userID, column string) (string, error) {
	var value string
	// column is one of the two fixed setting names, never user input
	query := fmt.Sprintf("SELECT %s FROM user_settings WHERE user_id = ?", column)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", column, err)
	}
	return value, nil
}

func (r *SettingsRepository) set(ctx context.Context, userID, column, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO user_settings (user_id, %[1]s) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET %[1]s = excluded.%[1]s
	`, column)
	if _, err := r.db.ExecContext(ctx, query, userID, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", column, err)
	}
	return nil
}
