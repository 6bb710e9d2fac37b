package postadmin

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// tokenKey is the fixed credentials key the API bearer token lives under.
const tokenKey = "api_token"

// TokenStore persists panel credentials in SQLite. It implements
// client.TokenProvider: the token is read on every outgoing request, so
// SetToken takes effect immediately.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore opens (or creates) the credentials database at path,
// ensuring the data directory exists.
func NewTokenStore(path string) (*TokenStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("postadmin: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("postadmin: open credentials db: %w", err)
	}
	// WAL plus a busy timeout so the settings handler and request-path reads
	// never trip over SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, fmt.Errorf("postadmin: configure credentials db: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	s := &TokenStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *TokenStore) Close() error {
	return s.db.Close()
}

func (s *TokenStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS credentials (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("postadmin: migrate credentials db: %w", err)
	}
	return nil
}

// Token returns the stored API bearer token, or "" when none is installed.
// An empty token means outgoing requests go unauthenticated; the remote
// decides whether to reject them.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, tokenKey).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("postadmin: read token: %w", err)
	}
	return value, nil
}

// SetToken installs or replaces the API bearer token.
func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO credentials (key, value) VALUES (?, ?)`, tokenKey, token)
	if err != nil {
		return fmt.Errorf("postadmin: store token: %w", err)
	}
	return nil
}

// ClearToken removes the stored token so requests go unauthenticated.
func (s *TokenStore) ClearToken(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, tokenKey)
	if err != nil {
		return fmt.Errorf("postadmin: clear token: %w", err)
	}
	return nil
}
