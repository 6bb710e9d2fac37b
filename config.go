package postadmin

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for a postadmin panel.
type Config struct {
	Name   string `env:"POSTADMIN_NAME" envDefault:"Post Admin"` // Panel title shown by the templates
	APIURL string `env:"POSTADMIN_API_URL"`                      // Required: base URL of the remote blog API

	Addr   string `env:"POSTADMIN_ADDR" envDefault:":3000"`                // Listen address
	DBPath string `env:"POSTADMIN_DB_PATH" envDefault:"data/postadmin.db"` // Credentials SQLite path

	AdminPassword string `env:"POSTADMIN_ADMIN_PASSWORD"` // Required: panel login password
	SessionSecret string `env:"POSTADMIN_SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `env:"POSTADMIN_COOKIE_SECURE"`  // Set true for HTTPS
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Post Admin"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DBPath == "" {
		c.DBPath = "data/postadmin.db"
	}
}

// MinSessionSecretLength is the minimum accepted session secret length.
const MinSessionSecretLength = 32

// LoadConfig parses the environment into a Config and validates the
// required values.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("postadmin: parse config: %w", err)
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("postadmin: POSTADMIN_API_URL is required")
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("postadmin: POSTADMIN_ADMIN_PASSWORD is required")
	}
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("postadmin: POSTADMIN_SESSION_SECRET must be at least %d bytes; "+
			"generate one with: openssl rand -base64 32", MinSessionSecretLength)
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
