// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	MongoURI      string `env:"ADMIN_PANEL_MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDatabase string `env:"ADMIN_PANEL_MONGO_DB" envDefault:"festival"`
	OpsDBPath     string `env:"ADMIN_PANEL_OPS_DB_PATH" envDefault:"./data/adminpanel.db"`
	SessionSecret string `env:"ADMIN_PANEL_SESSION_SECRET,required"`
	ServerHost    string `env:"ADMIN_PANEL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"ADMIN_PANEL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ADMIN_PANEL_ENV" envDefault:"development"`
	LogLevel      string `env:"ADMIN_PANEL_LOG_LEVEL" envDefault:"info"`

	// Admin access configuration. AdminEmails is the allow-list of addresses
	// granted the admin role; it is resolved once at startup and injected into
	// the auth components, never read ad hoc.
	AdminEmails       []string `env:"ADMIN_PANEL_ADMIN_EMAILS" envSeparator:","`
	AdminEmail        string   `env:"ADMIN_PANEL_ADMIN_EMAIL"`
	AdminPasswordHash string   `env:"ADMIN_PANEL_ADMIN_PASSWORD_HASH"`

	// DevAuthBypass approves any credential pair as admin. It is an explicit,
	// auditable switch and is only honored in the development environment;
	// Load fails if it is set anywhere else.
	DevAuthBypass bool `env:"ADMIN_PANEL_DEV_AUTH_BYPASS" envDefault:"false"`

	// Cache configuration
	RedisURL     string `env:"ADMIN_PANEL_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"ADMIN_PANEL_CACHE_PREFIX" envDefault:"padmin:"` // Redis key prefix
	CacheTTL     int    `env:"ADMIN_PANEL_CACHE_TTL" envDefault:"300"`        // Event summary cache TTL in seconds
	CacheMaxSize int    `env:"ADMIN_PANEL_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// AuditRetentionDays is how long sign-in and warning records are kept
	// before the scheduler prunes them.
	AuditRetentionDays int `env:"ADMIN_PANEL_AUDIT_RETENTION_DAYS" envDefault:"90"`

	// Seeding configuration
	DoSeed bool `env:"ADMIN_PANEL_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// IsAdminEmail reports whether the given address is on the admin allow-list.
// Comparison is case-insensitive; the allow-list is normalized in Load.
func (c Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range c.AdminEmails {
		if allowed == email {
			return true
		}
	}
	return false
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("ADMIN_PANEL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("ADMIN_PANEL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("ADMIN_PANEL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	// The auth bypass authenticates any credential pair as admin. Refusing it
	// outside development keeps a stray env var from opening the panel up.
	if cfg.DevAuthBypass && !cfg.IsDevelopment() {
		return nil, fmt.Errorf("ADMIN_PANEL_DEV_AUTH_BYPASS is only honored when ADMIN_PANEL_ENV=development, got %q", cfg.Env)
	}

	// Normalize the allow-list: trim, lowercase, drop empties.
	normalized := cfg.AdminEmails[:0]
	for _, e := range cfg.AdminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			normalized = append(normalized, e)
		}
	}
	cfg.AdminEmails = normalized

	if len(cfg.AdminEmails) == 0 && !cfg.DevAuthBypass {
		slog.Warn("ADMIN_PANEL_ADMIN_EMAILS is empty; no account will pass the admin allow-list check")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
