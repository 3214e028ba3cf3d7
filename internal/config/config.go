// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application settings from OCMS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/ocms-multilingual/internal/multilingual"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Roles accepted by OCMS_DEFAULT_ROLE.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver string `env:"OCMS_DB_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"OCMS_DB_PATH" envDefault:"./data/ocms.db"`
	DBDSN    string `env:"OCMS_DB_DSN"` // MySQL only, e.g. user:pass@tcp(host:3306)/ocms

	// Languages is the ordered list of translation languages. The primary
	// language defaults to the first entry.
	Languages       []string `env:"OCMS_LANGUAGES" envDefault:"en,fr,de" envSeparator:","`
	PrimaryLanguage string   `env:"OCMS_PRIMARY_LANGUAGE"`

	SessionSecret string `env:"OCMS_SESSION_SECRET,required"`
	ServerHost    string `env:"OCMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"OCMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"OCMS_ENV" envDefault:"development"`
	LogLevel      string `env:"OCMS_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"OCMS_REDIS_URL"`                         // Optional; memory cache when empty
	CachePrefix  string `env:"OCMS_CACHE_PREFIX" envDefault:"ocms:"`   // Redis key prefix
	CacheTTL     int    `env:"OCMS_CACHE_TTL" envDefault:"3600"`       // Seconds
	CacheMaxSize int    `env:"OCMS_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// DefaultRole is granted to admin sessions that carry no role. Writes
	// need an admin login unless this is raised.
	DefaultRole string `env:"OCMS_DEFAULT_ROLE" envDefault:"viewer"`

	// AdminPasswordHash is an argon2id hash checked by the admin login.
	// Login is disabled when empty.
	AdminPasswordHash string `env:"OCMS_ADMIN_PASSWORD_HASH"`

	// EventRetentionDays is how long event log entries are kept. Zero keeps
	// them forever.
	EventRetentionDays int `env:"OCMS_EVENT_RETENTION_DAYS" envDefault:"90"`

	DoSeed bool `env:"OCMS_DO_SEED" envDefault:"false"`
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

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// EventRetention returns EventRetentionDays as a duration.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// DBTarget returns the path or DSN passed to store.Open.
func (c Config) DBTarget() string {
	if c.DBDriver == DriverMySQL {
		return c.DBDSN
	}
	return c.DBPath
}

// LanguageSet builds the configured language list.
func (c Config) LanguageSet() (multilingual.Languages, error) {
	codes := make([]string, 0, len(c.Languages))
	for _, code := range c.Languages {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return multilingual.NewLanguages(codes, c.PrimaryLanguage)
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses the process environment.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses the given environment and validates the result.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("OCMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	if slices.Contains(knownWeakSecrets, c.SessionSecret) {
		return errors.New("OCMS_SESSION_SECRET is a known default value and must not be used; " +
			"generate a secure secret with: openssl rand -base64 32")
	}
	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("OCMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch c.DBDriver {
	case DriverSQLite:
	case DriverMySQL:
		if c.DBDSN == "" {
			return errors.New("OCMS_DB_DSN is required when OCMS_DB_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("OCMS_DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMySQL, c.DBDriver)
	}

	if _, err := c.LanguageSet(); err != nil {
		return fmt.Errorf("OCMS_LANGUAGES: %w", err)
	}

	switch c.DefaultRole {
	case RoleAdmin, RoleEditor, RoleViewer:
	default:
		return fmt.Errorf("OCMS_DEFAULT_ROLE must be one of admin, editor, viewer, got %q", c.DefaultRole)
	}

	if c.CacheTTL < 0 || c.CacheMaxSize < 0 {
		return errors.New("OCMS_CACHE_TTL and OCMS_CACHE_MAX_SIZE must not be negative")
	}
	if c.EventRetentionDays < 0 {
		return errors.New("OCMS_EVENT_RETENTION_DAYS must not be negative")
	}
	return nil
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
