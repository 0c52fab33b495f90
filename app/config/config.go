// Package config loads Inkwell settings from defaults, an optional YAML file
// and INKWELL_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the complete Inkwell configuration
type Config struct {
	// Addr is the HTTP listen address
	Addr string `yaml:"addr" validate:"required"`
	// Database is the SQLite file holding posts, users, comments and saves
	Database string `yaml:"database" validate:"required"`
	// Sessions is the badger directory for login sessions (empty = in memory)
	Sessions string `yaml:"sessions"`
	// SessionLifetime is how long a login lasts
	SessionLifetime time.Duration `yaml:"session_lifetime" validate:"gt=0"`
	// SecureCookies marks the session cookie Secure (HTTPS only)
	SecureCookies bool `yaml:"secure_cookies"`

	UploadDir string `yaml:"upload_dir" validate:"required"`
	StaticDir string `yaml:"static_dir" validate:"required"`

	PageSize     int `yaml:"page_size" validate:"gte=1,lte=100"`
	PopularLimit int `yaml:"popular_limit" validate:"gte=1,lte=50"`

	// AdminEmails get the admin role when they register
	AdminEmails []string `yaml:"admin_emails" validate:"dive,email"`

	DefaultPostImage    string `yaml:"default_post_image"`
	DefaultProfileImage string `yaml:"default_profile_image"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Addr:                ":8080",
		Database:            "data/inkwell.db",
		Sessions:            "data/sessions",
		SessionLifetime:     7 * 24 * time.Hour,
		UploadDir:           "static/uploads",
		StaticDir:           "static",
		PageSize:            5,
		PopularLimit:        5,
		DefaultPostImage:    "/static/img/post-bg.jpg",
		DefaultProfileImage: "/static/img/user-icon.jpg",
		LogLevel:            "info",
	}
}

// Load reads path (if not empty) over the defaults and applies the
// environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from INKWELL_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"INKWELL_ADDR":       &c.Addr,
		"INKWELL_DATABASE":   &c.Database,
		"INKWELL_SESSIONS":   &c.Sessions,
		"INKWELL_UPLOAD_DIR": &c.UploadDir,
		"INKWELL_STATIC_DIR": &c.StaticDir,
		"INKWELL_LOG_LEVEL":  &c.LogLevel,
	}
	for key, field := range str {
		if v, ok := lookup(key); ok {
			*field = v
		}
	}

	if v, ok := lookup("INKWELL_ADMIN_EMAILS"); ok {
		c.AdminEmails = nil
		for _, email := range strings.Split(v, ",") {
			if email = strings.TrimSpace(email); email != "" {
				c.AdminEmails = append(c.AdminEmails, email)
			}
		}
	}
	if v, ok := lookup("INKWELL_SESSION_LIFETIME"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("INKWELL_SESSION_LIFETIME: %w", err)
		}
		c.SessionLifetime = d
	}
	if v, ok := lookup("INKWELL_PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("INKWELL_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	if v, ok := lookup("INKWELL_SECURE_COOKIES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("INKWELL_SECURE_COOKIES: %w", err)
		}
		c.SecureCookies = b
	}
	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	if err != nil {
		return err
	}
	if c.Sessions != "" && c.Sessions == c.Database {
		return errors.New("sessions and database must not share a path")
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
