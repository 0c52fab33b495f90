package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 5, cfg.PopularLimit)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing addr", func(c *Config) { c.Addr = "" }, "Addr"},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "PageSize"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"bad admin email", func(c *Config) { c.AdminEmails = []string{"nope"} }, "AdminEmails"},
		{"zero lifetime", func(c *Config) { c.SessionLifetime = 0 }, "SessionLifetime"},
		{"shared path", func(c *Config) { c.Sessions = c.Database }, "share"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkwell.yaml")
	yaml := `
addr: ":9000"
database: /var/lib/inkwell/blog.db
session_lifetime: 2h
page_size: 10
admin_emails:
  - boss@example.com
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	t.Setenv("INKWELL_ADDR", ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "/var/lib/inkwell/blog.db", cfg.Database)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, []string{"boss@example.com"}, cfg.AdminEmails)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "static/uploads", cfg.UploadDir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: [1"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"INKWELL_ADMIN_EMAILS":     " a@example.com, ,b@example.com ",
		"INKWELL_SESSION_LIFETIME": "30m",
		"INKWELL_SECURE_COOKIES":   "true",
		"INKWELL_SESSIONS":         "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 30*time.Minute, cfg.SessionLifetime)
	assert.True(t, cfg.SecureCookies)
	assert.Empty(t, cfg.Sessions)

	env["INKWELL_PAGE_SIZE"] = "many"
	assert.Error(t, DefaultConfig().ApplyEnv(lookup))
}
