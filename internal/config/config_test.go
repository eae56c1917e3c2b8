package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\nredis:\n  addr: localhost:6379\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "quiz.db", cfg.Database.DSN)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, "admin@quiz.com", cfg.Admin.Email)
	require.NotEmpty(t, cfg.Auth.JWTSecret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestTTLDuration(t *testing.T) {
	require.Equal(t, 5*time.Minute, TTLDuration("", 5*time.Minute))
	require.Equal(t, 2*time.Hour, TTLDuration("2h", 5*time.Minute))
	require.Equal(t, 5*time.Minute, TTLDuration("soon", 5*time.Minute))
}
