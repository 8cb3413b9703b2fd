package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: /var/lib/tally/data.db
catalog:
  authority: admin
log:
  level: debug
`), 0o644))

	t.Setenv("TALLY_CONFIG_PATH", path)
	t.Setenv("TALLY_SERVER_HOST", "127.0.0.1")
	t.Setenv("TALLY_LOG_LEVEL", "warn")
	t.Setenv("TALLY_AUTH_ENABLED", "false")
	t.Setenv("TALLY_TRANSPORT_MODE", "stdio")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/var/lib/tally/data.db", cfg.DB.Path)
	require.Equal(t, "admin", cfg.Catalog.Authority)
	require.Equal(t, "warn", cfg.Log.Level)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, TransportStdio, cfg.Transport.Mode)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Run("port", func(t *testing.T) {
		t.Setenv("TALLY_SERVER_PORT", "eighty")
		_, err := Load()
		require.ErrorContains(t, err, "TALLY_SERVER_PORT")
	})
	t.Run("auth", func(t *testing.T) {
		t.Setenv("TALLY_AUTH_ENABLED", "maybe")
		_, err := Load()
		require.ErrorContains(t, err, "TALLY_AUTH_ENABLED")
	})
	t.Run("mode", func(t *testing.T) {
		t.Setenv("TALLY_TRANSPORT_MODE", "carrier-pigeon")
		_, err := Load()
		require.ErrorContains(t, err, "transport mode")
	})
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("TALLY_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := Load()
		require.ErrorContains(t, err, "read config file")
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	require.ErrorContains(t, err, "port 0")
	require.ErrorContains(t, err, "log level")

	cfg = Default()
	cfg.Transport.Mode = TransportStdio
	cfg.Server.Port = 0
	require.NoError(t, cfg.Validate())
}
