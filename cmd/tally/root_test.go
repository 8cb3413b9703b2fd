package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/tally/internal/config"
	"github.com/rpggio/tally/internal/sqlite"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "tally.db")

	out, err := execute(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
	require.Contains(t, out, "database ready")

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	// Running again is a no-op.
	_, err = execute(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
}

func TestAPIKeyCreateCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tally.db")

	out, err := execute(t, "apikey", "create", "--db", dbPath, "--user", "alice", "--description", "laptop")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(token, "tally_"))

	db, err := sqlite.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userID, err := sqlite.NewAPIKeyRepository(db).ResolveUser(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "alice", userID)
}

func TestAPIKeyCreateCommand_RequiresUser(t *testing.T) {
	_, err := execute(t, "apikey", "create", "--db", filepath.Join(t.TempDir(), "tally.db"))
	require.Error(t, err)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	t.Setenv("TALLY_TRANSPORT_MODE", "smoke-signals")
	_, err := execute(t, "migrate", "--db", filepath.Join(t.TempDir(), "tally.db"))
	require.ErrorContains(t, err, "config error")
}

func TestNewLogger_File(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Path = filepath.Join(t.TempDir(), "logs", "tally.log")
	cfg.Log.Level = "debug"

	logger, closer, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.Log.Path)
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=hello")
	require.Contains(t, string(data), "k=v")
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("anything"))
}
