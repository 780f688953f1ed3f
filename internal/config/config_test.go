package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "us-east-1", cfg.Server.DefaultRegion)
	require.Equal(t, "sqlite", cfg.Store.Driver)
	require.Equal(t, "loom.db", cfg.Store.SQLitePath)
	require.Equal(t, "off", cfg.MCP.Mode)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
  default_region: eu-west-1
store:
  driver: redis
  redis_addr: cache:6379
log:
  level: debug
`), 0o600))

	t.Setenv("LOOM_CONFIG_PATH", path)
	t.Setenv("LOOM_SERVER_PORT", "9100")
	t.Setenv("LOOM_EVENTS_NATS_URL", "nats://bus:4222")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "eu-west-1", cfg.Server.DefaultRegion)
	require.Equal(t, "redis", cfg.Store.Driver)
	require.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "nats://bus:4222", cfg.Events.NATSURL)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOOM_MCP_MODE=http\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOOM_MCP_MODE") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.MCP.Mode)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOOM_STORE_DRIVER", "postgres")

	_, err := Load()
	require.ErrorContains(t, err, "store.driver")
}

func TestLoadRejectsInvalidRegion(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOOM_SERVER_DEFAULT_REGION", "us.east")

	_, err := Load()
	require.ErrorContains(t, err, "server.default_region")
}
