package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadParsesFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  address: "127.0.0.1"
  port: 9090
  db_path: "/tmp/profiles"
logging:
  level: debug
room:
  history_limit: 50
  message_ttl: 24h
  rose_interval: 1s
  send_buffer: 64
sweep:
  enabled: true
  cron: "0 * * * *"
gateway:
  allowed_origins: ["https://chat.example.com"]
  max_payload: 64KB
  rate_limit:
    rps: 20
    burst: 40
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.Addr())
	require.Equal(t, "/tmp/profiles", cfg.Server.DBPath)
	require.Equal(t, 50, cfg.Room.HistoryLimit)
	require.Equal(t, 24*time.Hour, cfg.Room.MessageTTL.Std())
	require.Equal(t, time.Second, cfg.Room.RoseInterval.Std())
	require.True(t, cfg.Sweep.Enabled)
	require.Equal(t, "0 * * * *", cfg.Sweep.Cron)
	require.Equal(t, SizeBytes(64000), cfg.Gateway.MaxPayload)
	require.Equal(t, 20.0, cfg.Gateway.RateLimit.RPS)
}

func TestDurationAcceptsBareSeconds(t *testing.T) {
	path := writeConfig(t, "room:\n  rose_interval: 2\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.Room.RoseInterval.Std())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.True(t, os.IsNotExist(err))
}

func TestResolveConfigPath(t *testing.T) {
	require.Equal(t, "/explicit.yaml", ResolveConfigPath("/explicit.yaml", true))

	t.Setenv("ROSECHAT_CONFIG", "/from-env.yaml")
	require.Equal(t, "/from-env.yaml", ResolveConfigPath("./config.yaml", false))

	t.Setenv("ROSECHAT_CONFIG", "")
	require.Equal(t, "./config.yaml", ResolveConfigPath("./config.yaml", false))
}

func TestParseConfigEnvs(t *testing.T) {
	t.Setenv("ROSECHAT_SERVER_ADDR", "0.0.0.0:7070")
	t.Setenv("ROSECHAT_HISTORY_LIMIT", "25")
	t.Setenv("ROSECHAT_MESSAGE_TTL", "12h")
	t.Setenv("ROSECHAT_ROSE_INTERVAL", "500ms")
	t.Setenv("ROSECHAT_SWEEP_CRON", "*/30 * * * *")
	t.Setenv("ROSECHAT_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ROSECHAT_RATE_RPS", "10")
	t.Setenv("ROSECHAT_RATE_BURST", "20")

	cfg, used := ParseConfigEnvs()
	require.True(t, used)
	require.Equal(t, "0.0.0.0:7070", cfg.Addr())
	require.Equal(t, 25, cfg.Room.HistoryLimit)
	require.Equal(t, 12*time.Hour, cfg.Room.MessageTTL.Std())
	require.Equal(t, 500*time.Millisecond, cfg.Room.RoseInterval.Std())
	require.True(t, cfg.Sweep.Enabled)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Gateway.AllowedOrigins)
	require.Equal(t, 10.0, cfg.Gateway.RateLimit.RPS)
	require.Equal(t, 20, cfg.Gateway.RateLimit.Burst)
}

func TestLoadEffectiveConfigPrecedence(t *testing.T) {
	fileCfg := &Config{}
	fileCfg.Server.Address = "file-host"
	fileCfg.Server.Port = 1111
	fileCfg.Server.DBPath = "/file/db"

	envCfg := &Config{}
	envCfg.Server.Address = "env-host"
	envCfg.Server.Port = 2222

	t.Run("ExplicitConfigFlagRequiresFile", func(t *testing.T) {
		flags := Flags{Config: "/missing.yaml", Set: map[string]bool{"config": true}}
		_, err := LoadEffectiveConfig(flags, &Config{}, false, envCfg, true)
		require.Error(t, err)
	})

	t.Run("ExplicitConfigFlagWins", func(t *testing.T) {
		flags := Flags{Config: "/present.yaml", Set: map[string]bool{"config": true}}
		res, err := LoadEffectiveConfig(flags, fileCfg, true, envCfg, true)
		require.NoError(t, err)
		require.Equal(t, "config", res.Source)
		require.Equal(t, "file-host:1111", res.Addr)
		require.Equal(t, "/file/db", res.DBPath)
	})

	t.Run("AddrFlagWinsOverFileAndEnv", func(t *testing.T) {
		flags := Flags{Addr: ":3333", DB: "./.profiles", Set: map[string]bool{"addr": true}}
		res, err := LoadEffectiveConfig(flags, fileCfg, true, envCfg, true)
		require.NoError(t, err)
		require.Equal(t, "flags", res.Source)
		require.Equal(t, ":3333", res.Addr)
		require.Equal(t, "/file/db", res.DBPath)
	})

	t.Run("FileBeatsEnvWhenPresent", func(t *testing.T) {
		flags := Flags{Set: map[string]bool{}}
		res, err := LoadEffectiveConfig(flags, fileCfg, true, envCfg, true)
		require.NoError(t, err)
		require.Equal(t, "config", res.Source)
		require.Equal(t, "file-host:1111", res.Addr)
	})

	t.Run("EnvIsTheFallback", func(t *testing.T) {
		flags := Flags{Set: map[string]bool{}}
		res, err := LoadEffectiveConfig(flags, &Config{}, false, envCfg, true)
		require.NoError(t, err)
		require.Equal(t, "env", res.Source)
		require.Equal(t, "env-host:2222", res.Addr)
	})
}
