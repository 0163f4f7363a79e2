package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10, cfg.Reconnect.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Reconnect.BaseDelay)
	assert.Equal(t, 3, cfg.Vote.RequiredApprovals)
	assert.Equal(t, "Bridge", cfg.Identity.BaseName)
	assert.Equal(t, 64, cfg.Court.SendBuffer)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9090
court:
  url: ws://localhost:3000/socket.io/
  room_id: abc123
  self_ping: true
reconnect:
  base_delay: 250ms
  max_delay: 4s
  max_attempts: 4
vote:
  required_approvals: 2
  timeout: 30s
identity:
  base_name: Courier
  speaker_suffix: " (d)"
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "abc123", cfg.Court.RoomID)
	assert.True(t, cfg.Court.SelfPing)
	assert.Equal(t, 250*time.Millisecond, cfg.Reconnect.BaseDelay)
	assert.Equal(t, 4*time.Second, cfg.Reconnect.MaxDelay)
	assert.Equal(t, 4, cfg.Reconnect.MaxAttempts)
	assert.Equal(t, 2, cfg.Vote.RequiredApprovals)
	assert.Equal(t, "Courier", cfg.Identity.BaseName)
	assert.Equal(t, " (d)", cfg.Identity.SpeakerSuffix)
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("COURTBRIDGE_PORT", "7000")
	t.Setenv("COURTBRIDGE_COURT_ROOM_ID", "fromenv")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "fromenv", cfg.Court.RoomID)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"bad mode":       "mode: chaos\n",
		"max below base": "reconnect:\n  base_delay: 10s\n  max_delay: 1s\n",
		"zero approvals": "vote:\n  required_approvals: 0\n",
		"long base name": "identity:\n  base_name: abcdefghijklmnopqrstuvwxyz0123456789\n",
		"bad court url":  "court:\n  url: \"not a url\"\n",
		"malformed yaml": "mode: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
