package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ADDR", "CONFIG_DIR", "DEFAULT_CONFIG", "LOG_LEVEL", "LOG_FORMAT",
		"SESSION_TTL", "CLEANUP_INTERVAL", "NGROK_ENABLED", "NGROK_AUTHTOKEN", "NGROK_DOMAIN",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", s.Addr)
	assert.Equal(t, "configs", s.ConfigDir)
	assert.Equal(t, "classic", s.DefaultConfig)
	assert.Equal(t, zerolog.InfoLevel, s.Level())
	assert.Equal(t, "console", s.LogFormat)
	assert.Equal(t, time.Hour, s.SessionTTL)
	assert.Equal(t, 5*time.Minute, s.CleanupInterval)
	assert.False(t, s.Ngrok.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SESSION_TTL", "30s")

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", s.Addr)
	assert.Equal(t, zerolog.DebugLevel, s.Level())
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, 30*time.Second, s.SessionTTL)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\nconfig-dir: /etc/neutreeko\nngrok:\n  enabled: false\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", s.Addr)
	assert.Equal(t, "/etc/neutreeko", s.ConfigDir)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}},
		{"bad format", map[string]string{"LOG_FORMAT": "xml"}},
		{"negative ttl", map[string]string{"SESSION_TTL": "-1m"}},
		{"ngrok without token", map[string]string{"NGROK_ENABLED": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestMustLoadPanicsOnMissingFile(t *testing.T) {
	clearEnv(t)
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
	})
}

func TestUsageListsVariables(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "ADDR")
	assert.Contains(t, usage, "NGROK_AUTHTOKEN")
}
