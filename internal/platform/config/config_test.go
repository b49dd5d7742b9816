package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("LOOKUP_BASE_URL", "http://lookup.local/electores")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://lookup.local/electores", cfg.LookupBaseURL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.RegistrationEnabled())
}

func TestLoad_EnvVarOverride(t *testing.T) {
	setRequired(t)
	t.Setenv("PROGRESO_ADDR", ":9090")
	t.Setenv("REGISTRATION_BASE_URL", "https://votes.local/votos")
	t.Setenv("REGISTRATION_TOKEN", "secret")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "https://votes.local/votos", cfg.RegistrationURL)
	assert.Equal(t, "secret", cfg.RegistrationToken)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.RegistrationEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing lookup URL", env: map[string]string{"LOOKUP_BASE_URL": ""}},
		{name: "lookup URL without scheme", env: map[string]string{"LOOKUP_BASE_URL": "lookup.local"}},
		{name: "bad registration URL", env: map[string]string{"REGISTRATION_BASE_URL": "ftp://votes"}},
		{name: "zero timeout", env: map[string]string{"HTTP_TIMEOUT": "0s"}},
		{name: "unparseable timeout", env: map[string]string{"HTTP_TIMEOUT": "soon"}},
		{name: "production without token", env: map[string]string{
			"APP_ENV":               "production",
			"REGISTRATION_BASE_URL": "https://votes.local/votos",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file falls back to the environment", func(t *testing.T) {
		setRequired(t)
		cfg, err := loadFrom(filepath.Join(dir, "absent.env"))
		require.NoError(t, err)
		assert.Equal(t, "http://lookup.local/electores", cfg.LookupBaseURL)
	})

	t.Run("values are read from the file", func(t *testing.T) {
		path := filepath.Join(dir, "app.env")
		require.NoError(t, os.WriteFile(path, []byte("LOOKUP_BASE_URL=http://file.local/electores\nHTTP_TIMEOUT=4s\n"), 0o600))
		cfg, err := loadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, "http://file.local/electores", cfg.LookupBaseURL)
		assert.Equal(t, 4*time.Second, cfg.HTTPTimeout)
	})

	t.Run("unreadable file is an error", func(t *testing.T) {
		setRequired(t)
		path := filepath.Join(dir, "dir.env")
		require.NoError(t, os.Mkdir(path, 0o700))
		_, err := loadFrom(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dir.env")
	})
}
