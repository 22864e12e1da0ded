package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	c, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", c.Env)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, slog.LevelInfo, c.Log.Level)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Empty(t, c.Redis.Addr)
	assert.Equal(t, 24*time.Hour, c.Redis.SessionTTL)
	assert.True(t, c.Terminal.Color)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "real")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("HISTORY_FILE", "/tmp/h")

	c, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, c.Log.Level)
	assert.Equal(t, ":9000", c.HTTP.Addr)
	assert.Equal(t, "redis:6379", c.Redis.Addr)
	assert.Equal(t, 2, c.Redis.DB)
	assert.Equal(t, 30*time.Minute, c.Redis.SessionTTL)
	assert.False(t, c.Terminal.Color)
	assert.Equal(t, "/tmp/h", c.Terminal.HistoryFile)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad_log_format", env: map[string]string{"LOG_FORMAT": "xml"}},
		{name: "bad_log_level", env: map[string]string{"LOG_LEVEL": "loud"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestValidateServer(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "default_secret_outside_dev", env: map[string]string{"APP_ENV": "prod"}},
		{name: "negative_session_ttl", env: map[string]string{"SESSION_TTL": "-1m"}},
		{name: "zero_jwt_ttl", env: map[string]string{"JWT_TTL": "0s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			// the terminal game loads these settings without complaint
			c, err := LoadFromEnv()
			require.NoError(t, err)
			assert.Error(t, c.ValidateServer())
		})
	}

	c, err := LoadFromEnv()
	require.NoError(t, err)
	assert.NoError(t, c.ValidateServer())
}
