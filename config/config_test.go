package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":          EnvDevelopment,
		"DATABASE_URL":     "postgres://localhost/bloglist",
		"SECRET":           "s3cret",
		"PORT":             "",
		"DIAG_ADDR":        "",
		"TOKEN_TTL":        "",
		"LOG_LEVEL":        "",
		"MIGRATE_ON_START": "",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3003", cfg.Port)
	assert.Equal(t, ":3003", cfg.Addr())
	assert.Equal(t, ":9999", cfg.DiagAddr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, "postgres://localhost/bloglist", cfg.DatabaseURL)
}

func TestLoadTestEnvUsesTestDatabase(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":           EnvTest,
		"DATABASE_URL":      "postgres://localhost/bloglist",
		"TEST_DATABASE_URL": "postgres://localhost/bloglist_test",
		"SECRET":            "s3cret",
		"TOKEN_TTL":         "15m",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/bloglist_test", cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
}

func TestLoadRequiresSecret(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":      EnvDevelopment,
		"DATABASE_URL": "postgres://localhost/bloglist",
		"SECRET":       "",
	})

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Secret")
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":      "staging",
		"DATABASE_URL": "postgres://localhost/bloglist",
		"SECRET":       "s3cret",
	})

	_, err := Load()
	require.Error(t, err)
}
