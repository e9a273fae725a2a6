package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "STORAGE_DRIVER", "STORAGE_KEY", "DEFAULT_TRANSLATION", "UPSTREAM_TIMEOUT", "DAILY_VERSE_INTERVAL"} {
		t.Setenv(k, "") // restored after the test
		os.Unsetenv(k)
	}

	cfg := fromEnv()
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, "bible-storage", cfg.StorageKey)
	assert.Equal(t, "kjv", cfg.DefaultTranslation)
	assert.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	assert.Zero(t, cfg.DailyVerseInterval)
	assert.NotEmpty(t, cfg.StoragePath)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_PATH", "/tmp/companion.db")
	t.Setenv("DEFAULT_TRANSLATION", "web")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("DAILY_VERSE_INTERVAL", "24h")

	cfg := fromEnv()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "/tmp/companion.db", cfg.StoragePath)
	assert.Equal(t, "web", cfg.DefaultTranslation)
	assert.Equal(t, 3*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 24*time.Hour, cfg.DailyVerseInterval)
}

func TestGetDuration_Invalid(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, getDuration("UPSTREAM_TIMEOUT", 5*time.Second))
}
