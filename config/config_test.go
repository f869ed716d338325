package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("EVENT_POLL_INTERVAL_MS", "250")

	cfg := Load()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.EventPollInterval)
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TAGDO_TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("TAGDO_TEST_INT", 7))

	t.Setenv("TAGDO_TEST_INT", "forty-two")
	assert.Equal(t, 7, getEnvAsInt("TAGDO_TEST_INT", 7))

	assert.Equal(t, 3, getEnvAsInt("TAGDO_TEST_INT_UNSET", 3))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TAGDO_TEST_BOOL", " true ")
	assert.True(t, getEnvAsBool("TAGDO_TEST_BOOL", false))

	t.Setenv("TAGDO_TEST_BOOL", "nope")
	assert.False(t, getEnvAsBool("TAGDO_TEST_BOOL", false))
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, Config{AppEnv: "development"}.IsDevelopment())
	assert.False(t, Config{AppEnv: "production"}.IsDevelopment())
}
