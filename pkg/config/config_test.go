package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "https://superheroapi.com/api", cfg.HeroAPIURL)
	assert.Equal(t, 10*time.Second, cfg.HeroAPITimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HEROHUB_ADDR", ":9090")
	t.Setenv("HEROHUB_HERO_API_KEY", "real-key")
	t.Setenv("HEROHUB_HERO_API_TIMEOUT", "3s")
	t.Setenv("HEROHUB_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "real-key", cfg.HeroAPIKey)
	assert.Equal(t, 3*time.Second, cfg.HeroAPITimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}
