package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, "file", cfg.SessionStore)
	assert.NotEmpty(t, cfg.VaultPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.clinic.example")
	t.Setenv("SEARCH_DEBOUNCE", "150ms")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SIM_SEED", "false")

	cfg := Load()

	assert.Equal(t, "https://api.clinic.example", cfg.APIBaseURL)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.SimSeed)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("API_REQUEST_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
}
