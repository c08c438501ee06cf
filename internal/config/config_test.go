package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"DB_DSN": "postgres://localhost/slots"}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Minute, cfg.AvailabilityCacheTTL)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.False(t, cfg.BotEnabled())
	assert.False(t, cfg.CacheEnabled())
}

func TestFromEnv_MemoryDoesNotNeedDSN(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"STORAGE":                "memory",
		"TELEGRAM_TOKEN":         "123:abc",
		"REDIS_ADDR":             "localhost:6379",
		"AVAILABILITY_CACHE_TTL": "30s",
		"TIMEZONE":               "UTC",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.True(t, cfg.BotEnabled())
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 30*time.Second, cfg.AvailabilityCacheTTL)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "missing dsn", values: map[string]string{}},
		{name: "unknown storage", values: map[string]string{"STORAGE": "sqlite"}},
		{name: "bad ttl", values: map[string]string{"STORAGE": "memory", "AVAILABILITY_CACHE_TTL": "soon"}},
		{name: "negative ttl", values: map[string]string{"STORAGE": "memory", "AVAILABILITY_CACHE_TTL": "-1m"}},
		{name: "bad timezone", values: map[string]string{"STORAGE": "memory", "TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.values))
			assert.Error(t, err)
		})
	}
}
