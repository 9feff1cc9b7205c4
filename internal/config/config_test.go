package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaikat-CSE/goldennicheims/internal/config"
)

func TestNew(t *testing.T) {
	type Config struct {
		Log    config.Log
		HTTP   config.HTTP
		Store  config.Store
		Ledger config.Ledger
	}

	t.Run("Should apply defaults", func(t *testing.T) {
		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
		assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
		assert.Equal(t, uint32(8000), cfg.HTTP.Port)
		assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
		assert.Equal(t, config.StoreBackendMemory, cfg.Store.Backend)
		assert.Equal(t, "excel_stock_db", cfg.Ledger.KeyPrefix)
		assert.Equal(t, 100, cfg.Ledger.ActivityLimit)
	})

	t.Run("Should read overrides from env", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "text")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("STORE_BACKEND", "redis")
		t.Setenv("LEDGER_DEFAULT_USER", "admin")

		cfg, err := config.New[Config]()
		require.NoError(t, err)

		assert.Equal(t, config.LogFormatText, cfg.Log.Format)
		assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
		assert.Equal(t, config.StoreBackendRedis, cfg.Store.Backend)
		assert.Equal(t, "admin", cfg.Ledger.DefaultUser)
	})

	t.Run("Should reject unknown enum values", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")

		_, err := config.New[Config]()
		assert.Error(t, err)
	})
}

func TestLogFormat(t *testing.T) {
	var f config.LogFormat
	require.NoError(t, f.UnmarshalText([]byte("Text")))
	assert.Equal(t, config.LogFormatText, f)

	b, err := f.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "TEXT", string(b))

	assert.Error(t, f.UnmarshalText([]byte("yaml")))
}
