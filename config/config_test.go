package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attiklabs/recall/config"
)

// viper keeps global state between Load calls.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "recall.db", cfg.StoreDSN)
	assert.Equal(t, int64(0), cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())
	t.Setenv("RECALL_PORT", "9090")
	t.Setenv("RECALL_PROVIDER", "openai")
	t.Setenv("RECALL_MODEL", "gpt-4o")
	t.Setenv("RECALL_STORE_DRIVER", "memory")
	t.Setenv("RECALL_RATE_LIMIT", "30")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, int64(30), cfg.RateLimit)
}

func TestLoad_MergeSettingsInheritConversation(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())
	t.Setenv("RECALL_PROVIDER", "openai")
	t.Setenv("RECALL_MODEL", "gpt-4o")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.MergeProvider)
	assert.Equal(t, "gpt-4o", cfg.MergeModel)
}

func TestLoad_SeparateMergeModel(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())
	t.Setenv("RECALL_MERGE_PROVIDER", "ollama")
	t.Setenv("RECALL_MERGE_MODEL", "llama3.2")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "ollama", cfg.MergeProvider)
	assert.Equal(t, "llama3.2", cfg.MergeModel)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetViper(t)
	t.Chdir(t.TempDir())
	t.Setenv("RECALL_PORT", "70000")

	_, err := config.Load()
	assert.Error(t, err)
}
