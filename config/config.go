// Package config loads the application configuration from environment
// variables (RECALL_ prefix), an optional YAML config file and flag bindings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	// Server
	Host      string
	Port      int
	LogLevel  string
	LogFormat string

	// Conversation model
	Provider  string
	Model     string
	MaxTokens int64

	// Merge-step model; empty values inherit the conversation settings.
	MergeProvider string
	MergeModel    string

	// Storage
	StoreDriver string
	StoreDSN    string

	// Rate limiting for the chat endpoints; 0 disables.
	RateLimit  int64
	RateWindow time.Duration
}

// Load reads configuration with viper. Precedence: explicit flag bindings,
// environment, config file, defaults.
func Load() (*Config, error) {
	viper.SetEnvPrefix("recall")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	_ = viper.BindEnv("host", "RECALL_HOST")
	_ = viper.BindEnv("port", "RECALL_PORT")
	_ = viper.BindEnv("logLevel", "RECALL_LOG_LEVEL")
	_ = viper.BindEnv("logFormat", "RECALL_LOG_FORMAT")
	_ = viper.BindEnv("provider", "RECALL_PROVIDER")
	_ = viper.BindEnv("model", "RECALL_MODEL")
	_ = viper.BindEnv("maxTokens", "RECALL_MAX_TOKENS")
	_ = viper.BindEnv("mergeProvider", "RECALL_MERGE_PROVIDER")
	_ = viper.BindEnv("mergeModel", "RECALL_MERGE_MODEL")
	_ = viper.BindEnv("storeDriver", "RECALL_STORE_DRIVER")
	_ = viper.BindEnv("storeDSN", "RECALL_STORE_DSN")
	_ = viper.BindEnv("rateLimit", "RECALL_RATE_LIMIT")
	_ = viper.BindEnv("rateWindow", "RECALL_RATE_WINDOW")

	viper.SetDefault("host", "127.0.0.1")
	viper.SetDefault("port", 8080)
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFormat", "text")
	viper.SetDefault("provider", "anthropic")
	viper.SetDefault("model", "claude-sonnet-4-20250514")
	viper.SetDefault("maxTokens", 4096)
	viper.SetDefault("storeDriver", "sqlite")
	viper.SetDefault("storeDSN", "recall.db")
	viper.SetDefault("rateLimit", 0)
	viper.SetDefault("rateWindow", time.Minute)

	viper.AutomaticEnv()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("recall")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.recall")
	}
	// Missing config file is fine; everything has a default.
	_ = viper.ReadInConfig()

	cfg := &Config{
		Host:          viper.GetString("host"),
		Port:          viper.GetInt("port"),
		LogLevel:      viper.GetString("logLevel"),
		LogFormat:     viper.GetString("logFormat"),
		Provider:      viper.GetString("provider"),
		Model:         viper.GetString("model"),
		MaxTokens:     viper.GetInt64("maxTokens"),
		MergeProvider: viper.GetString("mergeProvider"),
		MergeModel:    viper.GetString("mergeModel"),
		StoreDriver:   viper.GetString("storeDriver"),
		StoreDSN:      viper.GetString("storeDSN"),
		RateLimit:     viper.GetInt64("rateLimit"),
		RateWindow:    viper.GetDuration("rateWindow"),
	}

	if cfg.MergeProvider == "" {
		cfg.MergeProvider = cfg.Provider
	}
	if cfg.MergeModel == "" {
		cfg.MergeModel = cfg.Model
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	return cfg, nil
}
