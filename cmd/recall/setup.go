package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/attiklabs/recall/agent"
	"github.com/attiklabs/recall/config"
	"github.com/attiklabs/recall/memory"
	"github.com/attiklabs/recall/provider"
)

// setupLogger configures the process-wide slog default from config.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// buildAgent wires the store, providers and merger into an Agent.
func buildAgent(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*agent.Agent, memory.Store, error) {
	store, err := memory.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	conv, err := provider.New(cfg.Provider, cfg.Model)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	opts := []agent.Option{
		agent.WithModel(cfg.Model),
		agent.WithMaxTokens(cfg.MaxTokens),
		agent.WithLogger(logger),
	}

	// A distinct merge provider lets a cheaper or local model handle merges
	// while a tool-capable model drives the conversation.
	if cfg.MergeProvider != cfg.Provider || cfg.MergeModel != cfg.Model {
		mergeProv, err := provider.New(cfg.MergeProvider, cfg.MergeModel)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		opts = append(opts, agent.WithMerger(agent.NewMerger(mergeProv,
			agent.WithMergeModel(cfg.MergeModel),
			agent.WithMergeLogger(logger))))
	}

	return agent.New(store, conv, opts...), store, nil
}
