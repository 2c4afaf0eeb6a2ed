package main

import (
	"context"
	"fmt"

	"scent-enricher/backend/internal/config"
	"scent-enricher/backend/internal/logging"
	"scent-enricher/backend/internal/repository"
	"scent-enricher/backend/internal/services"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	store   repository.Store
	service *services.EnrichmentService
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.envFile, opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("configuration loading failed: %w", err)
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := logging.NewLoggerWithLevel(level)
	if err != nil {
		return nil, err
	}
	logger.Info("Configuration loaded",
		"config_file", cfg.ConfigFile,
		"db_driver", cfg.DB.Driver,
		"gemini_model", cfg.Gemini.Model,
		"gemini_key_set", cfg.Gemini.APIKey != "",
	)

	store, err := repository.Open(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}
	logger.Info("Database connected", "driver", cfg.DB.Driver)

	metrics, err := services.NewGlobalMetrics()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics initialization failed: %w", err)
	}

	var gen services.TextGenerator
	if cfg.Gemini.APIKey == "" {
		logger.Warn("gemini.api_key not set, model-backed operations are disabled")
	} else {
		client, err := services.NewGeminiClient(ctx, cfg.Gemini)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("text generator initialization failed: %w", err)
		}
		gen = client
	}

	return &app{
		cfg:     cfg,
		log:     logger,
		store:   store,
		service: services.NewEnrichmentService(store, gen, logger, metrics),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("closing store failed", "error", err)
	}
	_ = a.log.Sync()
}
