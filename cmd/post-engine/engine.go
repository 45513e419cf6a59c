// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/config"
	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/internal/research"
	"github.com/pdiddy/post-engine/pkg/types"
)

// engine holds the components shared by the generate and research commands.
type engine struct {
	cfg       types.EngineConfig
	logger    *zap.Logger
	gateway   *gateway.Gateway
	collector *research.Collector
}

func newEngine(ctx context.Context) (*engine, error) {
	cfg, err := config.Load(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	backends, err := gateway.BackendsFromConfig(ctx, cfg.Gateway, &http.Client{})
	if err != nil {
		return nil, err
	}
	if !config.HasModelCredentials(cfg) {
		logger.Warn("no model credentials configured; set OPENROUTER_API_KEY or GEMINI_API_KEY")
	}
	gw, err := gateway.New(cfg.Gateway, backends, logger.Named("gateway"))
	if err != nil {
		return nil, err
	}

	newsClient := &http.Client{Timeout: cfg.Research.Timeout}
	collector := research.NewCollector(
		research.BackendsFromConfig(cfg.Research, newsClient),
		cfg.Research,
		logger.Named("research"))

	return &engine{cfg: cfg, logger: logger, gateway: gw, collector: collector}, nil
}

func (e *engine) close() {
	_ = e.logger.Sync()
}
