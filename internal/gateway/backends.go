// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"
	"net/http"

	"github.com/pdiddy/post-engine/pkg/types"
)

// BackendsFromConfig builds a backend for every provider with a key.
func BackendsFromConfig(ctx context.Context, cfg types.GatewayConfig, httpClient *http.Client) ([]Backend, error) {
	var backends []Backend
	if cfg.OpenRouterAPIKey != "" {
		backends = append(backends, NewOpenRouterBackend(cfg, httpClient))
	}
	if cfg.GeminiAPIKey != "" {
		g, err := NewGeminiBackend(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		backends = append(backends, g)
	}
	return backends, nil
}
