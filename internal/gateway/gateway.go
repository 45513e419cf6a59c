// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway sends prompt pairs to an ordered list of candidate models
// and returns the first non-empty response.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/fallback"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/pkg/types"
)

// Provider names accepted in candidate strings.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// DefaultModels is the candidate list used when none is configured.
var DefaultModels = []string{
	"anthropic/claude-3.5-sonnet",
	"openai/gpt-4-turbo",
	"google/gemini-2.5-pro-exp-03-25",
	"meta-llama/llama-4-scout",
}

// DefaultTimeout bounds each candidate call.
const DefaultTimeout = 60 * time.Second

var (
	// ErrAllCandidatesFailed is the failure signal returned when no
	// candidate produced a usable response.
	ErrAllCandidatesFailed = errors.New("all candidate models failed")

	// ErrEmptyResponse marks a candidate that answered with no text.
	ErrEmptyResponse = errors.New("empty response")
)

// Generator is the contract every pipeline stage depends on.
type Generator interface {
	Generate(ctx context.Context, p types.ModelCallParameters) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, p types.ModelCallParameters) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, p types.ModelCallParameters) (string, error) {
	return f(ctx, p)
}

// Backend completes a prompt pair against one provider.
type Backend interface {
	Name() string
	Complete(ctx context.Context, model string, p types.ModelCallParameters) (string, error)
}

// Candidate is one entry of the ordered model list.
type Candidate struct {
	Provider string
	Model    string
}

// String returns "provider:model".
func (c Candidate) String() string {
	return c.Provider + ":" + c.Model
}

// ParseCandidate reads "provider:model" or a bare OpenRouter model id.
func ParseCandidate(s string) (Candidate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Candidate{}, fmt.Errorf("empty candidate")
	}
	provider, model, found := strings.Cut(s, ":")
	if !found {
		return Candidate{Provider: ProviderOpenRouter, Model: s}, nil
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	model = strings.TrimSpace(model)
	switch provider {
	case ProviderOpenRouter, ProviderGemini:
	default:
		// OpenRouter ids may carry a variant suffix such as ":free".
		return Candidate{Provider: ProviderOpenRouter, Model: s}, nil
	}
	if model == "" {
		return Candidate{}, fmt.Errorf("candidate %q has no model", s)
	}
	return Candidate{Provider: provider, Model: model}, nil
}

// Gateway tries candidates in order. It holds no per-request state and is
// safe for concurrent use when its backends are.
type Gateway struct {
	candidates []Candidate
	backends   map[string]Backend
	timeout    time.Duration
	logger     *zap.Logger
}

// New builds a gateway from the configured model list. Candidates whose
// provider has no backend are skipped with a warning.
func New(cfg types.GatewayConfig, backends []Backend, logger *zap.Logger) (*Gateway, error) {
	logger = logging.OrNop(logger)

	byName := make(map[string]Backend, len(backends))
	for _, b := range backends {
		byName[b.Name()] = b
	}

	models := cfg.Models
	if len(models) == 0 {
		models = DefaultModels
	}

	var candidates []Candidate
	for _, m := range models {
		c, err := ParseCandidate(m)
		if err != nil {
			return nil, fmt.Errorf("parsing model list: %w", err)
		}
		if _, ok := byName[c.Provider]; !ok {
			logger.Warn("skipping candidate with unconfigured provider",
				zap.String("provider", c.Provider), zap.String("model", c.Model))
			continue
		}
		candidates = append(candidates, c)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Gateway{
		candidates: candidates,
		backends:   byName,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// Candidates returns the usable candidates in order.
func (g *Gateway) Candidates() []Candidate {
	return append([]Candidate(nil), g.candidates...)
}

// Generate returns the first non-empty, fence-stripped response. When every
// candidate fails it returns an error wrapping ErrAllCandidatesFailed.
func (g *Gateway) Generate(ctx context.Context, p types.ModelCallParameters) (string, error) {
	options := make([]fallback.Option[string], 0, len(g.candidates))
	for _, c := range g.candidates {
		options = append(options, fallback.Option[string]{
			Name: c.String(),
			Try: func(ctx context.Context) (string, error) {
				return g.try(ctx, c, p)
			},
		})
	}

	out, err := fallback.New(g.timeout, options...).Run(ctx)
	if err != nil {
		capitan.Error(ctx, Exhausted,
			AttemptsKey.Field(out.Attempts),
			ErrorKey.Field(err.Error()),
		)
		g.logger.Error("all candidate models failed",
			zap.Int("attempts", out.Attempts), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrAllCandidatesFailed, err)
	}
	return out.Value, nil
}

func (g *Gateway) try(ctx context.Context, c Candidate, p types.ModelCallParameters) (string, error) {
	start := time.Now()
	capitan.Info(ctx, CandidateStarted,
		ProviderKey.Field(c.Provider),
		ModelKey.Field(c.Model),
		MaxTokensKey.Field(p.MaxTokens),
	)

	text, err := g.backends[c.Provider].Complete(ctx, c.Model, p)
	if err == nil {
		text = StripFences(text)
		if text == "" {
			err = ErrEmptyResponse
		}
	}

	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		capitan.Error(ctx, CandidateFailed,
			ProviderKey.Field(c.Provider),
			ModelKey.Field(c.Model),
			ErrorKey.Field(err.Error()),
			DurationMsKey.Field(elapsed),
		)
		g.logger.Warn("candidate model failed, trying next",
			zap.String("provider", c.Provider),
			zap.String("model", c.Model),
			zap.Int("duration_ms", elapsed),
			zap.Error(err))
		return "", err
	}

	capitan.Info(ctx, CandidateCompleted,
		ProviderKey.Field(c.Provider),
		ModelKey.Field(c.Model),
		DurationMsKey.Field(elapsed),
		ResponseLen.Field(len(text)),
	)
	g.logger.Debug("candidate model answered",
		zap.String("provider", c.Provider),
		zap.String("model", c.Model),
		zap.Int("duration_ms", elapsed))
	return text, nil
}
