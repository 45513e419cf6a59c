// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/post-engine/pkg/types"
)

// GeminiBackend completes prompts directly against the Gemini API. It serves
// candidates written as "gemini:<model>".
type GeminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates the Gemini client.
func NewGeminiBackend(ctx context.Context, apiKey string) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiBackend{client: client}, nil
}

// Name returns the provider identifier.
func (b *GeminiBackend) Name() string { return ProviderGemini }

// Complete sends one generate-content request for model. Penalties are not
// sent.
func (b *GeminiBackend) Complete(ctx context.Context, model string, p types.ModelCallParameters) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(p.Temperature)),
		TopP:            genai.Ptr(float32(p.TopP)),
		MaxOutputTokens: int32(p.MaxTokens),
	}
	if p.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		}
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: p.User}},
		Role:  "user",
	}}

	resp, err := b.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
