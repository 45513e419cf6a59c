// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/post-engine/pkg/types"
)

// DefaultOpenRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1/"

// OpenRouterBackend completes prompts through OpenRouter's chat completions API.
type OpenRouterBackend struct {
	client openai.Client
}

// NewOpenRouterBackend configures the SDK client. SDK-level retries are
// disabled; the gateway's candidate list is the only retry mechanism.
// httpClient may be nil.
func NewOpenRouterBackend(cfg types.GatewayConfig, httpClient *http.Client) *OpenRouterBackend {
	baseURL := cfg.OpenRouterBaseURL
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenRouterAPIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.Title))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenRouterBackend{client: openai.NewClient(opts...)}
}

// Name returns the provider identifier.
func (b *OpenRouterBackend) Name() string { return ProviderOpenRouter }

// Complete sends one chat completion request for model.
func (b *OpenRouterBackend) Complete(ctx context.Context, model string, p types.ModelCallParameters) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
		MaxTokens:        openai.Int(int64(p.MaxTokens)),
		Temperature:      openai.Float(p.Temperature),
		TopP:             openai.Float(p.TopP),
		FrequencyPenalty: openai.Float(p.FrequencyPenalty),
		PresencePenalty:  openai.Float(p.PresencePenalty),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openrouter: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
