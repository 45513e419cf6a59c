// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "post-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// GatewayConfig holds settings for the model gateway.
type GatewayConfig struct {
	// Models is the ordered candidate list. An entry is either a bare
	// OpenRouter model id or "provider:model" (providers: openrouter, gemini).
	Models []string `json:"models" yaml:"models" mapstructure:"models"`

	// Timeout bounds each candidate call independently (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// OpenRouterAPIKey authenticates OpenRouter calls.
	OpenRouterAPIKey string `json:"openrouter_api_key,omitempty" yaml:"openrouter_api_key,omitempty" mapstructure:"openrouter_api_key"`

	// OpenRouterBaseURL is the OpenAI-compatible base URL.
	OpenRouterBaseURL string `json:"openrouter_base_url" yaml:"openrouter_base_url" mapstructure:"openrouter_base_url"`

	// Referer and Title are sent as HTTP-Referer and X-Title for OpenRouter
	// attribution.
	Referer string `json:"referer" yaml:"referer" mapstructure:"referer"`
	Title   string `json:"title" yaml:"title" mapstructure:"title"`

	// GeminiAPIKey authenticates direct Gemini calls ("gemini:" candidates).
	GeminiAPIKey string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty" mapstructure:"gemini_api_key"`
}

// ResearchConfig holds settings for the research collector.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// NewsAPIKey enables the NewsAPI backend.
	NewsAPIKey string `json:"news_api_key,omitempty" yaml:"news_api_key,omitempty" mapstructure:"news_api_key"`

	// GNewsAPIKey enables the GNews backend.
	GNewsAPIKey string `json:"gnews_api_key,omitempty" yaml:"gnews_api_key,omitempty" mapstructure:"gnews_api_key"`

	// NewsAPIMaxArticles caps articles taken from NewsAPI (default 4).
	NewsAPIMaxArticles int `json:"newsapi_max_articles" yaml:"newsapi_max_articles" mapstructure:"newsapi_max_articles"`

	// GNewsMaxArticles caps articles taken from GNews (default 3).
	GNewsMaxArticles int `json:"gnews_max_articles" yaml:"gnews_max_articles" mapstructure:"gnews_max_articles"`

	// Arxiv appends the arXiv preprint feed to the provider chain. It needs
	// no key, so it is off unless enabled.
	Arxiv bool `json:"arxiv" yaml:"arxiv" mapstructure:"arxiv"`

	// ArxivMaxArticles caps entries taken from arXiv (default 3).
	ArxivMaxArticles int `json:"arxiv_max_articles" yaml:"arxiv_max_articles" mapstructure:"arxiv_max_articles"`

	// RegionCountries maps a region substring to a country code. Regions
	// with no match are queried globally.
	RegionCountries map[string]string `json:"region_countries" yaml:"region_countries" mapstructure:"region_countries"`
}

// RefineConfig holds settings for the length convergence loop.
type RefineConfig struct {
	// MaxAttempts bounds the rewrite calls (default 2).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// Tolerance is the accepted relative deviation from the target (default 0.10).
	Tolerance float64 `json:"tolerance" yaml:"tolerance" mapstructure:"tolerance"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// EngineConfig groups all configuration for one engine instance.
type EngineConfig struct {
	Gateway  GatewayConfig  `json:"gateway" yaml:"gateway" mapstructure:"gateway"`
	Research ResearchConfig `json:"research" yaml:"research" mapstructure:"research"`
	Refine   RefineConfig   `json:"refine" yaml:"refine" mapstructure:"refine"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
