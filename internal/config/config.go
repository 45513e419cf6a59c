// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the engine configuration from flags, environment,
// a .env file, the YAML config file, the .secrets/ directory and defaults,
// in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/refine"
	"github.com/pdiddy/post-engine/internal/research"
	"github.com/pdiddy/post-engine/pkg/types"
)

// EnvPrefix prefixes every environment override (POST_ENGINE_GATEWAY_TIMEOUT).
const EnvPrefix = "POST_ENGINE"

// DefaultUserAgent is sent with news provider requests.
const DefaultUserAgent = "post-engine/0.1"

// Viper keys for credentials.
const (
	KeyOpenRouter = "gateway.openrouter_api_key"
	KeyGemini     = "gateway.gemini_api_key"
	KeyNewsAPI    = "research.news_api_key"
	KeyGNews      = "research.gnews_api_key"
)

// credential ties a config key to its well-known environment variable and
// its file name under .secrets/.
type credential struct {
	key    string
	env    string
	secret string
}

var credentials = []credential{
	{KeyOpenRouter, "OPENROUTER_API_KEY", "openrouter-api-key"},
	{KeyGemini, "GEMINI_API_KEY", "gemini-api-key"},
	{KeyNewsAPI, "NEWS_API_KEY", "news-api-key"},
	{KeyGNews, "GNEWS_API_KEY", "gnews-api-key"},
}

// placeholders are sample values that count as unset.
var placeholders = map[string]bool{
	"your-api-key": true, "YOUR_API_KEY": true, "PLACEHOLDER": true,
	"TODO": true, "CHANGE_ME": true, "changeme": true, "xxx": true,
}

// SecretFiles returns the .secrets/ file names that are read.
func SecretFiles() []string {
	names := make([]string, len(credentials))
	for i, c := range credentials {
		names[i] = c.secret
	}
	return names
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("gateway.models", gateway.DefaultModels)
	v.SetDefault("gateway.timeout", gateway.DefaultTimeout)
	v.SetDefault("gateway.openrouter_base_url", gateway.DefaultOpenRouterBaseURL)
	v.SetDefault("gateway.referer", "https://github.com/pdiddy/post-engine")
	v.SetDefault("gateway.title", "post-engine")

	v.SetDefault("research.timeout", research.DefaultTimeout)
	v.SetDefault("research.user_agent", DefaultUserAgent)
	v.SetDefault("research.newsapi_max_articles", 4)
	v.SetDefault("research.gnews_max_articles", 3)
	v.SetDefault("research.arxiv", false)
	v.SetDefault("research.arxiv_max_articles", 3)

	v.SetDefault("refine.max_attempts", refine.DefaultMaxAttempts)
	v.SetDefault("refine.tolerance", refine.DefaultTolerance)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Bind wires environment lookups onto v. Credentials accept both the
// prefixed name and the well-known provider variable.
func Bind(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, c := range credentials {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(c.key, ".", "_"))
		if err := v.BindEnv(c.key, prefixed, c.env); err != nil {
			return fmt.Errorf("binding %s: %w", c.key, err)
		}
	}
	return nil
}

// Load reads the engine configuration from v. Values from secrets fill in
// credentials that no higher-precedence source provides.
func Load(v *viper.Viper, secrets map[string]string) (types.EngineConfig, error) {
	SetDefaults(v)
	if err := Bind(v); err != nil {
		return types.EngineConfig{}, err
	}
	for _, c := range credentials {
		if s, ok := secrets[c.secret]; ok {
			v.SetDefault(c.key, s)
		}
	}

	var cfg types.EngineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.EngineConfig{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Gateway.OpenRouterAPIKey = usableKey(cfg.Gateway.OpenRouterAPIKey)
	cfg.Gateway.GeminiAPIKey = usableKey(cfg.Gateway.GeminiAPIKey)
	cfg.Research.NewsAPIKey = usableKey(cfg.Research.NewsAPIKey)
	cfg.Research.GNewsAPIKey = usableKey(cfg.Research.GNewsAPIKey)

	if err := Validate(cfg); err != nil {
		return types.EngineConfig{}, err
	}
	return cfg, nil
}

// Validate reports every problem in cfg at once.
func Validate(cfg types.EngineConfig) error {
	var errs []error

	if len(cfg.Gateway.Models) == 0 {
		errs = append(errs, errors.New("gateway.models: at least one candidate model is required"))
	}
	for _, m := range cfg.Gateway.Models {
		if _, err := gateway.ParseCandidate(m); err != nil {
			errs = append(errs, fmt.Errorf("gateway.models: %w", err))
		}
	}
	if cfg.Gateway.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("gateway.timeout: must be positive, got %s", cfg.Gateway.Timeout))
	}
	if cfg.Research.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("research.timeout: must be positive, got %s", cfg.Research.Timeout))
	}
	if cfg.Refine.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("refine.max_attempts: must be at least 1, got %d", cfg.Refine.MaxAttempts))
	}
	if cfg.Refine.Tolerance <= 0 || cfg.Refine.Tolerance >= 1 {
		errs = append(errs, fmt.Errorf("refine.tolerance: must be between 0 and 1, got %.2f", cfg.Refine.Tolerance))
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be console or json, got %q", cfg.Log.Format))
	}
	return errors.Join(errs...)
}

// HasModelCredentials reports whether any gateway backend can be built.
func HasModelCredentials(cfg types.EngineConfig) bool {
	return cfg.Gateway.OpenRouterAPIKey != "" || cfg.Gateway.GeminiAPIKey != ""
}

func usableKey(k string) string {
	k = strings.TrimSpace(k)
	if placeholders[k] {
		return ""
	}
	return k
}
