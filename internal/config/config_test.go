// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/pkg/types"
)

// clearEnv blanks every variable Load consults so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, c := range credentials {
		t.Setenv(c.env, "")
	}
	for _, k := range []string{
		"POST_ENGINE_GATEWAY_OPENROUTER_API_KEY", "POST_ENGINE_GATEWAY_GEMINI_API_KEY",
		"POST_ENGINE_RESEARCH_NEWS_API_KEY", "POST_ENGINE_RESEARCH_GNEWS_API_KEY",
		"POST_ENGINE_GATEWAY_MODELS", "POST_ENGINE_GATEWAY_TIMEOUT",
		"POST_ENGINE_REFINE_TOLERANCE", "POST_ENGINE_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(viper.New(), nil)
	require.NoError(t, err)

	assert.Equal(t, gateway.DefaultModels, cfg.Gateway.Models)
	assert.Equal(t, 60*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, gateway.DefaultOpenRouterBaseURL, cfg.Gateway.OpenRouterBaseURL)
	assert.Equal(t, 5*time.Second, cfg.Research.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.Research.UserAgent)
	assert.Equal(t, 4, cfg.Research.NewsAPIMaxArticles)
	assert.Equal(t, 3, cfg.Research.GNewsMaxArticles)
	assert.False(t, cfg.Research.Arxiv)
	assert.Equal(t, 3, cfg.Research.ArxivMaxArticles)
	assert.Equal(t, 2, cfg.Refine.MaxAttempts)
	assert.InDelta(t, 0.10, cfg.Refine.Tolerance, 1e-9)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Gateway.OpenRouterAPIKey)
	assert.False(t, HasModelCredentials(cfg))
}

func TestLoad_Credentials(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		secrets map[string]string
		want    string
	}{
		{
			name:    "secret file",
			secrets: map[string]string{"openrouter-api-key": "from-secret"},
			want:    "from-secret",
		},
		{
			name:    "well-known env beats secret",
			env:     map[string]string{"OPENROUTER_API_KEY": "from-env"},
			secrets: map[string]string{"openrouter-api-key": "from-secret"},
			want:    "from-env",
		},
		{
			name: "prefixed env beats well-known env",
			env: map[string]string{
				"POST_ENGINE_GATEWAY_OPENROUTER_API_KEY": "prefixed",
				"OPENROUTER_API_KEY":                     "plain",
			},
			want: "prefixed",
		},
		{
			name: "placeholder is unset",
			env:  map[string]string{"OPENROUTER_API_KEY": "your-api-key"},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(viper.New(), tt.secrets)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Gateway.OpenRouterAPIKey)
			assert.Equal(t, tt.want != "", HasModelCredentials(cfg))
		})
	}
}

func TestLoad_NewsKeysFromSecrets(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(viper.New(), map[string]string{
		"news-api-key":   "n",
		"gnews-api-key":  "g",
		"gemini-api-key": "gm",
	})
	require.NoError(t, err)
	assert.Equal(t, "n", cfg.Research.NewsAPIKey)
	assert.Equal(t, "g", cfg.Research.GNewsAPIKey)
	assert.Equal(t, "gm", cfg.Gateway.GeminiAPIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POST_ENGINE_GATEWAY_MODELS", "gemini:gemini-2.5-flash,openai/gpt-4o")
	t.Setenv("POST_ENGINE_GATEWAY_TIMEOUT", "15s")
	t.Setenv("POST_ENGINE_REFINE_TOLERANCE", "0.2")

	cfg, err := Load(viper.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini:gemini-2.5-flash", "openai/gpt-4o"}, cfg.Gateway.Models)
	assert.Equal(t, 15*time.Second, cfg.Gateway.Timeout)
	assert.InDelta(t, 0.2, cfg.Refine.Tolerance, 1e-9)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "post-engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gateway:
  models:
    - anthropic/claude-3.5-sonnet
  timeout: 30s
research:
  region_countries:
    asia: sg
refine:
  max_attempts: 3
log:
  level: debug
  format: json
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v, map[string]string{"openrouter-api-key": "k"})
	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic/claude-3.5-sonnet"}, cfg.Gateway.Models)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, map[string]string{"asia": "sg"}, cfg.Research.RegionCountries)
	assert.Equal(t, 3, cfg.Refine.MaxAttempts)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "k", cfg.Gateway.OpenRouterAPIKey)
}

func TestValidate(t *testing.T) {
	valid := types.EngineConfig{
		Gateway:  types.GatewayConfig{Models: []string{"a/b"}, Timeout: time.Second},
		Research: types.ResearchConfig{HTTPConfig: types.HTTPConfig{Timeout: time.Second}},
		Refine:   types.RefineConfig{MaxAttempts: 2, Tolerance: 0.1},
		Log:      types.LogConfig{Level: "info", Format: "console"},
	}
	require.NoError(t, Validate(valid))

	bad := valid
	bad.Gateway.Models = []string{"gemini:"}
	bad.Gateway.Timeout = 0
	bad.Refine.MaxAttempts = 0
	bad.Refine.Tolerance = 1.5
	bad.Log.Level = "loud"
	bad.Log.Format = "xml"

	err := Validate(bad)
	require.Error(t, err)
	for _, want := range []string{
		"gateway.models", "gateway.timeout", "refine.max_attempts",
		"refine.tolerance", "log.level", "log.format",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	const name = "POST_ENGINE_DOTENV_TEST_VALUE"
	t.Setenv(name, "")
	os.Unsetenv(name)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(name+"=from-dotenv\n"), 0o644))
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(name))
}

func TestSecretFiles(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"openrouter-api-key", "gemini-api-key", "news-api-key", "gnews-api-key"},
		SecretFiles())
}
