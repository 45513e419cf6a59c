// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/post-engine/pkg/types"
)

const chatCompletionBody = `{
  "id": "gen-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "anthropic/claude-3.5-sonnet",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Generated post"}}
  ]
}`

func TestOpenRouterBackend_Complete(t *testing.T) {
	var (
		gotAuth, gotReferer, gotTitle, gotPath string
		body                                   map[string]any
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionBody))
	}))
	defer ts.Close()

	b := NewOpenRouterBackend(types.GatewayConfig{
		OpenRouterAPIKey:  "sk-or-test",
		OpenRouterBaseURL: ts.URL + "/",
		Referer:           "https://post-engine.local",
		Title:             "post-engine",
	}, ts.Client())

	p := types.NewCall("system text", "user text", 600, 0.7)
	got, err := b.Complete(context.Background(), "anthropic/claude-3.5-sonnet", p)
	require.NoError(t, err)
	assert.Equal(t, "Generated post", got)

	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Equal(t, "https://post-engine.local", gotReferer)
	assert.Equal(t, "post-engine", gotTitle)
	assert.True(t, strings.HasSuffix(gotPath, "/chat/completions"), "path %s", gotPath)

	assert.Equal(t, "anthropic/claude-3.5-sonnet", body["model"])
	assert.EqualValues(t, 600, body["max_tokens"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	assert.InDelta(t, 0.9, body["top_p"], 1e-9)
	assert.InDelta(t, 0.5, body["frequency_penalty"], 1e-9)
	assert.InDelta(t, 0.5, body["presence_penalty"], 1e-9)

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestOpenRouterBackend_ZeroTemperatureIsSent(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletionBody))
	}))
	defer ts.Close()

	b := NewOpenRouterBackend(types.GatewayConfig{OpenRouterAPIKey: "k", OpenRouterBaseURL: ts.URL + "/"}, ts.Client())
	_, err := b.Complete(context.Background(), "m", types.NewCall("s", "u", 500, 0))
	require.NoError(t, err)

	temp, present := body["temperature"]
	assert.True(t, present, "temperature must be sent even when zero")
	assert.InDelta(t, 0.0, temp, 1e-9)
}

func TestOpenRouterBackend_ServerErrorNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
	}))
	defer ts.Close()

	b := NewOpenRouterBackend(types.GatewayConfig{OpenRouterAPIKey: "k", OpenRouterBaseURL: ts.URL + "/"}, ts.Client())
	_, err := b.Complete(context.Background(), "m", types.NewCall("s", "u", 10, 0.5))
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenRouterBackend_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
	}))
	defer ts.Close()

	b := NewOpenRouterBackend(types.GatewayConfig{OpenRouterAPIKey: "k", OpenRouterBaseURL: ts.URL + "/"}, ts.Client())
	_, err := b.Complete(context.Background(), "m", types.NewCall("s", "u", 10, 0.5))
	assert.Error(t, err)
}
