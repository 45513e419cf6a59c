// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

func TestGetJSON_Decodes(t *testing.T) {
	var gotUA, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`{"status": "ok", "count": 3}`))
	}))
	defer ts.Close()

	var p payload
	err := GetJSON(context.Background(), ts.Client(), ts.URL, map[string]string{
		"User-Agent": "post-engine/test",
		"X-Api-Key":  "secret",
	}, &p)
	require.NoError(t, err)
	assert.Equal(t, payload{Status: "ok", Count: 3}, p)
	assert.Equal(t, "post-engine/test", gotUA)
	assert.Equal(t, "secret", gotKey)
}

func TestGetJSON_StatusError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status": "error", "code": "rateLimited"}`))
	}))
	defer ts.Close()

	var p payload
	err := GetJSON(context.Background(), ts.Client(), ts.URL, nil, &p)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, se.Body, "rateLimited")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retries")
}

func TestGetJSON_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	var p payload
	err := GetJSON(context.Background(), ts.Client(), ts.URL, nil, &p)
	assert.ErrorContains(t, err, "decoding response")
}

func TestGetJSON_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var p payload
	err := GetJSON(ctx, ts.Client(), ts.URL, nil, &p)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
