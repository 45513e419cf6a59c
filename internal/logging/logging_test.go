// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/pkg/types"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(types.LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	l.Info("stage finished", zap.String("stage", "research"))
	l.Debug("hidden")
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stage finished", entry["msg"])
	assert.Equal(t, "research", entry["stage"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_ConsoleFormatDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(types.LogConfig{Level: "DEBUG", Format: "console"}, &buf)
	require.NoError(t, err)

	l.Debug("probe", zap.Int("attempt", 2))
	require.NoError(t, l.Sync())

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "probe")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(types.LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
