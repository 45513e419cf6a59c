// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/post-engine/pkg/types"
)

func TestLoadRequest(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		want    types.GenerationRequest
		wantErr bool
	}{
		{
			name: "yaml",
			file: "req.yaml",
			body: `topic: AI in healthcare
tone: Practical Educator
formats: [Tactical Guide]
target_words: 250
engagement: High
creativity: 0.3
region: Europe (EU/UK)
deep: true
`,
			want: types.GenerationRequest{
				Topic:       "AI in healthcare",
				Tone:        "Practical Educator",
				Formats:     []string{"Tactical Guide"},
				TargetWords: 250,
				Engagement:  types.EngagementHigh,
				Creativity:  0.3,
				Region:      types.RegionEurope,
				Deep:        true,
			},
		},
		{
			name: "json",
			file: "req.json",
			body: `{"topic": "fintech", "target_words": 400, "style_override": "no emojis"}`,
			want: types.GenerationRequest{Topic: "fintech", TargetWords: 400, StyleOverride: "no emojis"},
		},
		{name: "invalid", file: "bad.yaml", body: "topic: [unclosed", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			got, err := LoadRequest(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadRequest_Missing(t *testing.T) {
	_, err := LoadRequest(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading request")
}
