// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/post-engine/pkg/types"
)

func sampleResult() types.Result {
	return types.Result{
		RunID:       "run-1",
		FinalDraft:  "Stop guessing.\nStart measuring.\n\n**Three steps:**\n- one\n- two",
		ImagePrompt: "A clean desk at dawn",
		SourceLinks: []types.SourceLink{{Title: "Wire story", URL: "https://news.example/1"}},
		ErrorKind:   types.FailureNone,
		WordCount:   9,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"html", FormatHTML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResult_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, sampleResult(), FormatText))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Stop guessing.\nStart measuring."))
	assert.Contains(t, out, "Image prompt: A clean desk at dawn")
	assert.Contains(t, out, "Sources:\n- Wire story: https://news.example/1\n")
}

func TestResult_TextFailure(t *testing.T) {
	var buf bytes.Buffer
	res := types.Result{ErrorKind: types.FailureTerminal, Error: "Failed to generate post - all LLM models failed"}
	require.NoError(t, Result(&buf, res, FormatText))
	assert.Equal(t, "Error: Failed to generate post - all LLM models failed\n", buf.String())
}

func TestResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, sampleResult(), FormatJSON))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, "none", got["error_kind"])
	assert.Len(t, got["source_links"], 1)
}

func TestResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, sampleResult(), FormatYAML))

	var got types.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleResult().FinalDraft, got.FinalDraft)
	assert.Equal(t, sampleResult().SourceLinks, got.SourceLinks)
}

func TestResult_HTML(t *testing.T) {
	res := sampleResult()
	res.SourceLinks = append(res.SourceLinks, types.SourceLink{Title: "<script>", URL: "https://x/2"})

	var buf bytes.Buffer
	require.NoError(t, Result(&buf, res, FormatHTML))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Stop guessing.<br>")
	assert.Contains(t, out, "<strong>Three steps:</strong>")
	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, `<a href="https://news.example/1">Wire story</a>`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, `class="error"`)
}

func TestPostHTML_NoRawHTML(t *testing.T) {
	out, err := PostHTML("Hello <b>world</b>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<b>world</b>")
}

func TestBrief_Text(t *testing.T) {
	var buf bytes.Buffer
	br := types.ResearchBrief{
		Topic:       "robotics",
		Region:      "Europe",
		Brief:       "Key Developments: robots.",
		NewsText:    "- Robots hired (Wire)",
		SourceLinks: []types.SourceLink{{Title: "Robots hired", URL: "https://a/1"}},
	}
	require.NoError(t, Brief(&buf, br, FormatText))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Research brief: robotics (Europe)\n\nKey Developments: robots.\n"))
	assert.Contains(t, out, "## Latest news\n\n- Robots hired (Wire)\n")
	assert.Contains(t, out, "- Robots hired: https://a/1")
}

func TestBrief_JSONKeys(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Brief(&buf, types.ResearchBrief{Topic: "t", Brief: "b", NewsText: "n"}, FormatJSON))
	assert.Contains(t, buf.String(), `"research_brief": "b"`)
	assert.Contains(t, buf.String(), `"latest_news_and_stats": "n"`)
}

func TestSaveResult(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output", "posts")
	path, err := SaveResult(dir, sampleResult(), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-1.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: run-1")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	Progress(&buf)(types.Snapshot{Stage: "draft", Index: 3, Total: 6, Status: "Post generated successfully"})
	assert.Equal(t, "[3/6] draft: Post generated successfully\n", buf.String())
}
