// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes pipeline results and research briefs in the output
// formats offered by the CLI.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/post-engine/pkg/types"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatHTML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, yaml or html)", s)
	}
}

// Extension returns the file extension used when saving.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatHTML:
		return ".html"
	default:
		return ".md"
	}
}

var md = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

// PostHTML converts post text to an HTML fragment. Single line breaks are
// kept as <br>; raw HTML in the post is not rendered.
func PostHTML(post string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(post), &buf); err != nil {
		return "", fmt.Errorf("rendering post: %w", err)
	}
	return buf.String(), nil
}

// Result writes res to w in format f.
func Result(w io.Writer, res types.Result, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatYAML:
		return writeYAML(w, res)
	case FormatHTML:
		return writeResultHTML(w, res)
	default:
		return writeResultText(w, res)
	}
}

// Brief writes a research brief to w in format f. HTML is rendered as text.
func Brief(w io.Writer, b types.ResearchBrief, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, b)
	case FormatYAML:
		return writeYAML(w, b)
	default:
		return writeBriefText(w, b)
	}
}

// SaveResult writes res into dir as <run id><ext> and returns the path.
func SaveResult(dir string, res types.Result, f Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, res.RunID+f.Extension())
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := Result(file, res, f); err != nil {
		return "", err
	}
	return path, nil
}

// Progress returns an observer that prints one status line per snapshot.
func Progress(w io.Writer) func(types.Snapshot) {
	return func(s types.Snapshot) {
		fmt.Fprintf(w, "[%d/%d] %s: %s\n", s.Index, s.Total, s.Stage, s.Status)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func writeResultText(w io.Writer, res types.Result) error {
	var b strings.Builder
	if res.Failed() {
		fmt.Fprintf(&b, "Error: %s\n", res.Error)
	} else {
		b.WriteString(res.FinalDraft)
		b.WriteString("\n")
	}
	if res.ImagePrompt != "" {
		fmt.Fprintf(&b, "\nImage prompt: %s\n", res.ImagePrompt)
	}
	writeLinks(&b, res.SourceLinks)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeBriefText(w io.Writer, br types.ResearchBrief) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research brief: %s (%s)\n\n", br.Topic, br.Region)
	b.WriteString(br.Brief)
	b.WriteString("\n")
	if br.Brief != br.NewsText {
		fmt.Fprintf(&b, "\n## Latest news\n\n%s\n", br.NewsText)
	}
	writeLinks(&b, br.SourceLinks)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeLinks(b *strings.Builder, links []types.SourceLink) {
	if len(links) == 0 {
		return
	}
	b.WriteString("\nSources:\n")
	for _, l := range links {
		fmt.Fprintf(b, "- %s: %s\n", l.Title, l.URL)
	}
}
