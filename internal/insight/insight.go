// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package insight turns collected research and author material into talking
// points for the draft stage.
package insight

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/pkg/types"
)

const systemPrompt = `You are an expert content analyst specializing in professional social posts and viral content.
Your task is to analyze the provided content and extract:
1. Key insights and takeaways
2. Viral elements (surprising facts, hooks, emotional triggers)
3. Sentiment and tone
4. Narrative potential

Only report numbers and attributions that appear in the content. Keep the analysis concise and actionable.`

const userTemplate = `Analyze the following content for post creation:

%s

Provide:
1. **Key Insights**: Main points and takeaways
2. **Viral Elements**: Surprising facts or hooks found in the content
3. **Sentiment**: Overall tone and emotional resonance
4. **Narrative Potential**: Story angles and perspectives

Keep your analysis concise and actionable.`

const (
	maxTokens   = 1000
	temperature = 0.5
)

// Extractor asks the model for talking points and falls back to a topic-only
// insight when the call fails.
type Extractor struct {
	gen    gateway.Generator
	logger *zap.Logger
}

// New returns an Extractor.
func New(gen gateway.Generator, logger *zap.Logger) *Extractor {
	return &Extractor{gen: gen, logger: logging.OrNop(logger)}
}

// Content assembles the material handed to the analyst. Empty sections are
// left out; the topic line is always last.
func Content(newsText, customContent, topic string) string {
	var b strings.Builder
	if strings.TrimSpace(newsText) != "" {
		fmt.Fprintf(&b, "News & Stats:\n%s\n\n", newsText)
	}
	if strings.TrimSpace(customContent) != "" {
		fmt.Fprintf(&b, "Custom Content:\n%s\n\n", customContent)
	}
	fmt.Fprintf(&b, "Topic: %s", topic)
	return b.String()
}

// Fallback is the insight used when the model is unavailable.
func Fallback(topic string) string {
	return "Topic: " + topic
}

// Extract returns the insights and whether they came from the model.
func (e *Extractor) Extract(ctx context.Context, topic, newsText, customContent string) (string, bool) {
	p := types.NewCall(systemPrompt,
		fmt.Sprintf(userTemplate, Content(newsText, customContent, topic)),
		maxTokens, temperature)

	out, err := e.gen.Generate(ctx, p)
	if err != nil {
		e.logger.Warn("insight extraction failed, using topic-only insight", zap.Error(err))
		return Fallback(topic), false
	}
	return out, true
}
