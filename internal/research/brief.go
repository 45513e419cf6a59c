// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/pkg/types"
)

const briefSystemPrompt = `You are a senior market research strategist. You turn raw news headlines into a concise strategic brief for a professional content creator.

RULES:
1. Use only facts present in the headlines. Do not invent statistics, numbers, quotes, or attributions.
2. When the headlines are thin, say so and fall back to widely known context without specifics.
3. No em-dashes. Use commas, periods, or colons.`

const briefUserTemplate = `TOPIC: %s
AUDIENCE REGION: %s

LATEST HEADLINES:
%s

Write a strategic brief with these sections:
1. Key Developments: 3 to 5 bullet points
2. Why It Matters: two or three sentences for this audience
3. Hook Ideas: three opening lines for a social post, each under 15 words

Keep the whole brief under 250 words.`

// Brief token budget and sampling.
const (
	briefMaxTokens   = 800
	briefTemperature = 0.4
)

// Briefer runs the standalone research operation: collect news, then ask
// the model for a strategic brief grounded in it.
type Briefer struct {
	collector *Collector
	gen       gateway.Generator
	logger    *zap.Logger
}

// NewBriefer returns a Briefer.
func NewBriefer(collector *Collector, gen gateway.Generator, logger *zap.Logger) *Briefer {
	return &Briefer{collector: collector, gen: gen, logger: logging.OrNop(logger)}
}

// Brief collects research for topic and summarizes it. When the model call
// fails the brief falls back to the collected news text.
func (b *Briefer) Brief(ctx context.Context, topic, region, userCountry string, deep bool) types.ResearchBrief {
	col := b.collector.Collect(ctx, topic, region, userCountry, deep)

	out := types.ResearchBrief{
		Topic:       topic,
		Region:      region,
		Deep:        deep,
		NewsText:    col.Text,
		SourceLinks: col.Links,
		Status:      col.Status,
	}

	p := types.NewCall(briefSystemPrompt,
		fmt.Sprintf(briefUserTemplate, topic, region, col.Text),
		briefMaxTokens, briefTemperature)
	brief, err := b.gen.Generate(ctx, p)
	if err != nil {
		b.logger.Warn("research brief generation failed, returning raw news", zap.Error(err))
		out.Brief = col.Text
		out.Status = col.Status + "; brief unavailable"
		return out
	}
	out.Brief = brief
	return out
}
