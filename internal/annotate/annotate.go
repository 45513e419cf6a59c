// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate derives a one-line image-generation prompt from a
// finished post.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/pkg/types"
)

// MaxWords caps the length of an image prompt.
const MaxWords = 80

const (
	maxTokens   = 200
	temperature = 0.7
)

const systemPrompt = `You are an art director for professional social media. Read the post and describe ONE image that would accompany it.
Write a single line usable as a prompt for an image generator: subject, setting, composition, lighting and style.
No text or logos in the image. No hashtags. No quotation marks. Under 60 words.`

const userTemplate = `TOPIC: %s

POST:
%s

Write the image prompt.`

// ErrEmptyPrompt is returned when the model answered with nothing usable.
var ErrEmptyPrompt = errors.New("empty image prompt")

// Annotator produces image prompts.
type Annotator struct {
	gen    gateway.Generator
	logger *zap.Logger
}

// New returns an Annotator.
func New(gen gateway.Generator, logger *zap.Logger) *Annotator {
	return &Annotator{gen: gen, logger: logging.OrNop(logger)}
}

// Annotate returns an image prompt for post. Any failure leaves the prompt
// empty; callers treat the error as advisory.
func (a *Annotator) Annotate(ctx context.Context, topic, post string) (string, error) {
	p := types.NewCall(systemPrompt, fmt.Sprintf(userTemplate, topic, post), maxTokens, temperature)
	raw, err := a.gen.Generate(ctx, p)
	if err != nil {
		a.logger.Warn("image prompt generation failed", zap.Error(err))
		return "", fmt.Errorf("image prompt: %w", err)
	}
	line := Clean(raw)
	if line == "" {
		return "", ErrEmptyPrompt
	}
	return line, nil
}

// Clean collapses s to one line of at most MaxWords words and strips
// surrounding quotes.
func Clean(s string) string {
	fields := strings.Fields(s)
	if len(fields) > MaxWords {
		fields = fields[:MaxWords]
	}
	return strings.Trim(strings.Join(fields, " "), `"'`)
}
