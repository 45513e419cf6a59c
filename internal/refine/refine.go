// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refine rewrites a draft until its word count lands within a
// tolerance band of the target, or the attempt budget runs out.
package refine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/pkg/types"
)

// Defaults for the convergence loop.
const (
	DefaultMaxAttempts = 2
	DefaultTolerance   = 0.10
)

const (
	temperature   = 0.3
	tokensPerWord = 2.5
	emDash        = "—"
)

const systemTemplate = `You are an expert editor for professional social posts. %s the post to approximately %d words (acceptable range %d to %d words).
Preserve the hook, the voice, the structure and the core message.
Keep every rule the post already follows: no invented statistics, no em-dashes, line breaks every 2 to 3 lines, hashtags at the end.
Return only the rewritten post.`

const userTemplate = `%s this post to ~%d words. It is currently %d words.

%s`

// Direction is the kind of rewrite requested.
type Direction string

const (
	Shorten Direction = "Shorten"
	Expand  Direction = "Expand"
)

// Outcome is the result of a refinement loop.
type Outcome struct {
	Draft     string
	Words     int
	Attempts  int
	Converged bool
}

// Refiner runs the convergence loop.
type Refiner struct {
	gen         gateway.Generator
	maxAttempts int
	tolerance   float64
	logger      *zap.Logger
}

// New returns a Refiner. Zero config values take the defaults.
func New(gen gateway.Generator, cfg types.RefineConfig, logger *zap.Logger) *Refiner {
	r := &Refiner{
		gen:         gen,
		maxAttempts: cfg.MaxAttempts,
		tolerance:   cfg.Tolerance,
		logger:      logging.OrNop(logger),
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = DefaultMaxAttempts
	}
	if r.tolerance <= 0 {
		r.tolerance = DefaultTolerance
	}
	return r
}

// Deviation returns |words − target| / target.
func Deviation(words, target int) float64 {
	if target <= 0 {
		return 0
	}
	return math.Abs(float64(words-target)) / float64(target)
}

// Within reports whether words is inside the tolerance band.
func (r *Refiner) Within(words, target int) bool {
	return Deviation(words, target) <= r.tolerance
}

// Bounds returns the inclusive word range accepted for target.
func (r *Refiner) Bounds(target int) (int, int) {
	lo := int(math.Ceil(float64(target) * (1 - r.tolerance)))
	hi := int(math.Floor(float64(target) * (1 + r.tolerance)))
	return lo, hi
}

// Refine rewrites draft toward target. It stops as soon as the count is in
// band, when a rewrite call fails, or after the attempt budget. The last
// successfully produced draft is always returned.
func (r *Refiner) Refine(ctx context.Context, draft string, target int) Outcome {
	out := Outcome{Draft: draft}

	for out.Attempts < r.maxAttempts {
		words := types.WordCount(out.Draft)
		if r.Within(words, target) {
			break
		}
		dir := Expand
		if words > target {
			dir = Shorten
		}

		out.Attempts++
		r.logger.Debug("rewriting draft toward target",
			zap.String("direction", string(dir)),
			zap.Int("words", words),
			zap.Int("target", target),
			zap.Int("attempt", out.Attempts))

		rewritten, err := r.gen.Generate(ctx, r.params(dir, out.Draft, words, target))
		if err != nil {
			r.logger.Warn("rewrite failed, keeping last draft", zap.Error(err))
			break
		}
		if rewritten = strings.TrimSpace(rewritten); rewritten != "" {
			out.Draft = rewritten
		}
	}

	out.Draft = strings.TrimSpace(out.Draft)
	out.Words = types.WordCount(out.Draft)
	out.Converged = r.Within(out.Words, target)
	if strings.Contains(out.Draft, emDash) {
		r.logger.Warn("final draft contains an em-dash")
	}
	return out
}

func (r *Refiner) params(dir Direction, draft string, words, target int) types.ModelCallParameters {
	lo, hi := r.Bounds(target)
	return types.NewCall(
		fmt.Sprintf(systemTemplate, dir, target, lo, hi),
		fmt.Sprintf(userTemplate, dir, target, words, draft),
		types.TokenBudget(target, tokensPerWord),
		temperature)
}
