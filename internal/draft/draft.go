// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft builds the generation prompt from a request and asks the
// model gateway for the first draft of a post.
package draft

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/pkg/types"
)

// ErrDraftFailed is the terminal failure of the pipeline.
var ErrDraftFailed = errors.New("all LLM models failed")

// FailureMessage is the error text recorded on the pipeline state when no
// draft could be produced.
const FailureMessage = "Failed to generate post - all LLM models failed"

// Token budget multiplier for the draft call.
const tokensPerWord = 2.0

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

// NewSeededChooser returns a deterministic chooser.
func NewSeededChooser(seed uint64) Chooser {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generator produces drafts.
type Generator struct {
	gen    gateway.Generator
	logger *zap.Logger

	mu      sync.Mutex
	chooser Chooser
}

// Option configures a Generator.
type Option func(*Generator)

// WithChooser sets the source used to pick a structural directive.
func WithChooser(c Chooser) Option {
	return func(g *Generator) { g.chooser = c }
}

// New returns a Generator. Without WithChooser the structure is picked from
// a randomly seeded source.
func New(gen gateway.Generator, logger *zap.Logger, opts ...Option) *Generator {
	g := &Generator{gen: gen, logger: logging.OrNop(logger)}
	for _, o := range opts {
		o(g)
	}
	if g.chooser == nil {
		g.chooser = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// PickStructure returns the structural directive for a creativity level.
// Creativity below 0.4 always gets StandardStructure and consumes nothing
// from the chooser.
func (g *Generator) PickStructure(creativity float64) string {
	if creativity < conservativeBelow {
		return StandardStructure
	}
	g.mu.Lock()
	i := g.chooser.IntN(len(Structures))
	g.mu.Unlock()
	return Structures[i]
}

// Params builds the model call for a draft.
func Params(in Inputs) types.ModelCallParameters {
	return types.NewCall(SystemPrompt, UserPrompt(in),
		types.TokenBudget(in.Request.TargetWords, tokensPerWord),
		in.Request.Creativity)
}

// Generate returns a draft for req. When every candidate fails it returns
// an error wrapping ErrDraftFailed.
func (g *Generator) Generate(ctx context.Context, req types.GenerationRequest, research, insights string) (string, error) {
	in := Inputs{
		Request:   req,
		Research:  research,
		Insights:  insights,
		Structure: g.PickStructure(req.Creativity),
	}
	g.logger.Debug("generating draft",
		zap.String("structure", in.Structure),
		zap.Int("target_words", req.TargetWords),
		zap.Float64("creativity", req.Creativity))

	out, err := g.gen.Generate(ctx, Params(in))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDraftFailed, err)
	}
	return out, nil
}
