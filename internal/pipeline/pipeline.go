// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the six generation stages in order over one
// PipelineState and reports a snapshot after each stage.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/annotate"
	"github.com/pdiddy/post-engine/internal/draft"
	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/insight"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/internal/refine"
	"github.com/pdiddy/post-engine/internal/research"
	"github.com/pdiddy/post-engine/internal/verify"
	"github.com/pdiddy/post-engine/pkg/types"
)

// Stage names, in execution order.
const (
	StageResearch = "research"
	StageInsight  = "insight"
	StageDraft    = "draft"
	StageVerify   = "verify"
	StageRefine   = "refine"
	StageAnnotate = "annotate"
)

// Stages lists the stage names in execution order.
var Stages = []string{StageResearch, StageInsight, StageDraft, StageVerify, StageRefine, StageAnnotate}

// Observer receives one snapshot per stage, in order.
type Observer func(types.Snapshot)

// Pipeline holds the stage components for generation runs. Runs on one
// Pipeline may proceed concurrently; each run owns its state.
type Pipeline struct {
	collector *research.Collector
	insight   *insight.Extractor
	draft     *draft.Generator
	verifier  *verify.Verifier
	refiner   *refine.Refiner
	annotator *annotate.Annotator
	logger    *zap.Logger

	chooser  draft.Chooser
	newRunID func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithChooser pins the structural-directive selection of the draft stage.
func WithChooser(c draft.Chooser) Option {
	return func(p *Pipeline) { p.chooser = c }
}

// WithRunID replaces the run id generator.
func WithRunID(fn func() string) Option {
	return func(p *Pipeline) { p.newRunID = fn }
}

// New wires the stages around one gateway and one research collector.
func New(gen gateway.Generator, collector *research.Collector, refineCfg types.RefineConfig, logger *zap.Logger, opts ...Option) *Pipeline {
	logger = logging.OrNop(logger)
	p := &Pipeline{
		collector: collector,
		logger:    logger,
		newRunID:  uuid.NewString,
	}
	for _, o := range opts {
		o(p)
	}

	var draftOpts []draft.Option
	if p.chooser != nil {
		draftOpts = append(draftOpts, draft.WithChooser(p.chooser))
	}
	p.insight = insight.New(gen, logger.Named(StageInsight))
	p.draft = draft.New(gen, logger.Named(StageDraft), draftOpts...)
	p.verifier = verify.New(gen, logger.Named(StageVerify))
	p.refiner = refine.New(gen, refineCfg, logger.Named(StageRefine))
	p.annotator = annotate.New(gen, logger.Named(StageAnnotate))
	return p
}

// Run executes every stage for req and returns the result. The only error
// is an invalid request; stage failures are reported in the result.
func (p *Pipeline) Run(ctx context.Context, req types.GenerationRequest, observe Observer) (types.Result, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return types.Result{}, fmt.Errorf("invalid request: %w", err)
	}
	return p.run(ctx, req, observe), nil
}

func (p *Pipeline) run(ctx context.Context, req types.GenerationRequest, observe Observer) types.Result {
	if observe == nil {
		observe = func(types.Snapshot) {}
	}
	state := types.NewPipelineState(req, p.newRunID())
	log := p.logger.With(zap.String("run_id", state.RunID))
	log.Info("pipeline started", zap.String("topic", req.Topic), zap.Bool("deep", req.Deep))

	r := &runner{p: p, log: log, observe: observe}
	seq := pipz.NewSequence("post-pipeline",
		pipz.Apply(StageResearch, r.stage(1, StageResearch, r.research)),
		pipz.Apply(StageInsight, r.stage(2, StageInsight, r.insights)),
		pipz.Apply(StageDraft, r.stage(3, StageDraft, r.generate)),
		pipz.Apply(StageVerify, r.stage(4, StageVerify, r.verify)),
		pipz.Apply(StageRefine, r.stage(5, StageRefine, r.refine)),
		pipz.Apply(StageAnnotate, r.stage(6, StageAnnotate, r.annotate)),
	)

	if _, err := seq.Process(ctx, state); err != nil {
		log.Error("pipeline interrupted", zap.String("stage", state.Stage), zap.Error(err))
		if state.Error == "" {
			state.Error = err.Error()
		}
		switch {
		case state.FinalDraft != "":
			state.MarkDegraded("pipeline: interrupted after " + state.Stage)
		case state.HasDraft():
			state.FinalDraft = state.RawDraft
			state.MarkDegraded("pipeline: interrupted after " + state.Stage + ", unrefined draft kept")
		default:
			state.Failure = types.FailureTerminal
		}
	}

	res := ResultFrom(state)
	capitan.Info(ctx, RunFinished,
		RunIDKey.Field(res.RunID),
		ErrorKindKey.Field(string(res.ErrorKind)),
	)
	log.Info("pipeline finished",
		zap.String("error_kind", string(res.ErrorKind)),
		zap.Int("words", res.WordCount),
		zap.Int("sources", len(res.SourceLinks)))
	return res
}

// ResultFrom extracts the caller-facing result from a finished state.
func ResultFrom(s *types.PipelineState) types.Result {
	kind := types.FailureNone
	switch {
	case s.Failure == types.FailureTerminal:
		kind = types.FailureTerminal
	case len(s.Degraded) > 0:
		kind = types.FailureDegraded
	}
	links := s.SourceLinks
	if links == nil {
		links = []types.SourceLink{}
	}
	return types.Result{
		RunID:       s.RunID,
		FinalDraft:  s.FinalDraft,
		ImagePrompt: s.ImagePrompt,
		SourceLinks: links,
		ErrorKind:   kind,
		Error:       s.Error,
		Degraded:    s.Degraded,
		Status:      s.Status,
		WordCount:   types.WordCount(s.FinalDraft),
	}
}
