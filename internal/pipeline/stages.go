// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/draft"
	"github.com/pdiddy/post-engine/internal/verify"
	"github.com/pdiddy/post-engine/pkg/types"
)

// runner carries the per-run observer and logger.
type runner struct {
	p       *Pipeline
	log     *zap.Logger
	observe Observer
}

type stageFunc func(ctx context.Context, s *types.PipelineState)

// stage adapts fn to a pipz processor. Stages never return errors: failures
// are recorded on the state so every later stage still runs and reports.
func (r *runner) stage(index int, name string, fn stageFunc) func(context.Context, *types.PipelineState) (*types.PipelineState, error) {
	return func(ctx context.Context, s *types.PipelineState) (*types.PipelineState, error) {
		fn(ctx, s)
		s.Stage = name

		capitan.Info(ctx, StageCompleted,
			RunIDKey.Field(s.RunID),
			StageKey.Field(name),
			StatusKey.Field(s.Status),
		)
		r.log.Debug("stage complete", zap.String("stage", name), zap.String("status", s.Status))
		r.observe(types.Snapshot{
			Stage:  name,
			Index:  index,
			Total:  len(Stages),
			Status: s.Status,
			State:  s.Clone(),
		})
		return s, nil
	}
}

func (r *runner) research(ctx context.Context, s *types.PipelineState) {
	col := r.p.collector.Collect(ctx, s.Topic, s.Region, s.UserCountry, s.Deep)
	s.ResearchText = col.Text
	s.AddLinks(col.Links)
	s.Status = col.Status
}

func (r *runner) insights(ctx context.Context, s *types.PipelineState) {
	text, fromModel := r.p.insight.Extract(ctx, s.Topic, s.ResearchText, s.CustomContent)
	s.Insights = text
	if !fromModel {
		s.MarkDegraded("insight: model unavailable, using topic-only insight")
		s.Status = "Analysis failed, proceeding with basic insights"
		return
	}
	s.Status = "Content analysis complete"
}

func (r *runner) generate(ctx context.Context, s *types.PipelineState) {
	out, err := r.p.draft.Generate(ctx, s.GenerationRequest, s.ResearchText, s.Insights)
	if err != nil {
		r.log.Error("draft generation failed", zap.Error(err))
		s.RawDraft = ""
		s.Error = draft.FailureMessage
		s.Failure = types.FailureTerminal
		s.Status = "Generation failed"
		return
	}
	s.RawDraft = out
	s.Status = fmt.Sprintf("Post generated successfully (%d words)", types.WordCount(out))
}

func (r *runner) verify(ctx context.Context, s *types.PipelineState) {
	if !s.HasDraft() {
		s.Status = "Verification skipped: no draft"
		return
	}
	src := verify.SourceContext(s.Topic, s.ResearchText, s.CustomContent)
	out := r.p.verifier.Check(ctx, s.RawDraft, src, s.TargetWords)

	switch {
	case out.Err != nil:
		s.MarkDegraded("verify: " + out.Err.Error())
		s.Status = "Verification unavailable, draft passed through"
	case out.Corrected:
		s.RawDraft = out.Draft
		s.Status = "Content corrected for factual accuracy"
	case !out.Verdict.IsAccurate:
		s.MarkDegraded("verify: correction unavailable, flagged draft kept")
		s.Status = "Possible inaccuracies flagged; correction unavailable"
	default:
		s.Status = "Facts verified"
	}
}

func (r *runner) refine(ctx context.Context, s *types.PipelineState) {
	if !s.HasDraft() {
		s.Status = "Refinement skipped: no draft"
		return
	}
	out := r.p.refiner.Refine(ctx, s.RawDraft, s.TargetWords)
	s.FinalDraft = out.Draft
	if out.Converged {
		s.Status = fmt.Sprintf("Post ready: %d words (target %d)", out.Words, s.TargetWords)
		return
	}
	s.Status = fmt.Sprintf("Post ready: %d words, outside target %d after %d rewrites", out.Words, s.TargetWords, out.Attempts)
}

func (r *runner) annotate(ctx context.Context, s *types.PipelineState) {
	if s.FinalDraft == "" {
		s.Status = "Image prompt skipped: no draft"
		return
	}
	prompt, err := r.p.annotator.Annotate(ctx, s.Topic, s.FinalDraft)
	if err != nil {
		s.ImagePrompt = ""
		s.MarkDegraded("annotate: " + err.Error())
		s.Status = "Image prompt unavailable"
		return
	}
	s.ImagePrompt = prompt
	s.Status = "Image prompt ready"
}
