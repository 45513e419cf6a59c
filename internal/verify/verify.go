// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks a draft against its source material for invented
// facts and, when the check fails, asks for one corrective rewrite.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/gateway"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/pkg/types"
)

const checkSystemPrompt = `You are a strict Fact-Checking Editor. Your ONLY job is to verify that the content accurately reflects the source material and DOES NOT invent specific statistics, numbers, or attribution.

RULES:
1. General knowledge is allowed.
2. Specific stats (e.g., "$50K in 30 days", "73% increase") MUST exist in the Source Context.
3. A specific number or stat that appears in the Content but NOT in the Context is a HALLUCINATION.
4. "Data-Driven" hooks must be supported by actual data in the context.

If you find hallucinations, return JSON with "is_accurate": false, the specific "issues", and a "suggestion" to fix them (e.g., replace the stat with a qualitative statement).

If accurate, return JSON with "is_accurate": true.`

const checkUserTemplate = `SOURCE CONTEXT:
%s

GENERATED CONTENT:
%s

Verify factual accuracy. Check every number and specific claim.
Return JSON only: { "is_accurate": boolean, "issues": [list of strings], "suggestion": "string correction strategy if needed" }`

const correctSystemPrompt = "You are a Fact-Correction Editor. Rewrite the LinkedIn post to remove all invented statistics/facts. Maintain viral structure but use qualitative descriptions if data is missing."

const correctUserTemplate = `Original Context: %s

Draft Post: %s

Correction Instructions: %s`

const defaultSuggestion = "Ensure no invented stats."

const (
	checkMaxTokens       = 500
	correctTokensPerWord = 2.0
)

// ErrMalformedVerdict is returned when the model's verdict does not match
// the expected schema.
var ErrMalformedVerdict = errors.New("malformed verdict")

// Verdict is the outcome of an accuracy check.
type Verdict struct {
	IsAccurate bool     `json:"is_accurate" yaml:"is_accurate"`
	Issues     []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	Suggestion string   `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Accurate is the fail-open verdict.
func Accurate() Verdict {
	return Verdict{IsAccurate: true}
}

// rawVerdict mirrors Verdict with pointers so required fields can be told
// apart from zero values.
type rawVerdict struct {
	IsAccurate *bool    `json:"is_accurate"`
	Issues     []string `json:"issues"`
	Suggestion *string  `json:"suggestion"`
}

// ParseVerdict decodes a model response. Code fences are removed first and
// anything outside the outermost braces is ignored, so inline fences and a
// prose preamble still parse. is_accurate is required; issues must be a list
// of strings and suggestion a string or null.
func ParseVerdict(raw string) (Verdict, error) {
	text := jsonObject(gateway.StripFences(raw))
	if text == "" {
		return Verdict{}, fmt.Errorf("%w: empty response", ErrMalformedVerdict)
	}

	var rv rawVerdict
	if err := json.Unmarshal([]byte(text), &rv); err != nil {
		return Verdict{}, fmt.Errorf("%w: %w", ErrMalformedVerdict, err)
	}
	if rv.IsAccurate == nil {
		return Verdict{}, fmt.Errorf("%w: is_accurate missing", ErrMalformedVerdict)
	}

	v := Verdict{IsAccurate: *rv.IsAccurate, Issues: rv.Issues}
	if rv.Suggestion != nil {
		v.Suggestion = *rv.Suggestion
	}
	return v, nil
}

// jsonObject returns the span from the first '{' to the last '}', or s
// unchanged when there is no such span.
func jsonObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

// SourceContext builds the reference text a draft is checked against.
func SourceContext(topic, newsText, customContent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	if newsText != "" {
		fmt.Fprintf(&b, "News/Stats: %s\n", newsText)
	}
	if customContent != "" {
		fmt.Fprintf(&b, "Custom Content: %s", customContent)
	}
	return b.String()
}

// Verifier runs accuracy checks and corrections.
type Verifier struct {
	gen    gateway.Generator
	logger *zap.Logger
}

// New returns a Verifier.
func New(gen gateway.Generator, logger *zap.Logger) *Verifier {
	return &Verifier{gen: gen, logger: logging.OrNop(logger)}
}

// Verify checks draft against sourceContext. When the call fails or the
// verdict cannot be parsed it returns Accurate together with the error, so
// callers may proceed with the verdict and note the error.
func (v *Verifier) Verify(ctx context.Context, draft, sourceContext string) (Verdict, error) {
	p := types.NewCall(checkSystemPrompt,
		fmt.Sprintf(checkUserTemplate, sourceContext, draft),
		checkMaxTokens, 0.0)

	raw, err := v.gen.Generate(ctx, p)
	if err != nil {
		v.logger.Warn("verification call failed, treating draft as accurate", zap.Error(err))
		return Accurate(), fmt.Errorf("verification call: %w", err)
	}

	verdict, err := ParseVerdict(raw)
	if err != nil {
		v.logger.Warn("verification verdict unreadable, treating draft as accurate", zap.Error(err))
		return Accurate(), err
	}
	if !verdict.IsAccurate {
		v.logger.Info("verification flagged draft", zap.Strings("issues", verdict.Issues))
	}
	return verdict, nil
}

// CorrectionInstructions renders the instructions passed to the correction
// editor.
func CorrectionInstructions(verdict Verdict) string {
	suggestion := strings.TrimSpace(verdict.Suggestion)
	if suggestion == "" {
		suggestion = defaultSuggestion
	}
	suggestion = strings.TrimRight(suggestion, ".")
	return fmt.Sprintf("The previous draft contained these factual hallucinations: %s. %s. REWRITE the post to be 100%% factually accurate based ONLY on the provided context.",
		strings.Join(verdict.Issues, "; "), suggestion)
}

// Correct asks for one rewrite that removes the flagged issues. It returns
// the rewrite and true, or the original draft and false when the call fails.
func (v *Verifier) Correct(ctx context.Context, draft, sourceContext string, verdict Verdict, targetWords int) (string, bool) {
	p := types.NewCall(correctSystemPrompt,
		fmt.Sprintf(correctUserTemplate, sourceContext, draft, CorrectionInstructions(verdict)),
		types.TokenBudget(targetWords, correctTokensPerWord), 0.0)

	out, err := v.gen.Generate(ctx, p)
	if err != nil {
		v.logger.Warn("correction call failed, keeping draft", zap.Error(err))
		return draft, false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return draft, false
	}
	return out, true
}

// Outcome summarizes a check-and-correct pass.
type Outcome struct {
	Draft     string
	Verdict   Verdict
	Corrected bool
	Err       error
}

// Check verifies draft and applies at most one correction. The corrected
// draft is not checked again.
func (v *Verifier) Check(ctx context.Context, draft, sourceContext string, targetWords int) Outcome {
	verdict, err := v.Verify(ctx, draft, sourceContext)
	out := Outcome{Draft: draft, Verdict: verdict, Err: err}
	if verdict.IsAccurate {
		return out
	}
	out.Draft, out.Corrected = v.Correct(ctx, draft, sourceContext, verdict, targetWords)
	return out
}
