// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "slices"

// SourceLink is a titled reference to a news article. Identity is URL.
type SourceLink struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

// FailureKind classifies how a pipeline run ended.
type FailureKind string

const (
	// FailureNone means every stage that ran produced its output.
	FailureNone FailureKind = "none"

	// FailureTerminal means no draft could be produced.
	FailureTerminal FailureKind = "terminal"

	// FailureDegraded means a draft exists but at least one best-effort
	// step (verification, annotation) was skipped.
	FailureDegraded FailureKind = "degraded"
)

// PipelineState is the single mutable value threaded through every stage of
// one run. It is owned by the pipeline driver for the duration of the run.
type PipelineState struct {
	GenerationRequest `yaml:",inline"`

	// RunID identifies the run in logs and snapshots.
	RunID string `json:"run_id" yaml:"run_id"`

	// ResearchText is the combined text gathered by the research stage.
	ResearchText string `json:"research_text" yaml:"research_text"`

	// SourceLinks is the url-deduplicated list of sources.
	SourceLinks []SourceLink `json:"source_links" yaml:"source_links"`

	// Insights is the analysis of the research and custom content.
	Insights string `json:"insights,omitempty" yaml:"insights,omitempty"`

	// RawDraft is the generated (and possibly corrected) draft.
	RawDraft string `json:"raw_draft,omitempty" yaml:"raw_draft,omitempty"`

	// FinalDraft is the draft after length convergence.
	FinalDraft string `json:"final_draft,omitempty" yaml:"final_draft,omitempty"`

	// ImagePrompt is the optional visual-generation prompt.
	ImagePrompt string `json:"image_prompt,omitempty" yaml:"image_prompt,omitempty"`

	// Status is the last human-readable status line.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// Error is the last error message written by a stage. Later stages may
	// overwrite it.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Failure is set to FailureTerminal when no draft could be produced.
	Failure FailureKind `json:"failure" yaml:"failure"`

	// Degraded collects one note per best-effort step that was skipped.
	Degraded []string `json:"degraded,omitempty" yaml:"degraded,omitempty"`

	// Stage is the name of the last completed stage.
	Stage string `json:"stage,omitempty" yaml:"stage,omitempty"`
}

// NewPipelineState builds the initial state for a request.
func NewPipelineState(req GenerationRequest, runID string) *PipelineState {
	return &PipelineState{
		GenerationRequest: req,
		RunID:             runID,
		Failure:           FailureNone,
	}
}

// AddLinks appends links whose URL is not already present. Links with an
// empty URL are dropped. It returns the number of links added.
func (s *PipelineState) AddLinks(links []SourceLink) int {
	var added int
	s.SourceLinks, added = MergeLinks(s.SourceLinks, links)
	return added
}

// MergeLinks appends to dst every link in src whose URL is not already in
// dst, preserving order. It returns the merged slice and the count added.
func MergeLinks(dst, src []SourceLink) ([]SourceLink, int) {
	seen := make(map[string]bool, len(dst)+len(src))
	for _, l := range dst {
		seen[l.URL] = true
	}
	added := 0
	for _, l := range src {
		if l.URL == "" || seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		dst = append(dst, l)
		added++
	}
	return dst, added
}

// MarkDegraded records a skipped best-effort step.
func (s *PipelineState) MarkDegraded(note string) {
	s.Degraded = append(s.Degraded, note)
}

// HasDraft reports whether a draft is available to downstream stages.
func (s *PipelineState) HasDraft() bool {
	return s.RawDraft != ""
}

// Clone returns a deep copy suitable for handing to an observer.
func (s *PipelineState) Clone() PipelineState {
	c := *s
	c.Formats = slices.Clone(s.Formats)
	c.NarrativePatterns = slices.Clone(s.NarrativePatterns)
	c.SourceLinks = slices.Clone(s.SourceLinks)
	c.Degraded = slices.Clone(s.Degraded)
	return c
}

// Snapshot is the state observed at the end of one stage.
type Snapshot struct {
	// Stage is the stage name (e.g. "research").
	Stage string `json:"stage" yaml:"stage"`

	// Index is the 1-based position of the stage in the pipeline.
	Index int `json:"index" yaml:"index"`

	// Total is the number of stages in the pipeline.
	Total int `json:"total" yaml:"total"`

	// Status is the human-readable status line written by the stage.
	Status string `json:"status" yaml:"status"`

	// State is a copy of the pipeline state at the end of the stage.
	State PipelineState `json:"state" yaml:"state"`
}

// Result is what the caller receives when a run finishes.
type Result struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	FinalDraft  string       `json:"final_draft,omitempty" yaml:"final_draft,omitempty"`
	ImagePrompt string       `json:"image_prompt,omitempty" yaml:"image_prompt,omitempty"`
	SourceLinks []SourceLink `json:"source_links" yaml:"source_links"`
	ErrorKind   FailureKind  `json:"error_kind" yaml:"error_kind"`
	Error       string       `json:"error,omitempty" yaml:"error,omitempty"`
	Degraded    []string     `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Status      string       `json:"status,omitempty" yaml:"status,omitempty"`
	WordCount   int          `json:"word_count" yaml:"word_count"`
}

// Failed reports whether no draft could be produced.
func (r Result) Failed() bool {
	return r.ErrorKind == FailureTerminal
}

// ResearchBrief is the output of the standalone research operation.
type ResearchBrief struct {
	Topic       string       `json:"topic" yaml:"topic"`
	Region      string       `json:"region" yaml:"region"`
	Deep        bool         `json:"deep" yaml:"deep"`
	Brief       string       `json:"research_brief" yaml:"research_brief"`
	NewsText    string       `json:"latest_news_and_stats" yaml:"latest_news_and_stats"`
	SourceLinks []SourceLink `json:"source_links" yaml:"source_links"`
	Status      string       `json:"status,omitempty" yaml:"status,omitempty"`
}
