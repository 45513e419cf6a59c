// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the post-engine pipeline:
// the generation request, the state threaded through the stages, the model
// call parameters, and the configuration for every stage.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// EngagementLevel selects how aggressively a draft chases engagement.
type EngagementLevel string

const (
	EngagementLow    EngagementLevel = "Low"
	EngagementMedium EngagementLevel = "Medium"
	EngagementHigh   EngagementLevel = "High"
)

// Region labels offered to callers. Matching is by substring, so callers may
// pass shorter forms such as "Europe" or "Local".
const (
	RegionGlobal       = "Global (International)"
	RegionNorthAmerica = "North America (US/CA)"
	RegionEurope       = "Europe (EU/UK)"
	RegionAsiaPacific  = "Asia Pacific"
	RegionLocal        = "Local (My Location)"
)

// Word-count bounds accepted from callers.
const (
	MinTargetWords     = 50
	MaxTargetWords     = 1700
	DefaultTargetWords = 300
)

// Tones lists the personas offered to callers. Free text is also accepted.
var Tones = []string{
	"Visionary Tech Analyst",
	"Solopreneur/Lifestyle Designer",
	"Practical Educator",
	"Regional Specialist",
	"Provocateur",
	"Insider",
}

// Formats lists the content formats offered to callers.
var Formats = []string{
	"News Breakdown",
	"Philosophical Essay",
	"Tactical Guide",
	"Case Study",
	"Personal Story",
}

// NarrativePatterns lists the narrative structures offered to callers.
var NarrativePatterns = []string{
	"Storytelling Arc",
	"Us vs. Them Mentality",
	"Relatability Factor",
}

// Request validation errors.
var (
	ErrEmptyTopic        = errors.New("topic is empty")
	ErrInvalidTarget     = errors.New("target word count must be positive")
	ErrInvalidCreativity = errors.New("creativity must be between 0.0 and 1.0")
	ErrInvalidEngagement = errors.New("engagement level must be Low, Medium, or High")
)

// GenerationRequest is the immutable input to one pipeline run.
type GenerationRequest struct {
	// Topic is the subject of the post. Required.
	Topic string `json:"topic" yaml:"topic"`

	// CustomContent is optional material supplied by the author (notes,
	// data, a prior research brief).
	CustomContent string `json:"custom_content,omitempty" yaml:"custom_content,omitempty"`

	// Tone is the persona the post is written in.
	Tone string `json:"tone" yaml:"tone"`

	// Formats lists one or more content-format tags.
	Formats []string `json:"formats" yaml:"formats"`

	// TargetWords is the desired length of the final post in words.
	TargetWords int `json:"target_words" yaml:"target_words"`

	// Engagement selects the intensity tier.
	Engagement EngagementLevel `json:"engagement" yaml:"engagement"`

	// NarrativePatterns lists one or more narrative-pattern tags.
	NarrativePatterns []string `json:"narrative_patterns" yaml:"narrative_patterns"`

	// Creativity is the sampling temperature for the draft call and gates
	// the structural variation directive.
	Creativity float64 `json:"creativity" yaml:"creativity"`

	// Region is the target audience region; it drives source geography.
	Region string `json:"region" yaml:"region"`

	// UserCountry is the caller's two-letter country code, used when Region
	// is local.
	UserCountry string `json:"user_country,omitempty" yaml:"user_country,omitempty"`

	// StyleOverride is free-text style guidance that overrides every other
	// stylistic rule.
	StyleOverride string `json:"style_override,omitempty" yaml:"style_override,omitempty"`

	// Deep selects multi-query research.
	Deep bool `json:"deep" yaml:"deep"`
}

// Validate reports the first problem that makes the request unusable.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrEmptyTopic
	}
	if r.TargetWords <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTarget, r.TargetWords)
	}
	if r.Creativity < 0 || r.Creativity > 1 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidCreativity, r.Creativity)
	}
	switch r.Engagement {
	case EngagementLow, EngagementMedium, EngagementHigh:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidEngagement, r.Engagement)
	}
	return nil
}

// TargetInRange reports whether TargetWords lies within the offered bounds,
// MinTargetWords to MaxTargetWords inclusive. Values outside are still valid.
func (r GenerationRequest) TargetInRange() bool {
	return r.TargetWords >= MinTargetWords && r.TargetWords <= MaxTargetWords
}

// WithDefaults returns a copy with empty optional fields filled in the way
// the interactive front-end pre-populates them.
func (r GenerationRequest) WithDefaults() GenerationRequest {
	if r.Tone == "" {
		r.Tone = Tones[0]
	}
	if len(r.Formats) == 0 {
		r.Formats = []string{Formats[0]}
	}
	if r.TargetWords == 0 {
		r.TargetWords = DefaultTargetWords
	}
	if r.Engagement == "" {
		r.Engagement = EngagementMedium
	}
	if len(r.NarrativePatterns) == 0 {
		r.NarrativePatterns = []string{NarrativePatterns[0]}
	}
	if r.Region == "" {
		r.Region = RegionGlobal
	}
	if r.UserCountry == "" {
		r.UserCountry = "us"
	}
	r.UserCountry = strings.ToLower(r.UserCountry)
	return r
}
