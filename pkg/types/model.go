// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"math"
	"strings"
)

// Sampling defaults sent with every model call.
const (
	DefaultTopP             = 0.9
	DefaultFrequencyPenalty = 0.5
	DefaultPresencePenalty  = 0.5
)

// ModelCallParameters is one request to the model gateway.
type ModelCallParameters struct {
	System           string  `json:"system" yaml:"system"`
	User             string  `json:"user" yaml:"user"`
	MaxTokens        int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature      float64 `json:"temperature" yaml:"temperature"`
	TopP             float64 `json:"top_p" yaml:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty" yaml:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty" yaml:"presence_penalty"`
}

// NewCall returns parameters with the default sampling settings.
func NewCall(system, user string, maxTokens int, temperature float64) ModelCallParameters {
	return ModelCallParameters{
		System:           system,
		User:             user,
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
	}
}

// TokenBudget returns round(multiplier × words), never less than 1.
func TokenBudget(words int, multiplier float64) int {
	n := int(math.Round(float64(words) * multiplier))
	if n < 1 {
		return 1
	}
	return n
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
