// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import "github.com/zoobzio/capitan"

// Signals emitted for every candidate attempt.
const (
	CandidateStarted   = capitan.Signal("gateway.candidate.started")
	CandidateCompleted = capitan.Signal("gateway.candidate.completed")
	CandidateFailed    = capitan.Signal("gateway.candidate.failed")
	Exhausted          = capitan.Signal("gateway.exhausted")
)

// Keys for signal fields.
var (
	ProviderKey   = capitan.NewStringKey("gateway.provider")
	ModelKey      = capitan.NewStringKey("gateway.model")
	ErrorKey      = capitan.NewStringKey("gateway.error")
	DurationMsKey = capitan.NewIntKey("gateway.duration.ms")
	MaxTokensKey  = capitan.NewIntKey("gateway.max_tokens")
	AttemptsKey   = capitan.NewIntKey("gateway.attempts")
	ResponseLen   = capitan.NewIntKey("gateway.response.length")
)
