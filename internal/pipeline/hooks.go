// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/zoobzio/capitan"

// Signals emitted by the driver.
const (
	StageCompleted = capitan.Signal("pipeline.stage.completed")
	RunFinished    = capitan.Signal("pipeline.run.finished")
)

// Keys for signal fields.
var (
	RunIDKey     = capitan.NewStringKey("pipeline.run_id")
	StageKey     = capitan.NewStringKey("pipeline.stage")
	StatusKey    = capitan.NewStringKey("pipeline.status")
	ErrorKindKey = capitan.NewStringKey("pipeline.error_kind")
)
