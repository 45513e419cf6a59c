// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"github.com/pdiddy/post-engine/pkg/types"
)

// Stream is a run in progress.
type Stream struct {
	snapshots chan types.Snapshot
	done      chan struct{}
	result    types.Result
}

// Stream starts a run in its own goroutine. Snapshots arrive in stage order
// and the channel closes after the last one. The channel is buffered for
// every stage, so a caller that only wants the result need not drain it.
func (p *Pipeline) Stream(ctx context.Context, req types.GenerationRequest) (*Stream, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	st := &Stream{
		snapshots: make(chan types.Snapshot, len(Stages)),
		done:      make(chan struct{}),
	}
	go func() {
		defer close(st.done)
		defer close(st.snapshots)
		st.result = p.run(ctx, req, func(snap types.Snapshot) {
			st.snapshots <- snap
		})
	}()
	return st, nil
}

// Snapshots returns the snapshot channel.
func (s *Stream) Snapshots() <-chan types.Snapshot {
	return s.snapshots
}

// Result blocks until the run finishes.
func (s *Stream) Result() types.Result {
	<-s.done
	return s.result
}
