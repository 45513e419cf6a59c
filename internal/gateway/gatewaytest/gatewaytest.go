// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gatewaytest provides a scripted model gateway for stage tests.
package gatewaytest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pdiddy/post-engine/pkg/types"
)

// ErrScripted is returned for calls scripted to fail.
var ErrScripted = errors.New("scripted failure")

// Reply is one scripted answer. Fail makes the call return ErrScripted.
type Reply struct {
	Text string
	Fail bool
}

// OK returns a successful reply.
func OK(text string) Reply { return Reply{Text: text} }

// Fail returns a failing reply.
func Fail() Reply { return Reply{Fail: true} }

// Scripted answers calls from a queue and records every call. Rules take
// precedence over the queue: the first rule whose marker appears in the
// system prompt answers the call.
type Scripted struct {
	mu      sync.Mutex
	queue   []Reply
	rules   []rule
	calls   []types.ModelCallParameters
	Default Reply
}

type rule struct {
	marker string
	replies []Reply
}

// New returns a gateway that answers from replies in order. Once the queue
// is empty it answers with Default, which fails unless set.
func New(replies ...Reply) *Scripted {
	return &Scripted{queue: replies, Default: Fail()}
}

// On answers calls whose system prompt contains marker. Replies are consumed
// in order; the last one repeats.
func (s *Scripted) On(marker string, replies ...Reply) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, rule{marker: marker, replies: replies})
	return s
}

// Generate implements gateway.Generator.
func (s *Scripted) Generate(_ context.Context, p types.ModelCallParameters) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, p)

	r := s.next(p)
	if r.Fail {
		return "", ErrScripted
	}
	return r.Text, nil
}

func (s *Scripted) next(p types.ModelCallParameters) Reply {
	for i := range s.rules {
		ru := &s.rules[i]
		if !strings.Contains(p.System, ru.marker) || len(ru.replies) == 0 {
			continue
		}
		r := ru.replies[0]
		if len(ru.replies) > 1 {
			ru.replies = ru.replies[1:]
		}
		return r
	}
	if len(s.queue) == 0 {
		return s.Default
	}
	r := s.queue[0]
	s.queue = s.queue[1:]
	return r
}

// Calls returns a copy of every recorded call.
func (s *Scripted) Calls() []types.ModelCallParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.ModelCallParameters(nil), s.calls...)
}

// CallsMatching returns recorded calls whose system prompt contains marker.
func (s *Scripted) CallsMatching(marker string) []types.ModelCallParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.ModelCallParameters
	for _, c := range s.calls {
		if strings.Contains(c.System, marker) {
			out = append(out, c)
		}
	}
	return out
}
