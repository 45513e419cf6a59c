// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fallback runs an ordered list of alternatives and stops at the
// first one that succeeds. The model gateway uses it for candidate models
// and the research collector for news providers.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/pipz"
)

// ErrExhausted is returned when every option failed.
var ErrExhausted = errors.New("all options failed")

// ErrNoOptions is returned when the chain is empty.
var ErrNoOptions = errors.New("no options configured")

// ErrTimeout marks an option that ran past the per-option timeout.
var ErrTimeout = errors.New("option timed out")

// Option is one alternative in a chain.
type Option[T any] struct {
	// Name identifies the option in errors and results.
	Name string

	// Try produces a value. A non-nil error advances the chain.
	Try func(ctx context.Context) (T, error)
}

// Outcome is the result of running a chain.
type Outcome[T any] struct {
	// Value is the winning option's value.
	Value T

	// Winner is the winning option's name.
	Winner string

	// Attempts counts options tried, including the winner.
	Attempts int

	// Failures holds one wrapped error per failed option, in order.
	Failures []error
}

// attempt is the value passed along the pipz chain.
type attempt[T any] struct {
	Outcome[T]
}

// Chain is an ordered list of options with a per-option timeout.
type Chain[T any] struct {
	options []Option[T]
	timeout time.Duration
}

// New returns a chain over options. A timeout of zero leaves each option
// bounded only by the caller's context.
func New[T any](timeout time.Duration, options ...Option[T]) *Chain[T] {
	return &Chain[T]{options: options, timeout: timeout}
}

// Len returns the number of options.
func (c *Chain[T]) Len() int { return len(c.options) }

// Run tries each option in order and returns the first success. When every
// option fails the returned error wraps ErrExhausted and every option error.
func (c *Chain[T]) Run(ctx context.Context) (Outcome[T], error) {
	if len(c.options) == 0 {
		return Outcome[T]{}, ErrNoOptions
	}

	steps := make([]pipz.Chainable[*attempt[T]], len(c.options))
	for i, opt := range c.options {
		steps[i] = c.step(opt)
	}

	chain := steps[len(steps)-1]
	for i := len(steps) - 2; i >= 0; i-- {
		chain = pipz.NewFallback("fallback", steps[i], chain)
	}

	a := &attempt[T]{}
	if _, err := chain.Process(ctx, a); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			a.Failures = append(a.Failures, ctxErr)
		}
		return a.Outcome, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(a.Failures...))
	}
	return a.Outcome, nil
}

// step wraps one option as a pipz processor. The option runs synchronously
// under its own deadline so a slow option never outlives its turn.
func (c *Chain[T]) step(opt Option[T]) pipz.Chainable[*attempt[T]] {
	return pipz.Apply("option", func(ctx context.Context, a *attempt[T]) (*attempt[T], error) {
		a.Attempts++
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		v, err := opt.Try(callCtx)
		if err != nil && callCtx.Err() != nil && ctx.Err() == nil {
			err = fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		if err != nil {
			a.Failures = append(a.Failures, fmt.Errorf("%s: %w", opt.Name, err))
			return a, err
		}
		a.Value = v
		a.Winner = opt.Name
		return a, nil
	})
}
