// File: pkg/wait/wait.go

// Package wait implements the bounded-retry poller the rest of the library
// is built on. It knows nothing about browsers or elements: predicates are
// opaque closures, and time is an injectable dependency so the poller can be
// tested with a fake clock.
package wait

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultTimeout bounds a wait when the caller gives none.
	DefaultTimeout = 10 * time.Second

	// DefaultPollInterval is the initial pause between attempts.
	DefaultPollInterval = 500 * time.Millisecond

	// DefaultBackoffFactor lengthens the poll interval on every retry,
	// keeping short waits responsive without hammering long ones.
	DefaultBackoffFactor = 1.25
)

// Spec bounds a single wait. The zero value is usable: every field
// normalizes to its package default, except Timeout, where zero is
// meaningful and means "evaluate exactly once, never sleep".
type Spec struct {
	Timeout       time.Duration
	PollInterval  time.Duration
	BackoffFactor float64

	// Clock overrides the wall clock, for tests. Nil means real time.
	Clock Clock
}

// Predicate is one poll attempt. ok=false means "not yet satisfied" and the
// poller will retry; a non-nil error is terminal and propagates immediately
// without further attempts.
type Predicate[T any] func(ctx context.Context) (T, bool, error)

// TimeoutError reports an exhausted wait along with what was being waited
// for and how long the poller tried.
type TimeoutError struct {
	Description string
	Timeout     time.Duration
	Attempts    int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s (%d attempts): %s", e.Timeout, e.Attempts, e.Description)
}

// Clock abstracts time for the poller. Sleep must honor ctx cancellation.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s Spec) normalized() Spec {
	// A zero poll interval would spin in a tight loop; fold it to the
	// default instead of trusting the caller.
	if s.PollInterval <= 0 {
		s.PollInterval = DefaultPollInterval
	}
	if s.BackoffFactor <= 0 {
		s.BackoffFactor = DefaultBackoffFactor
	}
	if s.Clock == nil {
		s.Clock = systemClock{}
	}
	return s
}

// Until polls pred until it reports satisfied, the spec's timeout elapses,
// or the context is cancelled. Between attempts it sleeps the current poll
// interval and then multiplies it by the backoff factor.
//
// A spec timeout of exactly zero evaluates pred once and never sleeps; the
// unsatisfied result is still a *TimeoutError so callers can distinguish
// "probe said no" from a terminal predicate failure.
func Until[T any](ctx context.Context, spec Spec, description string, pred Predicate[T]) (T, error) {
	var zero T
	spec = spec.normalized()

	interval := spec.PollInterval
	deadline := spec.Clock.Now().Add(spec.Timeout)
	attempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		attempts++
		value, ok, err := pred(ctx)
		if err != nil {
			return zero, err
		}
		if ok {
			return value, nil
		}

		if spec.Timeout == 0 {
			return zero, &TimeoutError{Description: description, Timeout: 0, Attempts: attempts}
		}

		if err := spec.Clock.Sleep(ctx, interval); err != nil {
			return zero, err
		}
		interval = time.Duration(float64(interval) * spec.BackoffFactor)

		if spec.Clock.Now().After(deadline) {
			return zero, &TimeoutError{Description: description, Timeout: spec.Timeout, Attempts: attempts}
		}
	}
}
