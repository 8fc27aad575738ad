// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidSpec is returned when a Spec cannot be polled.
var ErrInvalidSpec = errors.New("poller: invalid spec")

// Predicate is evaluated once per tick. An error aborts the wait.
type Predicate func(ctx context.Context) (bool, error)

// Spec describes a single wait. It carries no state across calls.
type Spec struct {
	Timeout  time.Duration
	Interval time.Duration
	// Predicate is the watched condition.
	Predicate Predicate
	// OnMiss, if set, runs after every unsatisfied evaluation and before the
	// sleep. Its failure means no progress was possible this tick; the poller
	// logs it and sleeps as usual.
	OnMiss func(ctx context.Context) error
}

func (s Spec) validate() error {
	switch {
	case s.Predicate == nil:
		return fmt.Errorf("%w: predicate is nil", ErrInvalidSpec)
	case s.Timeout < 0:
		return fmt.Errorf("%w: negative timeout %v", ErrInvalidSpec, s.Timeout)
	case s.Interval <= 0:
		return fmt.Errorf("%w: interval must be positive, got %v", ErrInvalidSpec, s.Interval)
	}
	return nil
}

// Poller runs fixed interval waits against a clock.
type Poller struct {
	clock  Clock
	logger *zap.Logger
}

// New creates a poller. A nil clock selects the wall clock.
func New(clock Clock, logger *zap.Logger) *Poller {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{clock: clock, logger: logger.Named("poller")}
}

// Until evaluates the predicate until it returns true or the timeout passes.
//
// The deadline is checked before every evaluation: nothing is evaluated once
// the deadline has strictly passed, but an evaluation landing exactly on the
// boundary is allowed. The final sleep is shortened to the time remaining, so
// an always-false wait returns within one interval after the timeout.
func (p *Poller) Until(ctx context.Context, spec Spec) (bool, error) {
	if err := spec.validate(); err != nil {
		return false, err
	}

	deadline := p.clock.Now().Add(spec.Timeout)
	for attempt := 1; ; attempt++ {
		if p.clock.Now().After(deadline) {
			p.logger.Debug("Wait timed out.", zap.Duration("timeout", spec.Timeout), zap.Int("attempts", attempt-1))
			return false, nil
		}

		ok, err := spec.Predicate(ctx)
		if err != nil {
			return false, fmt.Errorf("poller: predicate failed on attempt %d: %w", attempt, err)
		}
		if ok {
			return true, nil
		}

		if spec.OnMiss != nil {
			if err := spec.OnMiss(ctx); err != nil {
				p.logger.Debug("Miss hook made no progress.", zap.Int("attempt", attempt), zap.Error(err))
			}
		}

		remaining := deadline.Sub(p.clock.Now())
		if remaining <= 0 {
			return false, nil
		}
		wait := spec.Interval
		if remaining < wait {
			wait = remaining
		}
		if err := p.clock.Sleep(ctx, wait); err != nil {
			return false, err
		}
	}
}

// UntilNot waits for the predicate to become false, the shape used by
// vanish-style waits. It returns true as soon as the condition disappears.
func (p *Poller) UntilNot(ctx context.Context, spec Spec) (bool, error) {
	inner := spec.Predicate
	if inner != nil {
		spec.Predicate = func(ctx context.Context) (bool, error) {
			ok, err := inner(ctx)
			return !ok, err
		}
	}
	return p.Until(ctx, spec)
}

// Until runs spec on the wall clock without logging.
func Until(ctx context.Context, spec Spec) (bool, error) {
	return New(nil, nil).Until(ctx, spec)
}

// UntilNot runs spec on the wall clock without logging.
func UntilNot(ctx context.Context, spec Spec) (bool, error) {
	return New(nil, nil).UntilNot(ctx, spec)
}
