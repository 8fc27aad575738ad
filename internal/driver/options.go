// internal/driver/options.go
package driver

import (
	"time"

	"github.com/xkilldash9x/uidriver/internal/poller"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// waitOptions is resolved per call from the operation's defaults and the
// caller's overrides.
type waitOptions struct {
	timeout     time.Duration
	scroll      bool
	onlyVisible bool
	mode        uitree.MatchMode
	index       int
}

// WaitOption overrides one default of a wait, find or click operation.
type WaitOption func(*waitOptions)

// WithTimeout sets the wait timeout.
func WithTimeout(d time.Duration) WaitOption {
	return func(o *waitOptions) { o.timeout = d }
}

// WithScroll enables or disables scrolling one page after each miss.
func WithScroll(scroll bool) WaitOption {
	return func(o *waitOptions) { o.scroll = scroll }
}

// WithOnlyVisible restricts matching to visible elements.
func WithOnlyVisible(only bool) WaitOption {
	return func(o *waitOptions) { o.onlyVisible = only }
}

// WithMatchMode selects complete or substring identifier matching.
func WithMatchMode(m uitree.MatchMode) WaitOption {
	return func(o *waitOptions) { o.mode = m }
}

// WithIndex selects the n-th match (0 based).
func WithIndex(i int) WaitOption {
	return func(o *waitOptions) { o.index = i }
}

func resolve(base waitOptions, opts []WaitOption) waitOptions {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// Option configures a Driver at construction.
type Option func(*Driver)

// WithClock replaces the wall clock used by every wait.
func WithClock(c poller.Clock) Option {
	return func(d *Driver) { d.clock = c }
}
