// Package pollertest provides a virtual clock for deterministic wait tests.
package pollertest

import (
	"context"
	"sync"
	"time"
)

// FakeClock advances only when Sleep or Advance is called.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration

	// OnSleep, if set, runs after the clock has advanced for a sleep.
	OnSleep func(d time.Duration)
}

// NewFakeClock starts a virtual clock at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	hook := c.OnSleep
	c.mu.Unlock()

	if hook != nil {
		hook(d)
	}
	return nil
}

// Advance moves the clock forward without recording a sleep, simulating
// time spent inside an evaluation.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Sleeps returns a copy of every recorded sleep duration.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// Elapsed is the total virtual time since start.
func (c *FakeClock) Elapsed(start time.Time) time.Duration {
	return c.Now().Sub(start)
}
