// internal/treediff/treediff.go
package treediff

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// SnapshotFunc captures the currently displayed elements.
type SnapshotFunc func(ctx context.Context) (uitree.Snapshot, error)

// Diff returns the elements of b that have no equal in a, preserving b's order.
// Equality is pairwise through Element.Equal; no hashing is assumed, so the
// cost is O(len(a)*len(b)).
func Diff(a, b []uitree.Element) []uitree.Element {
	var added []uitree.Element
outer:
	for _, eb := range b {
		if eb == nil {
			continue
		}
		for _, ea := range a {
			if ea != nil && eb.Equal(ea) {
				continue outer
			}
		}
		added = append(added, eb)
	}
	return added
}

// Engine is the two phase begin/end snapshot differ.
type Engine struct {
	capture SnapshotFunc
	logger  *zap.Logger

	mu       sync.Mutex
	baseline *uitree.Snapshot
}

// New creates an engine that captures snapshots through capture.
func New(capture SnapshotFunc, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{capture: capture, logger: logger.Named("treediff")}
}

// Begin captures and retains the baseline snapshot, replacing any previous one.
func (e *Engine) Begin(ctx context.Context) error {
	snap, err := e.capture(ctx)
	if err != nil {
		return fmt.Errorf("treediff: begin capture failed: %w", err)
	}

	e.mu.Lock()
	e.baseline = &snap
	e.mu.Unlock()

	e.logger.Debug("Baseline captured.", zap.String("snapshot_id", snap.ID), zap.Int("elements", snap.Len()))
	return nil
}

// End captures a second snapshot and returns the elements absent from the
// baseline. Without a prior Begin it returns (nil, false, nil).
// The baseline is kept, so End may be called repeatedly against it.
func (e *Engine) End(ctx context.Context) ([]uitree.Element, bool, error) {
	e.mu.Lock()
	base := e.baseline
	e.mu.Unlock()

	if base == nil {
		e.logger.Debug("End called without Begin; nothing to compare.")
		return nil, false, nil
	}

	snap, err := e.capture(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("treediff: end capture failed: %w", err)
	}

	added := Diff(base.Elements, snap.Elements)
	e.logger.Debug("Snapshot diff computed.",
		zap.String("baseline_id", base.ID),
		zap.String("snapshot_id", snap.ID),
		zap.Int("added", len(added)),
	)
	return added, true, nil
}

// Active reports whether a baseline is held.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseline != nil
}

// Reset discards the baseline.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.baseline = nil
	e.mu.Unlock()
}
