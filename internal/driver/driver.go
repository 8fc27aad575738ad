// internal/driver/driver.go
package driver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/config"
	"github.com/xkilldash9x/uidriver/internal/gesture"
	"github.com/xkilldash9x/uidriver/internal/poller"
	"github.com/xkilldash9x/uidriver/internal/treediff"
	"github.com/xkilldash9x/uidriver/internal/uithread"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// Driver is the automation facade. It composes the matcher, the poller, the
// gesture synthesizer and the tree differ over a single Backend.
//
// Tree reads and UI mutations are marshaled onto one UI loop. Gestures are
// serialized by the synthesizer. Waits block the calling goroutine.
type Driver struct {
	cfg     config.DriverConfig
	backend Backend
	logger  *zap.Logger
	clock   poller.Clock

	loop     *uithread.Loop
	poller   *poller.Poller
	gestures *gesture.Synthesizer
	diff     *treediff.Engine

	snapshots singleflight.Group
}

// New builds a driver over backend. Close must be called to release the UI loop.
func New(cfg config.Interface, logger *zap.Logger, backend Backend, opts ...Option) (*Driver, error) {
	if cfg == nil {
		return nil, errors.New("driver: configuration cannot be nil")
	}
	if backend == nil {
		return nil, errors.New("driver: backend cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dc := cfg.Driver()
	if err := dc.Validate(); err != nil {
		return nil, fmt.Errorf("driver: invalid driver configuration: %w", err)
	}
	gc := cfg.Gesture()
	if err := gc.Validate(); err != nil {
		return nil, fmt.Errorf("driver: invalid gesture configuration: %w", err)
	}

	d := &Driver{
		cfg:     dc,
		backend: backend,
		logger:  logger.Named("driver"),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.loop = uithread.Start(d.logger)
	d.poller = poller.New(d.clock, d.logger)
	d.gestures = gesture.New(gc, d.logger, backend)
	d.diff = treediff.New(d.capture, d.logger)
	return d, nil
}

// Close stops the UI loop. Operations issued afterwards fail with uithread.ErrClosed.
func (d *Driver) Close() {
	d.loop.Close()
}

// Snapshot enumerates the displayed elements on the UI loop. Callers arriving
// while an enumeration is queued or running receive its result instead of
// queueing another one.
func (d *Driver) Snapshot(ctx context.Context) (uitree.Snapshot, error) {
	ch := d.snapshots.DoChan("snapshot", func() (interface{}, error) {
		return d.capture(ctx)
	})
	select {
	case <-ctx.Done():
		return uitree.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return uitree.Snapshot{}, res.Err
		}
		if res.Shared {
			d.logger.Debug("Snapshot shared with a concurrent caller.")
		}
		return res.Val.(uitree.Snapshot), nil
	}
}

// capture always runs its own enumeration. Change tracking uses it so an end
// snapshot is never one that started before the caller's last action.
func (d *Driver) capture(ctx context.Context) (uitree.Snapshot, error) {
	var snap uitree.Snapshot
	err := d.loop.Do(ctx, "enumerate", func(ctx context.Context) error {
		s, err := d.backend.EnumerateElements(ctx)
		if err != nil {
			return collaboratorErr("enumerate elements", err)
		}
		snap = s
		return nil
	})
	return snap, err
}

func (d *Driver) elements(ctx context.Context) ([]uitree.Element, error) {
	snap, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Elements, nil
}

func (d *Driver) perform(ctx context.Context, el uitree.Element) error {
	return d.loop.Do(ctx, "primary action", func(ctx context.Context) error {
		if err := d.backend.PerformPrimaryAction(ctx, el); err != nil {
			return collaboratorErr("primary action on "+uitree.Describe(el), err)
		}
		return nil
	})
}

func (d *Driver) scroll(ctx context.Context, dir schemas.Direction) (bool, error) {
	var moved bool
	err := d.loop.Do(ctx, "scroll", func(ctx context.Context) error {
		ok, err := d.backend.ScrollOnePage(ctx, dir)
		if err != nil {
			return collaboratorErr("scroll", err)
		}
		moved = ok
		return nil
	})
	return moved, err
}

var errNothingToScroll = errors.New("driver: nothing left to scroll")

// scrollHook returns the poller miss hook for the scroll flag. A failed or
// exhausted scroll is reported to the poller, which falls through to its sleep.
func (d *Driver) scrollHook(enabled bool) func(ctx context.Context) error {
	if !enabled {
		return nil
	}
	return func(ctx context.Context) error {
		moved, err := d.scroll(ctx, schemas.DirectionDown)
		if err != nil {
			return err
		}
		if !moved {
			return errNothingToScroll
		}
		return nil
	}
}

// gestureErr leaves validation and cancellation errors untouched and marks
// everything else as a backend failure.
func gestureErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gesture.ErrInvalidSpec) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("driver: %s: %w", op, err)
	}
	return collaboratorErr(op, err)
}
