// internal/gesture/synthesizer.go
package gesture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/config"
)

// Synthesizer drives computed pointer frames through an Executor.
type Synthesizer struct {
	// mu serializes gestures; two gestures must never interleave frames.
	mu       sync.Mutex
	executor Executor
	logger   *zap.Logger
	cfg      config.GestureConfig
	newID    func() string
}

var _ Controller = (*Synthesizer)(nil)

// New creates a synthesizer. cfg supplies drag and tap timing only.
func New(cfg config.GestureConfig, logger *zap.Logger, executor Executor) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DragSteps < 1 {
		cfg.DragSteps = 1
	}
	return &Synthesizer{
		executor: executor,
		logger:   logger.Named("gesture"),
		cfg:      cfg,
		newID:    uuid.NewString,
	}
}

// Synthesize emits one down frame, spec.Steps move frames and one up frame.
// It sleeps DownDelay after the down frame, MoveDelay after every move frame
// and UpDelay before the up frame; a zero delay skips the sleep entirely.
func (s *Synthesizer) Synthesize(ctx context.Context, spec Spec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synthesize(ctx, spec)
}

// Zoom is Synthesize with two pointers, ten steps and no delays.
func (s *Synthesizer) Zoom(ctx context.Context, start, end [2]Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synthesize(ctx, ZoomSpec(start, end))
}

// Drag moves a single pointer in a straight line. steps < 1 selects the
// configured default.
func (s *Synthesizer) Drag(ctx context.Context, from, to Point, steps int) error {
	if steps < 1 {
		steps = s.cfg.DragSteps
	}
	spec := Spec{
		PointerCount: 1,
		Start:        []Point{from},
		End:          []Point{to},
		Steps:        steps,
		DownDelay:    s.cfg.DownDelay,
		MoveDelay:    s.cfg.MoveDelay,
		UpDelay:      s.cfg.UpDelay,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synthesize(ctx, spec)
}

// Tap presses and releases a single pointer at one location.
func (s *Synthesizer) Tap(ctx context.Context, at Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	down := frame(id, schemas.PointerDown, 0, []Point{at})
	if err := s.executor.DispatchPointerFrame(ctx, down); err != nil {
		return fmt.Errorf("gesture: tap down failed: %w", err)
	}
	if err := s.pause(ctx, s.cfg.TapHold); err != nil {
		s.release(down)
		return err
	}
	if err := s.executor.DispatchPointerFrame(ctx, frame(id, schemas.PointerUp, 1, []Point{at})); err != nil {
		return fmt.Errorf("gesture: tap up failed: %w", err)
	}
	return nil
}

// synthesize assumes the caller holds the lock.
func (s *Synthesizer) synthesize(ctx context.Context, spec Spec) error {
	id := s.newID()
	frames, err := Frames(id, spec)
	if err != nil {
		return err
	}
	logger := s.logger.With(zap.String("gesture_id", id))
	logger.Debug("Synthesizing gesture.",
		zap.Int("pointers", spec.PointerCount),
		zap.Int("steps", spec.Steps),
	)

	down, moves, up := frames[0], frames[1:len(frames)-1], frames[len(frames)-1]

	if err := s.executor.DispatchPointerFrame(ctx, down); err != nil {
		return fmt.Errorf("gesture: dispatch down failed: %w", err)
	}
	last := down

	if err := s.pause(ctx, spec.DownDelay); err != nil {
		s.release(last)
		return err
	}

	for _, f := range moves {
		if err := s.executor.DispatchPointerFrame(ctx, f); err != nil {
			logger.Warn("Move dispatch failed, releasing pointers.", zap.Int("step", f.Step), zap.Error(err))
			s.release(last)
			return fmt.Errorf("gesture: dispatch move %d failed: %w", f.Step, err)
		}
		last = f
		if err := s.pause(ctx, spec.MoveDelay); err != nil {
			s.release(last)
			return err
		}
	}

	if err := s.pause(ctx, spec.UpDelay); err != nil {
		s.release(last)
		return err
	}

	if err := s.executor.DispatchPointerFrame(ctx, up); err != nil {
		return fmt.Errorf("gesture: dispatch up failed: %w", err)
	}
	return nil
}

func (s *Synthesizer) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return s.executor.Sleep(ctx, d)
}

// release lifts every pointer at its last known position so an aborted
// gesture does not leave the target with pointers held down. It runs on a
// background context because the operational one is usually what failed.
func (s *Synthesizer) release(last schemas.PointerFrame) {
	up := last
	up.Phase = schemas.PointerUp
	up.Step = last.Step + 1
	up.Pointers = append([]schemas.PointerPosition(nil), last.Pointers...)

	if err := s.executor.DispatchPointerFrame(context.Background(), up); err != nil {
		s.logger.Error("Failed to release pointers after aborted gesture.",
			zap.String("gesture_id", last.GestureID),
			zap.Error(err),
		)
	}
}
