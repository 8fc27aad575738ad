// internal/gesture/spec.go
package gesture

import (
	"errors"
	"fmt"
	"time"

	"github.com/xkilldash9x/uidriver/api/schemas"
)

const (
	// ZoomPointers and ZoomSteps fix the shape of a zoom gesture.
	ZoomPointers = 2
	ZoomSteps    = 10
)

// ErrInvalidSpec is returned for specs that violate the gesture invariants.
var ErrInvalidSpec = errors.New("gesture: invalid spec")

// Spec describes a multi-pointer gesture between two configurations.
type Spec struct {
	PointerCount int
	Start        []Point
	End          []Point
	Steps        int

	DownDelay time.Duration
	MoveDelay time.Duration
	UpDelay   time.Duration
}

// Validate checks the pointer count, coordinate arrays, steps and delays.
func (s Spec) Validate() error {
	switch {
	case s.PointerCount < 1:
		return fmt.Errorf("%w: pointer count %d < 1", ErrInvalidSpec, s.PointerCount)
	case len(s.Start) != s.PointerCount:
		return fmt.Errorf("%w: %d start coordinates for %d pointers", ErrInvalidSpec, len(s.Start), s.PointerCount)
	case len(s.End) != s.PointerCount:
		return fmt.Errorf("%w: %d end coordinates for %d pointers", ErrInvalidSpec, len(s.End), s.PointerCount)
	case s.Steps < 1:
		return fmt.Errorf("%w: steps %d < 1", ErrInvalidSpec, s.Steps)
	case s.DownDelay < 0 || s.MoveDelay < 0 || s.UpDelay < 0:
		return fmt.Errorf("%w: negative delay", ErrInvalidSpec)
	}
	return nil
}

// ZoomSpec is the two pointer, ten step, zero delay gesture used by Zoom.
func ZoomSpec(start, end [2]Point) Spec {
	return Spec{
		PointerCount: ZoomPointers,
		Start:        start[:],
		End:          end[:],
		Steps:        ZoomSteps,
	}
}

// Frames computes the full frame sequence for spec: one down frame at the
// start coordinates, Steps move frames, and one up frame at the end
// coordinates. The same spec always yields the same sequence.
func Frames(gestureID string, spec Spec) ([]schemas.PointerFrame, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	frames := make([]schemas.PointerFrame, 0, spec.Steps+2)
	frames = append(frames, frame(gestureID, schemas.PointerDown, 0, spec.Start))

	positions := make([]Point, spec.PointerCount)
	for i := 1; i <= spec.Steps; i++ {
		for p := range positions {
			positions[p] = spec.Start[p].Step(spec.End[p], i, spec.Steps)
		}
		frames = append(frames, frame(gestureID, schemas.PointerMove, i, positions))
	}

	frames = append(frames, frame(gestureID, schemas.PointerUp, spec.Steps+1, spec.End))
	return frames, nil
}

func frame(gestureID string, phase schemas.PointerPhase, step int, at []Point) schemas.PointerFrame {
	pointers := make([]schemas.PointerPosition, len(at))
	for id, p := range at {
		pointers[id] = schemas.PointerPosition{ID: id, X: p.X, Y: p.Y}
	}
	return schemas.PointerFrame{GestureID: gestureID, Phase: phase, Step: step, Pointers: pointers}
}
