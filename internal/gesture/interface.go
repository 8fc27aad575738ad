// internal/gesture/interface.go
package gesture

import (
	"context"
	"time"

	"github.com/xkilldash9x/uidriver/api/schemas"
)

// Executor is the low-level sink the synthesizer drives.
type Executor interface {
	// DispatchPointerFrame delivers one down, move or up frame.
	DispatchPointerFrame(ctx context.Context, frame schemas.PointerFrame) error
	// Sleep blocks for d, returning early with an error if ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// Controller is the gesture surface the facade depends on.
type Controller interface {
	Synthesize(ctx context.Context, spec Spec) error
	Zoom(ctx context.Context, start, end [2]Point) error
	Drag(ctx context.Context, from, to Point, steps int) error
	Tap(ctx context.Context, at Point) error
}
