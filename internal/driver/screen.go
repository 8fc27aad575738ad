// internal/driver/screen.go
package driver

import (
	"context"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/gesture"
)

// ScreenSize reports the display size.
func (d *Driver) ScreenSize(ctx context.Context) (schemas.Size, error) {
	size, err := d.backend.ScreenSize(ctx)
	if err != nil {
		return schemas.Size{}, collaboratorErr("screen size", err)
	}
	return size, nil
}

// quarterPoints returns the point a quarter of the screen in from the edge
// named by dir, and the point mirrored across the centre.
func quarterPoints(size schemas.Size, dir schemas.Direction) (near, far gesture.Point, ok bool) {
	w, h := size.Width, size.Height
	switch dir {
	case schemas.DirectionRight:
		return gesture.Pt(w-w/4, h/2), gesture.Pt(w/4, h/2), true
	case schemas.DirectionLeft:
		return gesture.Pt(w/4, h/2), gesture.Pt(w-w/4, h/2), true
	case schemas.DirectionUp:
		return gesture.Pt(w/2, h/4), gesture.Pt(w/2, h-h/4), true
	case schemas.DirectionDown:
		return gesture.Pt(w/2, h-h/4), gesture.Pt(w/2, h/4), true
	}
	return gesture.Point{}, gesture.Point{}, false
}

// ClickOnScreen taps the screen a quarter of the way in from the edge named by dir.
func (d *Driver) ClickOnScreen(ctx context.Context, dir schemas.Direction) error {
	size, err := d.ScreenSize(ctx)
	if err != nil {
		return err
	}
	at, _, ok := quarterPoints(size, dir)
	if !ok {
		return assertionf("click on screen", "unknown direction %q", dir)
	}
	return gestureErr("click on screen", d.gestures.Tap(ctx, at))
}

// DragScreen drags a single pointer across the middle half of the screen
// toward dir. steps < 1 selects the configured drag steps.
func (d *Driver) DragScreen(ctx context.Context, dir schemas.Direction, steps int) error {
	size, err := d.ScreenSize(ctx)
	if err != nil {
		return err
	}
	to, from, ok := quarterPoints(size, dir)
	if !ok {
		return assertionf("drag screen", "unknown direction %q", dir)
	}
	return gestureErr("drag screen", d.gestures.Drag(ctx, from, to, steps))
}

// Zoom moves two pointers from start to end in ten undelayed steps.
func (d *Driver) Zoom(ctx context.Context, start, end [2]gesture.Point) error {
	return gestureErr("zoom", d.gestures.Zoom(ctx, start, end))
}

// Drag moves one pointer from one point to another.
func (d *Driver) Drag(ctx context.Context, from, to gesture.Point, steps int) error {
	return gestureErr("drag", d.gestures.Drag(ctx, from, to, steps))
}

// Tap presses and releases one pointer.
func (d *Driver) Tap(ctx context.Context, at gesture.Point) error {
	return gestureErr("tap", d.gestures.Tap(ctx, at))
}

// Synthesize runs an arbitrary multi-pointer gesture.
func (d *Driver) Synthesize(ctx context.Context, spec gesture.Spec) error {
	return gestureErr("gesture", d.gestures.Synthesize(ctx, spec))
}

// ToScreenX converts a fraction of the screen width to pixels.
func (d *Driver) ToScreenX(ctx context.Context, fraction float64) (float64, error) {
	size, err := d.ScreenSize(ctx)
	return size.Width * fraction, err
}

// ToScreenY converts a fraction of the screen height to pixels.
func (d *Driver) ToScreenY(ctx context.Context, fraction float64) (float64, error) {
	size, err := d.ScreenSize(ctx)
	return size.Height * fraction, err
}

// ToPercentX converts a pixel x coordinate to a fraction of the screen width.
func (d *Driver) ToPercentX(ctx context.Context, x float64) (float64, error) {
	size, err := d.ScreenSize(ctx)
	if err != nil || size.Width == 0 {
		return 0, err
	}
	return x / size.Width, nil
}

// ToPercentY converts a pixel y coordinate to a fraction of the screen height.
func (d *Driver) ToPercentY(ctx context.Context, y float64) (float64, error) {
	size, err := d.ScreenSize(ctx)
	if err != nil || size.Height == 0 {
		return 0, err
	}
	return y / size.Height, nil
}
