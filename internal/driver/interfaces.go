// internal/driver/interfaces.go
package driver

import (
	"context"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/gesture"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// Provider enumerates the elements currently displayed.
type Provider interface {
	EnumerateElements(ctx context.Context) (uitree.Snapshot, error)
}

// Actuator performs UI mutations. The driver always calls it from the UI loop.
type Actuator interface {
	PerformPrimaryAction(ctx context.Context, el uitree.Element) error
	SetCheckedState(ctx context.Context, el uitree.Element, checked bool) error
}

// Scroller moves the scrollable viewport. A false result without an error
// means nothing could be scrolled.
type Scroller interface {
	ScrollOnePage(ctx context.Context, dir schemas.Direction) (bool, error)
}

// Screen reports the display size used by screen-relative operations.
type Screen interface {
	ScreenSize(ctx context.Context) (schemas.Size, error)
}

// Backend bundles every collaborator the driver depends on.
type Backend interface {
	Provider
	Actuator
	Scroller
	Screen
	gesture.Executor
}
