// internal/uitree/element.go
package uitree

import "fmt"

// Kind classifies an element for type-filtered queries.
type Kind string

const (
	KindGeneric    Kind = "generic"
	KindText       Kind = "text"
	KindCheckable  Kind = "checkable"
	KindTabBar     Kind = "tab_bar"
	KindList       Kind = "list"
	KindDatePicker Kind = "date_picker"
	KindTimePicker Kind = "time_picker"
	KindScroll     Kind = "scroll"
)

// ParseKind maps a provider supplied kind name onto a Kind, defaulting to KindGeneric.
func ParseKind(s string) Kind {
	switch k := Kind(s); k {
	case KindText, KindCheckable, KindTabBar, KindList, KindDatePicker, KindTimePicker, KindScroll:
		return k
	}
	return KindGeneric
}

// Rect is an element's on-screen bounding box.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.0f,%.0f %.0fx%.0f]", r.X, r.Y, r.Width, r.Height)
}

// Element is a transient handle onto one node of the live UI tree.
// Implementations are supplied by the provider; the core never creates them.
type Element interface {
	// Identifier returns the raw identifier and false when the node has none.
	Identifier() (string, bool)
	Text() string
	Visible() bool
	Kind() Kind
	Bounds() Rect
	// Equal reports whether both handles denote the same live node.
	// Providers may hand out a fresh wrapper per snapshot, so pointer
	// comparison is not a substitute.
	Equal(other Element) bool
}

// Checkable is implemented by elements that carry a checked state.
type Checkable interface {
	Element
	Checked() bool
}

// Container is implemented by elements whose children are addressable,
// such as tab bars and lists.
type Container interface {
	Element
	Children() []Element
}

// Describe renders a short human readable label for logs.
func Describe(el Element) string {
	if el == nil {
		return "<nil>"
	}
	id, ok := el.Identifier()
	if !ok {
		id = "-"
	}
	return fmt.Sprintf("%s(id=%s text=%q %s)", el.Kind(), id, el.Text(), el.Bounds())
}
