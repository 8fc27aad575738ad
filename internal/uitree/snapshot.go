// internal/uitree/snapshot.go
package uitree

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Snapshot is an ordered capture of all displayed elements at one instant.
// Ordering is not stable across redraws; compare elements with Equal only.
type Snapshot struct {
	ID         string
	CapturedAt time.Time
	Elements   []Element
}

// NewSnapshot stamps a capture with a time sortable ID.
func NewSnapshot(at time.Time, elements []Element) Snapshot {
	id := ulid.MustNew(ulid.Timestamp(at), rand.Reader)
	return Snapshot{ID: id.String(), CapturedAt: at, Elements: elements}
}

// Len returns the number of captured elements.
func (s Snapshot) Len() int { return len(s.Elements) }

// Contains reports whether any captured element equals el.
func (s Snapshot) Contains(el Element) bool {
	for _, e := range s.Elements {
		if e.Equal(el) {
			return true
		}
	}
	return false
}

// IndexOf returns the position of el among the elements sharing its kind, or -1.
func (s Snapshot) IndexOf(el Element) int {
	i := 0
	for _, e := range s.Elements {
		if e.Kind() != el.Kind() {
			continue
		}
		if e.Equal(el) {
			return i
		}
		i++
	}
	return -1
}

// OfKind returns the elements of the given kind in snapshot order.
func (s Snapshot) OfKind(k Kind) []Element {
	var out []Element
	for _, e := range s.Elements {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}
