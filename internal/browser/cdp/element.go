// internal/browser/cdp/element.go
package cdp

import (
	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// element wraps one record of a page enumeration. Children resolve through
// the snapshot's shared index, so they are only valid within that snapshot.
type element struct {
	rec   schemas.ElementRecord
	index map[int64]*element
}

var (
	_ uitree.Checkable = (*element)(nil)
	_ uitree.Container = (*element)(nil)
)

func (e *element) Identifier() (string, bool) { return e.rec.Identifier, e.rec.HasID }
func (e *element) Text() string               { return e.rec.Text }
func (e *element) Visible() bool              { return e.rec.Visible }
func (e *element) Kind() uitree.Kind          { return uitree.ParseKind(e.rec.Kind) }
func (e *element) Checked() bool              { return e.rec.Checked }

func (e *element) Bounds() uitree.Rect {
	return uitree.Rect{X: e.rec.X, Y: e.rec.Y, Width: e.rec.Width, Height: e.rec.Height}
}

func (e *element) Children() []uitree.Element {
	out := make([]uitree.Element, 0, len(e.rec.Children))
	for _, k := range e.rec.Children {
		if c, ok := e.index[k]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Equal compares page keys, which are stable for a node's lifetime.
func (e *element) Equal(other uitree.Element) bool {
	o, ok := other.(*element)
	return ok && o != nil && o.rec.Key == e.rec.Key
}

// Key returns the page-assigned node key.
func (e *element) Key() int64 { return e.rec.Key }

// buildElements wraps records in document order.
func buildElements(recs []schemas.ElementRecord) []uitree.Element {
	index := make(map[int64]*element, len(recs))
	out := make([]uitree.Element, len(recs))
	for i := range recs {
		el := &element{rec: recs[i], index: index}
		index[recs[i].Key] = el
		out[i] = el
	}
	return out
}

// Record converts any element into its serializable form. Children are only
// carried for elements produced by this package.
func Record(el uitree.Element) schemas.ElementRecord {
	if e, ok := el.(*element); ok {
		return e.rec
	}
	id, has := el.Identifier()
	b := el.Bounds()
	rec := schemas.ElementRecord{
		Identifier: id,
		HasID:      has,
		Text:       el.Text(),
		Visible:    el.Visible(),
		Kind:       string(el.Kind()),
		X:          b.X,
		Y:          b.Y,
		Width:      b.Width,
		Height:     b.Height,
	}
	if c, ok := el.(uitree.Checkable); ok {
		rec.Checked = c.Checked()
	}
	return rec
}
