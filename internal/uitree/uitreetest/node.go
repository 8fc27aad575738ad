// Package uitreetest provides in-memory elements for tests.
package uitreetest

import "github.com/xkilldash9x/uidriver/internal/uitree"

// Node is a plain element whose identity is its Key. Two Node values with the
// same Key are Equal even when they are distinct allocations, which mirrors
// providers that rewrap live nodes on every snapshot.
type Node struct {
	Key       int
	ID        string
	HasID     bool
	Label     string
	Hidden    bool
	NodeKind  uitree.Kind
	Rect      uitree.Rect
	IsChecked bool
	Kids      []uitree.Element
}

var (
	_ uitree.Checkable = (*Node)(nil)
	_ uitree.Container = (*Node)(nil)
)

// WithID returns a visible generic node carrying an identifier.
func WithID(key int, id string) *Node {
	return &Node{Key: key, ID: id, HasID: true, NodeKind: uitree.KindGeneric}
}

// WithText returns a visible text node without an identifier.
func WithText(key int, text string) *Node {
	return &Node{Key: key, Label: text, NodeKind: uitree.KindText}
}

// Clone returns a new wrapper around the same logical node.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// A nil *Node behaves like a detached element: hidden, without identifier or text.

func (n *Node) Identifier() (string, bool) {
	if n == nil {
		return "", false
	}
	return n.ID, n.HasID
}

func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return n.Label
}

func (n *Node) Visible() bool { return n != nil && !n.Hidden }

func (n *Node) Bounds() uitree.Rect {
	if n == nil {
		return uitree.Rect{}
	}
	return n.Rect
}

func (n *Node) Checked() bool { return n != nil && n.IsChecked }

func (n *Node) Children() []uitree.Element {
	if n == nil {
		return nil
	}
	return n.Kids
}

func (n *Node) Kind() uitree.Kind {
	if n == nil || n.NodeKind == "" {
		return uitree.KindGeneric
	}
	return n.NodeKind
}

func (n *Node) Equal(other uitree.Element) bool {
	o, ok := other.(*Node)
	return ok && n != nil && o != nil && o.Key == n.Key
}

// Elements converts nodes into the interface slice a Snapshot carries. A nil
// node becomes a nil interface slot, the way providers report detached nodes.
func Elements(nodes ...*Node) []uitree.Element {
	out := make([]uitree.Element, len(nodes))
	for i, n := range nodes {
		if n == nil {
			continue
		}
		out[i] = n
	}
	return out
}
