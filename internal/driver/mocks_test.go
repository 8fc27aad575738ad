// FILE: ./internal/driver/mocks_test.go
package driver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/uithread"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// mockBackend implements Backend over an in-memory element list. The tree
// can be swapped between calls through setTree or computed per enumeration
// through MockEnumerateElements.
type mockBackend struct {
	t  *testing.T
	mu sync.Mutex

	tree       []uitree.Element
	size       schemas.Size
	enumerated int

	clicked   []uitree.Element
	checked   map[uitree.Element]bool
	scrolls   int
	scrollOK  bool
	frames    []schemas.PointerFrame
	sleeps    []time.Duration
	returnErr error

	MockEnumerateElements func(ctx context.Context, call int) ([]uitree.Element, error)
	MockScrollOnePage     func(ctx context.Context, dir schemas.Direction) (bool, error)
}

var _ Backend = (*mockBackend)(nil)

func newMockBackend(t *testing.T, tree ...uitree.Element) *mockBackend {
	return &mockBackend{
		t:        t,
		tree:     tree,
		size:     schemas.Size{Width: 400, Height: 800},
		checked:  make(map[uitree.Element]bool),
		scrollOK: true,
	}
}

func (m *mockBackend) setTree(tree ...uitree.Element) {
	m.mu.Lock()
	m.tree = tree
	m.mu.Unlock()
}

func (m *mockBackend) requireOnLoop(ctx context.Context, op string) {
	if !uithread.OnLoop(ctx) {
		m.t.Errorf("%s was called off the UI loop", op)
	}
}

func (m *mockBackend) EnumerateElements(ctx context.Context) (uitree.Snapshot, error) {
	m.requireOnLoop(ctx, "EnumerateElements")
	m.mu.Lock()
	m.enumerated++
	call := m.enumerated
	tree := m.tree
	err := m.returnErr
	hook := m.MockEnumerateElements
	m.mu.Unlock()

	if hook != nil {
		var hookErr error
		tree, hookErr = hook(ctx, call)
		if hookErr != nil {
			return uitree.Snapshot{}, hookErr
		}
	}
	if err != nil {
		return uitree.Snapshot{}, err
	}
	return uitree.NewSnapshot(time.Now(), tree), nil
}

func (m *mockBackend) PerformPrimaryAction(ctx context.Context, el uitree.Element) error {
	m.requireOnLoop(ctx, "PerformPrimaryAction")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicked = append(m.clicked, el)
	return nil
}

func (m *mockBackend) SetCheckedState(ctx context.Context, el uitree.Element, checked bool) error {
	m.requireOnLoop(ctx, "SetCheckedState")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checked[el] = checked
	return nil
}

func (m *mockBackend) ScrollOnePage(ctx context.Context, dir schemas.Direction) (bool, error) {
	m.requireOnLoop(ctx, "ScrollOnePage")
	m.mu.Lock()
	m.scrolls++
	hook := m.MockScrollOnePage
	ok := m.scrollOK
	m.mu.Unlock()
	if hook != nil {
		return hook(ctx, dir)
	}
	return ok, nil
}

func (m *mockBackend) ScreenSize(ctx context.Context) (schemas.Size, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size, m.returnErr
}

func (m *mockBackend) DispatchPointerFrame(ctx context.Context, frame schemas.PointerFrame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, frame)
	return m.returnErr
}

func (m *mockBackend) Sleep(ctx context.Context, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleeps = append(m.sleeps, d)
	return ctx.Err()
}

func (m *mockBackend) clickedElements() []uitree.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uitree.Element(nil), m.clicked...)
}

func (m *mockBackend) scrollCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrolls
}

func (m *mockBackend) recordedFrames() []schemas.PointerFrame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schemas.PointerFrame(nil), m.frames...)
}
