// File: cmd/helpers_test.go
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/config"
	"github.com/xkilldash9x/uidriver/internal/driver"
	"github.com/xkilldash9x/uidriver/internal/observability"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// testConfig keeps waits short so a miss resolves in well under a second.
const testConfig = `
logger:
  level: fatal
driver:
  poll_interval: 10ms
  element_timeout: 60ms
  vanish_timeout: 60ms
  text_vanish_timeout: 60ms
  equal_timeout: 60ms
  vanish_probe: 20ms
gesture:
  move_delay: 0s
  tap_hold: 0s
`

// fakeBackend is an in-memory page.
type fakeBackend struct {
	mu      sync.Mutex
	tree    []uitree.Element
	clicked []uitree.Element
	frames  int
	closed  bool

	// onClick, when set, runs after every primary action with the lock held.
	onClick func(f *fakeBackend)
}

var _ driver.Backend = (*fakeBackend)(nil)

func (f *fakeBackend) EnumerateElements(context.Context) (uitree.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uitree.NewSnapshot(time.Now(), f.tree), nil
}

func (f *fakeBackend) PerformPrimaryAction(_ context.Context, el uitree.Element) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicked = append(f.clicked, el)
	if f.onClick != nil {
		f.onClick(f)
	}
	return nil
}

func (f *fakeBackend) SetCheckedState(context.Context, uitree.Element, bool) error { return nil }

func (f *fakeBackend) ScrollOnePage(context.Context, schemas.Direction) (bool, error) {
	return false, nil
}

func (f *fakeBackend) ScreenSize(context.Context) (schemas.Size, error) {
	return schemas.Size{Width: 400, Height: 800}, nil
}

func (f *fakeBackend) DispatchPointerFrame(context.Context, schemas.PointerFrame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	return nil
}

func (f *fakeBackend) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func (f *fakeBackend) clicks() []uitree.Element {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uitree.Element(nil), f.clicked...)
}

// useBackend routes every command of the test to backend.
func useBackend(t *testing.T, backend *fakeBackend) {
	t.Helper()
	orig := backendFactory
	backendFactory = func(context.Context, config.Interface, *zap.Logger) (driver.Backend, func(), error) {
		return backend, func() { backend.closed = true }, nil
	}
	t.Cleanup(func() { backendFactory = orig })
}

func failBackend(t *testing.T, err error) {
	t.Helper()
	orig := backendFactory
	backendFactory = func(context.Context, config.Interface, *zap.Logger) (driver.Backend, func(), error) {
		return nil, nil, err
	}
	t.Cleanup(func() { backendFactory = orig })
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs a fresh command tree against the short-timeout test config.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", writeFile(t, "uidriver.yaml", testConfig)}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

var errBoom = errors.New("chrome failed to start")
