// FILE: ./internal/gesture/mocks_test.go
package gesture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xkilldash9x/uidriver/api/schemas"
)

// mockExecutor implements Executor for testing, recording every frame and sleep.
type mockExecutor struct {
	t              *testing.T
	frames         []schemas.PointerFrame
	frameCtxs      []context.Context
	sleepDurations []time.Duration
	returnErr      error
	mu             sync.Mutex

	// failOnCall makes the n-th dispatch (1 based) and later ones fail with
	// returnErr. Zero means every dispatch fails when returnErr is set.
	failOnCall int
	callCount  int

	// If set, these replace the default behavior. The override can call the
	// corresponding Default* method if the recording is still required.
	MockDispatchPointerFrame func(ctx context.Context, frame schemas.PointerFrame) error
	MockSleep                func(ctx context.Context, d time.Duration) error
}

func newMockExecutor(t *testing.T) *mockExecutor {
	return &mockExecutor{t: t}
}

func (m *mockExecutor) DispatchPointerFrame(ctx context.Context, frame schemas.PointerFrame) error {
	if m.MockDispatchPointerFrame != nil {
		return m.MockDispatchPointerFrame(ctx, frame)
	}
	return m.DefaultDispatchPointerFrame(ctx, frame)
}

// DefaultDispatchPointerFrame always records the frame first, so cleanup
// frames sent after a failure are visible to the test.
func (m *mockExecutor) DefaultDispatchPointerFrame(ctx context.Context, frame schemas.PointerFrame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames = append(m.frames, frame)
	m.frameCtxs = append(m.frameCtxs, ctx)
	m.callCount++

	if m.returnErr != nil && (m.failOnCall == 0 || m.callCount == m.failOnCall) {
		return m.returnErr
	}
	if ctx.Err() != nil && ctx != context.Background() {
		return ctx.Err()
	}
	return nil
}

func (m *mockExecutor) Sleep(ctx context.Context, d time.Duration) error {
	if m.MockSleep != nil {
		return m.MockSleep(ctx, d)
	}
	return m.DefaultSleep(ctx, d)
}

func (m *mockExecutor) DefaultSleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil && ctx != context.Background() {
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sleepDurations = append(m.sleepDurations, d)
	return nil
}

func (m *mockExecutor) recordedFrames() []schemas.PointerFrame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]schemas.PointerFrame(nil), m.frames...)
}

func (m *mockExecutor) phases() []schemas.PointerPhase {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]schemas.PointerPhase, len(m.frames))
	for i, f := range m.frames {
		out[i] = f.Phase
	}
	return out
}
