package scenario

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/driver"
	"github.com/xkilldash9x/uidriver/internal/gesture"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAutomator records calls and answers from fixed tables.
type fakeAutomator struct {
	mu      sync.Mutex
	calls   []string
	shown   map[string]bool
	missing map[string]bool
	fail    map[string]error
	waitOpt int
	zoomed  [][2]gesture.Point
	swiped  []schemas.Direction
}

func newFake() *fakeAutomator {
	return &fakeAutomator{shown: map[string]bool{}, missing: map[string]bool{}, fail: map[string]error{}}
}

func (f *fakeAutomator) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.fail[call]
}

func (f *fakeAutomator) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAutomator) WaitForElementByID(_ context.Context, id string, opts ...driver.WaitOption) (bool, error) {
	f.waitOpt = len(opts)
	return !f.missing[id], f.record("wait:" + id)
}

func (f *fakeAutomator) WaitForElementVanishByID(_ context.Context, id string, _ ...driver.WaitOption) (bool, error) {
	return f.missing[id], f.record("vanish:" + id)
}

func (f *fakeAutomator) WaitForText(_ context.Context, text string, _ int, _ ...driver.WaitOption) (bool, error) {
	return !f.missing[text], f.record("wait_text:" + text)
}

func (f *fakeAutomator) WaitForTextVanish(_ context.Context, text string, _ int, _ ...driver.WaitOption) (bool, error) {
	return f.missing[text], f.record("text_vanish:" + text)
}

func (f *fakeAutomator) IsIDShown(_ context.Context, id string) (bool, error) {
	err := f.record("shown:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shown[id], err
}

func (f *fakeAutomator) ClickByID(_ context.Context, id string, _ ...driver.WaitOption) (bool, error) {
	return !f.missing[id], f.record("click:" + id)
}

func (f *fakeAutomator) ClickOnText(_ context.Context, text string, _ ...driver.WaitOption) (bool, error) {
	return !f.missing[text], f.record("click_text:" + text)
}

func (f *fakeAutomator) ClickOnTab(_ context.Context, _, _ int) error { return f.record("tab") }

func (f *fakeAutomator) SetCheckedState(_ context.Context, _ int, _ bool) error {
	return f.record("check")
}

func (f *fakeAutomator) Zoom(_ context.Context, start, end [2]gesture.Point) error {
	f.zoomed = append(f.zoomed, start, end)
	return f.record("zoom")
}

func (f *fakeAutomator) Drag(_ context.Context, _, _ gesture.Point, _ int) error {
	return f.record("drag")
}

func (f *fakeAutomator) DragScreen(_ context.Context, dir schemas.Direction, _ int) error {
	f.swiped = append(f.swiped, dir)
	return f.record("swipe")
}

func (f *fakeAutomator) ClickOnScreen(_ context.Context, _ schemas.Direction) error {
	return f.record("tap_screen")
}

func (f *fakeAutomator) BeginNewElements(_ context.Context) error { return f.record("begin_diff") }

func (f *fakeAutomator) EndNewElements(_ context.Context) ([]uitree.Element, bool, error) {
	return nil, !f.missing["diff"], f.record("end_diff")
}

func newTestRunner(t *testing.T, auto Automator) (*Runner, *[]time.Duration) {
	t.Helper()
	r := NewRunner(auto, zaptest.NewLogger(t))
	var slept []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return r, &slept
}

func mustLoad(t *testing.T, doc string) *Scenario {
	t.Helper()
	sc, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	return sc
}

func TestRun_AllStepsPass(t *testing.T) {
	fake := newFake()
	fake.shown["host:id/home"] = true
	fake.shown["host:id/menu"] = true
	fake.missing["Loading"] = true

	r, slept := newTestRunner(t, fake)
	report, err := r.Run(context.Background(), mustLoad(t, loginFlow))
	require.NoError(t, err)

	assert.True(t, report.Passed)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "login", report.Scenario)
	require.Len(t, report.Steps, 7)
	for i, st := range report.Steps {
		assert.Equal(t, i+1, st.Index)
		assert.True(t, st.OK, "step %d", st.Index)
		assert.Empty(t, st.Error)
	}

	assert.Equal(t, 2, fake.waitOpt, "timeout and scroll are forwarded")
	assert.Equal(t, []schemas.Direction{schemas.DirectionUp}, fake.swiped)
	require.Len(t, fake.zoomed, 2)
	assert.Equal(t, gesture.Pt(200, 200), fake.zoomed[0][1])
	assert.Equal(t, gesture.Pt(50, 50), fake.zoomed[1][0])
	assert.Equal(t, []time.Duration{150 * time.Millisecond}, *slept)
}

func TestRun_RequiredMissStops(t *testing.T) {
	fake := newFake()
	fake.missing["host:id/username"] = true

	r, _ := newTestRunner(t, fake)
	report, err := r.Run(context.Background(), mustLoad(t, loginFlow))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFailed)

	assert.False(t, report.Passed)
	require.Len(t, report.Steps, 1)
	assert.False(t, report.Steps[0].OK)
	assert.Equal(t, "condition not met", report.Steps[0].Error)
	assert.Equal(t, []string{"wait:host:id/username"}, fake.recorded())
}

func TestRun_OptionalMissContinues(t *testing.T) {
	fake := newFake()
	fake.missing["host:id/banner_close"] = true
	fake.shown["host:id/home"] = true
	fake.shown["host:id/menu"] = true

	r, _ := newTestRunner(t, fake)
	report, err := r.Run(context.Background(), mustLoad(t, loginFlow))
	require.NoError(t, err)

	assert.True(t, report.Passed)
	require.Len(t, report.Steps, 7)
	assert.False(t, report.Steps[3].OK)
	assert.True(t, report.Steps[3].Optional)
}

func TestRun_ExpectFailsOnMissingID(t *testing.T) {
	fake := newFake()
	fake.shown["a"] = true

	r, _ := newTestRunner(t, fake)
	sc := mustLoad(t, "steps:\n  - action: expect\n    ids: [a, b]\n")
	report, err := r.Run(context.Background(), sc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, report.Steps[0].Error, "b: not shown")
}

func TestRun_AssertionIsAStepFailure(t *testing.T) {
	fake := newFake()
	fake.fail["tab"] = &driver.AssertionError{Op: "ClickOnTab", Msg: "tab is null"}

	r, _ := newTestRunner(t, fake)
	sc := mustLoad(t, "steps:\n  - action: tab\n    optional: true\n  - action: begin_diff\n")
	report, err := r.Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.Contains(t, report.Steps[0].Error, "tab is null")
	assert.Equal(t, []string{"tab", "begin_diff"}, fake.recorded())
}

func TestRun_CollaboratorFailureAborts(t *testing.T) {
	fake := newFake()
	boom := errors.New("renderer crashed")
	fake.fail["click:x"] = boom

	r, _ := newTestRunner(t, fake)
	sc := mustLoad(t, "steps:\n  - action: click\n    id: x\n    optional: true\n  - action: begin_diff\n")
	report, err := r.Run(context.Background(), sc)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrFailed)
	assert.False(t, report.Passed)
	assert.Len(t, report.Steps, 1)
}

func TestRun_CancelledDuringSleep(t *testing.T) {
	fake := newFake()
	r := NewRunner(fake, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc := mustLoad(t, "steps:\n  - action: sleep\n    duration: 1h\n")
	_, err := r.Run(ctx, sc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_DiffWithoutNewElementsFails(t *testing.T) {
	fake := newFake()
	fake.missing["diff"] = true

	r, _ := newTestRunner(t, fake)
	sc := mustLoad(t, "steps:\n  - action: begin_diff\n  - action: tap_screen\n    direction: left\n  - action: end_diff\n")
	report, err := r.Run(context.Background(), sc)
	assert.ErrorIs(t, err, ErrFailed)
	assert.Len(t, report.Steps, 3)
	assert.Equal(t, []string{"begin_diff", "tap_screen", "end_diff"}, fake.recorded())
}
