// internal/scenario/runner.go
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/driver"
	"github.com/xkilldash9x/uidriver/internal/gesture"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// ErrFailed is returned when a required step does not succeed.
var ErrFailed = errors.New("scenario: run failed")

var errMissing = errors.New("not shown")

// Automator is the slice of the driver facade a scenario needs.
type Automator interface {
	WaitForElementByID(ctx context.Context, id string, opts ...driver.WaitOption) (bool, error)
	WaitForElementVanishByID(ctx context.Context, id string, opts ...driver.WaitOption) (bool, error)
	WaitForText(ctx context.Context, text string, minMatches int, opts ...driver.WaitOption) (bool, error)
	WaitForTextVanish(ctx context.Context, text string, minMatches int, opts ...driver.WaitOption) (bool, error)
	IsIDShown(ctx context.Context, id string) (bool, error)
	ClickByID(ctx context.Context, id string, opts ...driver.WaitOption) (bool, error)
	ClickOnText(ctx context.Context, text string, opts ...driver.WaitOption) (bool, error)
	ClickOnTab(ctx context.Context, tabIndex, item int) error
	SetCheckedState(ctx context.Context, index int, checked bool) error
	Zoom(ctx context.Context, start, end [2]gesture.Point) error
	Drag(ctx context.Context, from, to gesture.Point, steps int) error
	DragScreen(ctx context.Context, dir schemas.Direction, steps int) error
	ClickOnScreen(ctx context.Context, dir schemas.Direction) error
	BeginNewElements(ctx context.Context) error
	EndNewElements(ctx context.Context) ([]uitree.Element, bool, error)
}

var _ Automator = (*driver.Driver)(nil)

// StepResult records the outcome of one step.
type StepResult struct {
	Index       int              `json:"index"`
	Name        string           `json:"name"`
	Action      Action           `json:"action"`
	OK          bool             `json:"ok"`
	Optional    bool             `json:"optional,omitempty"`
	Error       string           `json:"error,omitempty"`
	Duration    time.Duration    `json:"duration"`
	NewElements []uitree.Element `json:"-"`
}

// Report is the outcome of a run.
type Report struct {
	RunID    string       `json:"run_id"`
	Scenario string       `json:"scenario"`
	Passed   bool         `json:"passed"`
	Steps    []StepResult `json:"steps"`
}

// Runner executes scenarios against an Automator.
type Runner struct {
	auto   Automator
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
}

// NewRunner creates a runner.
func NewRunner(auto Automator, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{auto: auto, logger: logger.Named("scenario"), sleep: sleepCtx, now: time.Now}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes the steps in order. A step that reports a miss (a wait that
// timed out, an element that was not found) or an assertion failure fails the
// run unless it is optional. Backend failures and cancellation abort the run
// immediately whatever the step's optional flag. The report is returned in
// every case.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Scenario: sc.Name, Passed: true}
	logger := r.logger.With(zap.String("run_id", report.RunID), zap.String("scenario", sc.Name))
	logger.Info("Scenario started.", zap.Int("steps", len(sc.Steps)))

	for i, st := range sc.Steps {
		start := r.now()
		res := StepResult{Index: i + 1, Name: st.Label(), Action: st.Action, Optional: st.Optional}

		ok, added, err := r.step(ctx, st)
		res.Duration = r.now().Sub(start)
		res.NewElements = added
		res.OK = ok && err == nil
		if err != nil {
			res.Error = err.Error()
		} else if !ok {
			res.Error = "condition not met"
		}
		report.Steps = append(report.Steps, res)

		stepLog := logger.With(zap.Int("step", res.Index), zap.String("name", res.Name), zap.Duration("duration", res.Duration))
		if err != nil && !errors.Is(err, driver.ErrAssertion) && !errors.Is(err, errMissing) {
			report.Passed = false
			stepLog.Error("Step aborted the scenario.", zap.Error(err))
			return report, fmt.Errorf("scenario: step %d (%s): %w", res.Index, res.Name, err)
		}
		if res.OK {
			stepLog.Debug("Step passed.")
			continue
		}
		if st.Optional {
			stepLog.Info("Optional step did not pass.", zap.String("reason", res.Error))
			continue
		}
		report.Passed = false
		stepLog.Warn("Step failed.", zap.String("reason", res.Error))
		return report, fmt.Errorf("%w: step %d (%s): %s", ErrFailed, res.Index, res.Name, res.Error)
	}

	logger.Info("Scenario passed.")
	return report, nil
}

func (s Step) waitOptions() []driver.WaitOption {
	var opts []driver.WaitOption
	if s.Timeout > 0 {
		opts = append(opts, driver.WithTimeout(s.Timeout))
	}
	if s.Scroll != nil {
		opts = append(opts, driver.WithScroll(*s.Scroll))
	}
	if s.OnlyVisible != nil {
		opts = append(opts, driver.WithOnlyVisible(*s.OnlyVisible))
	}
	if s.Mode != "" {
		if m, err := uitree.ParseMatchMode(s.Mode); err == nil {
			opts = append(opts, driver.WithMatchMode(m))
		}
	}
	if s.Index > 0 {
		opts = append(opts, driver.WithIndex(s.Index))
	}
	return opts
}

func pt(p []float64) gesture.Point { return gesture.Pt(p[0], p[1]) }

// step runs one step. The bool is false for a miss.
func (r *Runner) step(ctx context.Context, st Step) (bool, []uitree.Element, error) {
	a := r.auto
	switch st.Action {
	case ActionWait:
		ok, err := a.WaitForElementByID(ctx, st.ID, st.waitOptions()...)
		return ok, nil, err
	case ActionVanish:
		ok, err := a.WaitForElementVanishByID(ctx, st.ID, st.waitOptions()...)
		return ok, nil, err
	case ActionWaitText:
		ok, err := a.WaitForText(ctx, st.Text, st.MinMatches, st.waitOptions()...)
		return ok, nil, err
	case ActionTextVanish:
		ok, err := a.WaitForTextVanish(ctx, st.Text, st.MinMatches, st.waitOptions()...)
		return ok, nil, err
	case ActionExpect:
		return r.expect(ctx, st.IDs)
	case ActionClick:
		ok, err := a.ClickByID(ctx, st.ID, st.waitOptions()...)
		return ok, nil, err
	case ActionClickText:
		ok, err := a.ClickOnText(ctx, st.Text, st.waitOptions()...)
		return ok, nil, err
	case ActionTab:
		return true, nil, a.ClickOnTab(ctx, st.Tab, st.Item)
	case ActionCheck:
		return true, nil, a.SetCheckedState(ctx, st.Index, st.Checked)
	case ActionZoom:
		start := [2]gesture.Point{pt(st.Start[0]), pt(st.Start[1])}
		end := [2]gesture.Point{pt(st.End[0]), pt(st.End[1])}
		return true, nil, a.Zoom(ctx, start, end)
	case ActionDrag:
		return true, nil, a.Drag(ctx, pt(st.From), pt(st.To), st.Steps)
	case ActionSwipe:
		return true, nil, a.DragScreen(ctx, st.Direction, st.Steps)
	case ActionTapScreen:
		return true, nil, a.ClickOnScreen(ctx, st.Direction)
	case ActionBeginDiff:
		return true, nil, a.BeginNewElements(ctx)
	case ActionEndDiff:
		added, ok, err := a.EndNewElements(ctx)
		return ok, added, err
	case ActionSleep:
		return true, nil, r.sleep(ctx, st.Duration)
	}
	return false, nil, fmt.Errorf("unknown action %q", st.Action)
}

// expect checks every identifier concurrently and fails on the first one
// that is not shown.
func (r *Runner) expect(ctx context.Context, ids []string) (bool, []uitree.Element, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			shown, err := r.auto.IsIDShown(gctx, id)
			if err != nil {
				return err
			}
			if !shown {
				return fmt.Errorf("%s: %w", id, errMissing)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, nil, err
	}
	return true, nil, nil
}
