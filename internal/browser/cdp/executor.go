// internal/browser/cdp/executor.go
package cdp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrDetached is returned when an element no longer exists in the page.
var ErrDetached = errors.New("cdp: element is no longer attached")

// cdpExecutor implements every collaborator the driver needs on top of
// chromedp actions. All page access goes through runActionsFunc.
type cdpExecutor struct {
	logger         *zap.Logger
	runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error
	evalFunc       func(ctx context.Context, script string) ([]byte, error)
	timeout        time.Duration
	limiter        *rate.Limiter
	now            func() time.Time
}

func newExecutor(logger *zap.Logger, run func(context.Context, ...chromedp.Action) error, timeout time.Duration, perSecond float64, burst int) *cdpExecutor {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	e := &cdpExecutor{
		logger:         logger,
		runActionsFunc: run,
		timeout:        timeout,
		limiter:        rate.NewLimiter(limit, burst),
		now:            time.Now,
	}
	e.evalFunc = e.evaluateCDP
	return e
}

// run applies the operation timeout to a batch of actions.
func (e *cdpExecutor) run(ctx context.Context, op string, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.wrap(ctx, opCtx, op, e.runActionsFunc(opCtx, actions...))
}

// wrap labels a timeout of the operation itself distinctly from a caller
// cancellation or a protocol error.
func (e *cdpExecutor) wrap(ctx, opCtx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if opCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		e.logger.Debug("CDP operation timed out.", zap.String("op", op), zap.Duration("timeout", e.timeout))
		return fmt.Errorf("cdp: %s timed out after %v: %w", op, e.timeout, opCtx.Err())
	}
	return fmt.Errorf("cdp: %s failed: %w", op, err)
}

// evaluateCDP runs script in the page and returns its JSON result.
func (e *cdpExecutor) evaluateCDP(ctx context.Context, script string) ([]byte, error) {
	var raw []byte
	err := e.runActionsFunc(ctx, chromedp.Evaluate(script, &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
	}))
	return raw, err
}

// evaluate runs script under the operation timeout and decodes the result into res.
func (e *cdpExecutor) evaluate(ctx context.Context, op, script string, res interface{}) error {
	opCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.evalFunc(opCtx, script)
	if err != nil {
		return e.wrap(ctx, opCtx, op, err)
	}
	if err := json.Unmarshal(raw, res); err != nil {
		return fmt.Errorf("cdp: %s returned an unexpected payload: %w (payload: %s)", op, err, string(raw))
	}
	return nil
}

// EnumerateElements captures every element under the document body.
func (e *cdpExecutor) EnumerateElements(ctx context.Context) (uitree.Snapshot, error) {
	var recs []schemas.ElementRecord
	if err := e.evaluate(ctx, "enumerate elements", enumerateJS, &recs); err != nil {
		return uitree.Snapshot{}, err
	}
	return uitree.NewSnapshot(e.now(), buildElements(recs)), nil
}

func keyOf(el uitree.Element) (int64, error) {
	k, ok := el.(interface{ Key() int64 })
	if !ok {
		return 0, fmt.Errorf("cdp: element %s was not produced by this backend", uitree.Describe(el))
	}
	return k.Key(), nil
}

// PerformPrimaryAction clicks the element in the page.
func (e *cdpExecutor) PerformPrimaryAction(ctx context.Context, el uitree.Element) error {
	key, err := keyOf(el)
	if err != nil {
		return err
	}
	var ok bool
	if err := e.evaluate(ctx, "primary action", actionScript(key), &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDetached, uitree.Describe(el))
	}
	return nil
}

// SetCheckedState sets a checkbox-like element's state.
func (e *cdpExecutor) SetCheckedState(ctx context.Context, el uitree.Element, checked bool) error {
	key, err := keyOf(el)
	if err != nil {
		return err
	}
	var ok bool
	if err := e.evaluate(ctx, "set checked state", setCheckedScript(key, checked), &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDetached, uitree.Describe(el))
	}
	return nil
}

// ScrollOnePage scrolls the window and reports whether it moved.
func (e *cdpExecutor) ScrollOnePage(ctx context.Context, dir schemas.Direction) (bool, error) {
	var dx, dy int
	switch dir {
	case schemas.DirectionDown:
		dy = 1
	case schemas.DirectionUp:
		dy = -1
	case schemas.DirectionRight:
		dx = 1
	case schemas.DirectionLeft:
		dx = -1
	default:
		return false, fmt.Errorf("cdp: unknown scroll direction %q", dir)
	}
	var moved bool
	if err := e.evaluate(ctx, "scroll", scrollScript(dx, dy), &moved); err != nil {
		return false, err
	}
	return moved, nil
}

// ScreenSize reports the layout viewport in CSS pixels.
func (e *cdpExecutor) ScreenSize(ctx context.Context) (schemas.Size, error) {
	var size schemas.Size
	err := e.evaluate(ctx, "screen size", screenSizeJS, &size)
	return size, err
}

// DispatchPointerFrame sends one touch event. End frames carry no touch
// points, as the protocol requires.
func (e *cdpExecutor) DispatchPointerFrame(ctx context.Context, frame schemas.PointerFrame) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("cdp: dispatch limiter: %w", err)
	}

	points := make([]*input.TouchPoint, 0, len(frame.Pointers))
	if frame.Phase != schemas.PointerUp {
		for _, p := range frame.Pointers {
			points = append(points, &input.TouchPoint{X: p.X, Y: p.Y, ID: float64(p.ID)})
		}
	}
	return e.run(ctx, "dispatch "+string(frame.Phase), input.DispatchTouchEvent(input.TouchType(frame.Phase), points))
}

// Sleep pauses through the session so that a closed browser ends the wait.
func (e *cdpExecutor) Sleep(ctx context.Context, d time.Duration) error {
	return e.runActionsFunc(ctx, chromedp.Sleep(d))
}
