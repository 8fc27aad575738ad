// internal/driver/wait.go
package driver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/internal/matcher"
	"github.com/xkilldash9x/uidriver/internal/poller"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

func (d *Driver) spec(timeout time.Duration, pred poller.Predicate) poller.Spec {
	return poller.Spec{Timeout: timeout, Interval: d.cfg.PollInterval, Predicate: pred}
}

// probe wraps an appearance spec into a predicate for vanish waits: the
// condition counts as present when it shows up within one probe window.
func (d *Driver) probe(inner poller.Spec) poller.Predicate {
	return func(ctx context.Context) (bool, error) {
		return d.poller.Until(ctx, inner)
	}
}

func (d *Driver) idPresent(q uitree.Query, o waitOptions) poller.Predicate {
	return func(ctx context.Context) (bool, error) {
		els, err := d.elements(ctx)
		if err != nil {
			return false, err
		}
		_, ok := matcher.FindByIdentifier(els, q, o.index, o.onlyVisible)
		return ok, nil
	}
}

func (d *Driver) textPresent(text string, minMatches int, onlyVisible bool) poller.Predicate {
	if minMatches < 1 {
		minMatches = 1
	}
	return func(ctx context.Context) (bool, error) {
		els, err := d.elements(ctx)
		if err != nil {
			return false, err
		}
		return matcher.CountText(els, text, onlyVisible) >= minMatches, nil
	}
}

// WaitForElementByID waits for an element whose identifier contains id.
// Defaults: element timeout, scroll on, visible only, substring matching.
func (d *Driver) WaitForElementByID(ctx context.Context, id string, opts ...WaitOption) (bool, error) {
	o := resolve(waitOptions{
		timeout:     d.cfg.ElementTimeout,
		scroll:      d.cfg.ScrollOnWait,
		onlyVisible: d.cfg.OnlyVisible,
		mode:        uitree.Substring,
	}, opts)

	spec := d.spec(o.timeout, d.idPresent(uitree.Query{Pattern: id, Mode: o.mode}, o))
	spec.OnMiss = d.scrollHook(o.scroll)

	found, err := d.poller.Until(ctx, spec)
	d.logger.Debug("Wait for element finished.", zap.String("id", id), zap.Bool("found", found), zap.Error(err))
	return found, err
}

// WaitForElementVanishByID waits until the element can no longer be found
// within one probe window. Defaults: vanish timeout, scroll on, visible only.
func (d *Driver) WaitForElementVanishByID(ctx context.Context, id string, opts ...WaitOption) (bool, error) {
	o := resolve(waitOptions{
		timeout:     d.cfg.VanishTimeout,
		scroll:      d.cfg.ScrollOnVanish,
		onlyVisible: d.cfg.OnlyVisible,
		mode:        uitree.Substring,
	}, opts)

	inner := d.spec(d.cfg.VanishProbe, d.idPresent(uitree.Query{Pattern: id, Mode: o.mode}, o))
	inner.OnMiss = d.scrollHook(o.scroll)

	gone, err := d.poller.UntilNot(ctx, d.spec(o.timeout, d.probe(inner)))
	d.logger.Debug("Wait for element vanish finished.", zap.String("id", id), zap.Bool("vanished", gone), zap.Error(err))
	return gone, err
}

// WaitForText waits until at least minMatches elements contain text
// (0 means 1). Defaults: element timeout, text scroll policy, visible only.
func (d *Driver) WaitForText(ctx context.Context, text string, minMatches int, opts ...WaitOption) (bool, error) {
	o := resolve(waitOptions{
		timeout:     d.cfg.ElementTimeout,
		scroll:      d.cfg.ScrollOnText,
		onlyVisible: d.cfg.OnlyVisible,
	}, opts)

	spec := d.spec(o.timeout, d.textPresent(text, minMatches, o.onlyVisible))
	spec.OnMiss = d.scrollHook(o.scroll)
	return d.poller.Until(ctx, spec)
}

// WaitForTextVanish waits until fewer than minMatches elements contain text
// for a whole probe window. Defaults: text vanish timeout, scroll off.
func (d *Driver) WaitForTextVanish(ctx context.Context, text string, minMatches int, opts ...WaitOption) (bool, error) {
	o := resolve(waitOptions{
		timeout:     d.cfg.TextVanishTimeout,
		scroll:      d.cfg.ScrollOnText,
		onlyVisible: d.cfg.OnlyVisible,
	}, opts)

	inner := d.spec(d.cfg.VanishProbe, d.textPresent(text, minMatches, o.onlyVisible))
	inner.OnMiss = d.scrollHook(o.scroll)
	return d.poller.UntilNot(ctx, d.spec(o.timeout, d.probe(inner)))
}

// WaitEqual polls fn until it returns expect. Only WithTimeout applies; the
// default is the configured equal timeout. An error from fn ends the wait.
func WaitEqual[T comparable](ctx context.Context, d *Driver, expect T, fn func(ctx context.Context) (T, error), opts ...WaitOption) (bool, error) {
	o := resolve(waitOptions{timeout: d.cfg.EqualTimeout}, opts)
	return d.poller.Until(ctx, d.spec(o.timeout, func(ctx context.Context) (bool, error) {
		actual, err := fn(ctx)
		if err != nil {
			return false, err
		}
		return actual == expect, nil
	}))
}
