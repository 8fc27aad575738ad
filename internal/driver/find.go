// internal/driver/find.go
package driver

import (
	"context"

	"github.com/xkilldash9x/uidriver/internal/matcher"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// GetElementByID returns the element whose identifier local name equals id.
// WithMatchMode(uitree.Substring) switches to substring matching and
// WithIndex selects a later match. A false result is NotFound.
func (d *Driver) GetElementByID(ctx context.Context, id string, opts ...WaitOption) (uitree.Element, bool, error) {
	o := resolve(waitOptions{onlyVisible: d.cfg.OnlyVisible, mode: uitree.Complete}, opts)
	els, err := d.elements(ctx)
	if err != nil {
		return nil, false, err
	}
	el, ok := matcher.FindByIdentifier(els, uitree.Query{Pattern: id, Mode: o.mode}, o.index, o.onlyVisible)
	return el, ok, nil
}

// IsIDShown reports whether a visible element's identifier contains id.
func (d *Driver) IsIDShown(ctx context.Context, id string) (bool, error) {
	els, err := d.elements(ctx)
	if err != nil {
		return false, err
	}
	_, ok := matcher.FindByIdentifier(els, uitree.Containing(id), 0, true)
	return ok, nil
}

// FindElementsByText returns every element whose text contains text.
// Hidden elements are included unless WithOnlyVisible(true) is passed.
func (d *Driver) FindElementsByText(ctx context.Context, text string, opts ...WaitOption) ([]uitree.Element, error) {
	o := resolve(waitOptions{}, opts)
	els, err := d.elements(ctx)
	if err != nil {
		return nil, err
	}
	return matcher.FindAllByText(els, text, o.onlyVisible), nil
}

// SearchTextFromParent reports whether any descendant of parent carries text.
// Elements that cannot have children never match.
func (d *Driver) SearchTextFromParent(parent uitree.Element, text string, mode uitree.MatchMode) bool {
	c, ok := parent.(uitree.Container)
	if !ok {
		return false
	}
	_, found := matcher.SearchDescendants(c, uitree.Query{Pattern: text, Mode: mode})
	return found
}

// ElementIndex returns el's position among the displayed elements of the
// same kind, or -1.
func (d *Driver) ElementIndex(ctx context.Context, el uitree.Element) (int, error) {
	if el == nil {
		return -1, nil
	}
	snap, err := d.Snapshot(ctx)
	if err != nil {
		return -1, err
	}
	return snap.IndexOf(el), nil
}

func (d *Driver) ofKind(ctx context.Context, k uitree.Kind) ([]uitree.Element, error) {
	els, err := d.elements(ctx)
	if err != nil {
		return nil, err
	}
	return matcher.FilterKind(els, k, d.cfg.OnlyVisible), nil
}

// CurrentTabs returns the displayed tab bars in tree order.
func (d *Driver) CurrentTabs(ctx context.Context) ([]uitree.Element, error) {
	return d.ofKind(ctx, uitree.KindTabBar)
}

// CurrentDatePicker returns the first displayed date picker.
func (d *Driver) CurrentDatePicker(ctx context.Context) (uitree.Element, bool, error) {
	return d.first(ctx, uitree.KindDatePicker)
}

// CurrentTimePicker returns the first displayed time picker.
func (d *Driver) CurrentTimePicker(ctx context.Context) (uitree.Element, bool, error) {
	return d.first(ctx, uitree.KindTimePicker)
}

func (d *Driver) first(ctx context.Context, k uitree.Kind) (uitree.Element, bool, error) {
	els, err := d.ofKind(ctx, k)
	if err != nil || len(els) == 0 {
		return nil, false, err
	}
	return els[0], true, nil
}

func (d *Driver) checkable(ctx context.Context, op string, index int) (uitree.Checkable, error) {
	els, err := d.ofKind(ctx, uitree.KindCheckable)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(els) {
		return nil, assertionf(op, "checkable index %d out of range, %d available", index, len(els))
	}
	c, ok := els[index].(uitree.Checkable)
	if !ok {
		return nil, assertionf(op, "element %s has no checked state", uitree.Describe(els[index]))
	}
	return c, nil
}

// CheckedState returns the checked state of the index-th checkable element.
func (d *Driver) CheckedState(ctx context.Context, index int) (bool, error) {
	c, err := d.checkable(ctx, "checked state", index)
	if err != nil {
		return false, err
	}
	return c.Checked(), nil
}
