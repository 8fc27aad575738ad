// internal/driver/action.go
package driver

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/uidriver/api/schemas"
	"github.com/xkilldash9x/uidriver/internal/matcher"
	"github.com/xkilldash9x/uidriver/internal/uitree"
)

// ClickByID performs the primary action on the element found by
// GetElementByID. It returns false, not an error, when nothing matches.
func (d *Driver) ClickByID(ctx context.Context, id string, opts ...WaitOption) (bool, error) {
	el, ok, err := d.GetElementByID(ctx, id, opts...)
	if err != nil || !ok {
		return false, err
	}
	if err := d.perform(ctx, el); err != nil {
		return false, err
	}
	d.logger.Debug("Clicked element.", zap.String("id", id), zap.String("element", uitree.Describe(el)))
	return true, nil
}

// ClickOnText clicks the index-th element containing text (see WithIndex).
func (d *Driver) ClickOnText(ctx context.Context, text string, opts ...WaitOption) (bool, error) {
	o := resolve(waitOptions{onlyVisible: d.cfg.OnlyVisible}, opts)
	els, err := d.elements(ctx)
	if err != nil {
		return false, err
	}
	el, ok := matcher.FindByText(els, text, o.index, o.onlyVisible)
	if !ok {
		return false, nil
	}
	if err := d.perform(ctx, el); err != nil {
		return false, err
	}
	return true, nil
}

// ClickOnTab clicks item of the tabIndex-th tab bar. Either index being out of
// range is an assertion failure.
func (d *Driver) ClickOnTab(ctx context.Context, tabIndex, item int) error {
	const op = "click on tab"
	tabs, err := d.CurrentTabs(ctx)
	if err != nil {
		return err
	}
	if tabIndex < 0 || tabIndex >= len(tabs) {
		return assertionf(op, "tab is null (index %d, %d tab bars)", tabIndex, len(tabs))
	}
	bar, ok := tabs[tabIndex].(uitree.Container)
	if !ok {
		return assertionf(op, "tab is null (element %s has no items)", uitree.Describe(tabs[tabIndex]))
	}
	items := bar.Children()
	if item < 0 || item >= len(items) || items[item] == nil {
		return assertionf(op, "index is not valid (item %d, %d items)", item, len(items))
	}
	return d.perform(ctx, items[item])
}

// ClickInList clicks line (1 based) of the listIndex-th list and returns the
// text elements of the clicked row. A missing list is an assertion failure.
// When the line is not rendered and scroll is enabled (the default), one page
// is scrolled and the line looked up again; a line that is still missing
// yields (nil, nil). A clicked row always yields a non-nil slice.
func (d *Driver) ClickInList(ctx context.Context, line, listIndex int, opts ...WaitOption) ([]uitree.Element, error) {
	const op = "click in list"
	o := resolve(waitOptions{scroll: true, onlyVisible: d.cfg.OnlyVisible}, opts)
	if line < 1 {
		return nil, assertionf(op, "line %d is not valid, lines start at 1", line)
	}

	row, err := d.listRow(ctx, op, line, listIndex, o.onlyVisible)
	if err != nil {
		return nil, err
	}
	if row == nil && o.scroll {
		moved, err := d.scroll(ctx, schemas.DirectionDown)
		if err != nil {
			return nil, err
		}
		if moved {
			if row, err = d.listRow(ctx, op, line, listIndex, o.onlyVisible); err != nil {
				return nil, err
			}
		}
	}
	if row == nil {
		return nil, nil
	}

	if err := d.perform(ctx, row); err != nil {
		return nil, err
	}
	texts := []uitree.Element{}
	if c, ok := row.(uitree.Container); ok {
		collectText(c, &texts)
	}
	return texts, nil
}

func (d *Driver) listRow(ctx context.Context, op string, line, listIndex int, onlyVisible bool) (uitree.Element, error) {
	lists, err := d.ofKind(ctx, uitree.KindList)
	if err != nil {
		return nil, err
	}
	if listIndex < 0 || listIndex >= len(lists) {
		return nil, assertionf(op, "no list with index %d is available", listIndex)
	}
	list, ok := lists[listIndex].(uitree.Container)
	if !ok {
		return nil, assertionf(op, "list %d has no rows", listIndex)
	}
	n := 0
	for _, row := range list.Children() {
		if row == nil || (onlyVisible && !row.Visible()) {
			continue
		}
		n++
		if n == line {
			return row, nil
		}
	}
	return nil, nil
}

func collectText(c uitree.Container, out *[]uitree.Element) {
	for _, child := range c.Children() {
		if child == nil {
			continue
		}
		if child.Kind() == uitree.KindText {
			*out = append(*out, child)
		}
		if cc, ok := child.(uitree.Container); ok {
			collectText(cc, out)
		}
	}
}

// SetCheckedState sets the checked state of the index-th checkable element on
// the UI loop. An out-of-range index is an assertion failure.
func (d *Driver) SetCheckedState(ctx context.Context, index int, checked bool) error {
	c, err := d.checkable(ctx, "set checked state", index)
	if err != nil {
		return err
	}
	return d.loop.Do(ctx, "set checked", func(ctx context.Context) error {
		if err := d.backend.SetCheckedState(ctx, c, checked); err != nil {
			return collaboratorErr("set checked state", err)
		}
		return nil
	})
}

// BeginNewElements records the current elements as the diff baseline.
func (d *Driver) BeginNewElements(ctx context.Context) error {
	return d.diff.Begin(ctx)
}

// EndNewElements returns the elements displayed now that were absent at the
// last BeginNewElements. The bool is false when no baseline was recorded.
func (d *Driver) EndNewElements(ctx context.Context) ([]uitree.Element, bool, error) {
	return d.diff.End(ctx)
}
