// File: pkg/driver/cdp/element.go
package cdp

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/cdproto/runtime"

	"github.com/Projectplace/basepage/pkg/driver"
)

// Element is a handle on one DOM node, held as a protocol remote object so
// it survives node-id churn but goes stale when the node leaves the
// document.
type Element struct {
	d  *Driver
	id runtime.RemoteObjectID
}

// call runs a JavaScript function with the element as `this` and decodes
// the by-value result into out (out may be nil for side-effect calls).
func (e *Element) call(ctx context.Context, declaration string, out any, args ...*runtime.CallArgument) error {
	err := e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		result, exc, err := runtime.CallFunctionOn(declaration).
			WithObjectID(e.id).
			WithArguments(args).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("element script failed: %s", exc.Text)
		}
		if out != nil && result != nil && len(result.Value) > 0 {
			return jsonit.Unmarshal(result.Value, out)
		}
		return nil
	}))
	return classifyErr(err)
}

// FindElement returns the first descendant matching the strategy, or an
// error wrapping driver.ErrNoSuchElement.
func (e *Element) FindElement(ctx context.Context, strategy driver.Strategy, selector string) (driver.Element, error) {
	elements, err := e.FindElements(ctx, strategy, selector)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("no descendant matches %s %q: %w", strategy, selector, driver.ErrNoSuchElement)
	}
	return elements[0], nil
}

const descendantQueryScript = `function(sel) {
	return Array.prototype.slice.call(this.querySelectorAll(sel));
}`

// FindElements returns every descendant matching the strategy. No match is
// an empty slice, not an error.
func (e *Element) FindElements(ctx context.Context, strategy driver.Strategy, selector string) ([]driver.Element, error) {
	query, isXPath, err := selectorFor(strategy, selector)
	if err != nil {
		return nil, err
	}
	if isXPath {
		return e.d.findByXPath(ctx, e.id, query)
	}

	var elements []driver.Element
	err = e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		result, exc, err := runtime.CallFunctionOn(descendantQueryScript).
			WithObjectID(e.id).
			WithArguments([]*runtime.CallArgument{argValue(query)}).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("descendant query failed: %s", exc.Text)
		}
		ids, err := arrayElementIDs(ctx, result.ObjectID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			elements = append(elements, &Element{d: e.d, id: id})
		}
		return nil
	}))
	if err != nil {
		return nil, classifyErr(err)
	}
	return elements, nil
}

// IsDisplayed reports whether the element takes up space and is not hidden
// by CSS.
func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	var displayed bool
	err := e.call(ctx, `function() {
		var rect = this.getBoundingClientRect();
		if (rect.width === 0 && rect.height === 0) { return false; }
		var style = window.getComputedStyle(this);
		return style.display !== 'none' && style.visibility !== 'hidden';
	}`, &displayed)
	return displayed, err
}

// IsEnabled reports whether the element accepts interaction; elements
// without a disabled property always do.
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := e.call(ctx, `function() { return !this.disabled; }`, &enabled)
	return enabled, err
}

// GetAttribute returns the attribute's value, falling back to the like-named
// DOM property, and "" when neither is set.
func (e *Element) GetAttribute(ctx context.Context, name string) (string, error) {
	var value string
	err := e.call(ctx, `function(name) {
		var v = this.getAttribute(name);
		if (v === null && name in this) { v = this[name]; }
		return (v === null || v === undefined) ? '' : String(v);
	}`, &value, argValue(name))
	return value, err
}

// Text returns the element's rendered text.
func (e *Element) Text(ctx context.Context) (string, error) {
	var text string
	err := e.call(ctx, `function() {
		return this.innerText !== undefined ? this.innerText : (this.textContent || '');
	}`, &text)
	return text, err
}

// Clear empties a form field and fires the input and change events an
// interactive edit would.
func (e *Element) Clear(ctx context.Context) error {
	return e.call(ctx, `function() {
		this.value = '';
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
	}`, nil)
}

// Click scrolls the element into view and clicks its center with a
// synthesized left-button press and release.
func (e *Element) Click(ctx context.Context) error {
	err := e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		x, y, err := e.center(ctx)
		if err != nil {
			return err
		}
		return clickAt(ctx, x, y, 0)
	}))
	return classifyErr(err)
}

// SendKeys focuses the element and types the text as key events.
func (e *Element) SendKeys(ctx context.Context, text string) error {
	err := e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := focusElement(ctx, e); err != nil {
			return err
		}
		return chromedp.KeyEvent(text).Do(ctx)
	}))
	return classifyErr(err)
}

// focusElement gives the element input focus. Must run inside a chromedp
// action.
func focusElement(ctx context.Context, e *Element) error {
	return dom.Focus().WithObjectID(e.id).Do(ctx)
}

// Location returns the element's center in viewport coordinates.
func (e *Element) Location(ctx context.Context) (driver.Point, error) {
	var pt driver.Point
	err := e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		x, y, err := e.center(ctx)
		if err != nil {
			return err
		}
		pt = driver.Point{X: x, Y: y}
		return nil
	}))
	return pt, classifyErr(err)
}

// center scrolls the element into view and returns the centroid of its
// content box. Must run inside a chromedp action.
func (e *Element) center(ctx context.Context) (float64, float64, error) {
	if err := dom.ScrollIntoViewIfNeeded().WithObjectID(e.id).Do(ctx); err != nil {
		return 0, 0, err
	}
	box, err := dom.GetBoxModel().WithObjectID(e.id).Do(ctx)
	if err != nil {
		return 0, 0, err
	}
	x, y, ok := boxCenter(box)
	if !ok {
		return 0, 0, fmt.Errorf("element has no geometric representation")
	}
	return x, y, nil
}

// clickAt presses and releases the left button at the given coordinates.
// Must run inside a chromedp action.
func clickAt(ctx context.Context, x, y float64, modifiers input.Modifier) error {
	press := input.DispatchMouseEvent(input.MousePressed, x, y).
		WithButton(input.Left).
		WithClickCount(1).
		WithModifiers(modifiers)
	if err := press.Do(ctx); err != nil {
		return err
	}
	release := input.DispatchMouseEvent(input.MouseReleased, x, y).
		WithButton(input.Left).
		WithClickCount(1).
		WithModifiers(modifiers)
	return release.Do(ctx)
}

// arrayElementIDs unpacks a remote array object into the object ids of its
// indexed elements, in index order. Must run inside a chromedp action.
func arrayElementIDs(ctx context.Context, arrayID runtime.RemoteObjectID) ([]runtime.RemoteObjectID, error) {
	if arrayID == "" {
		return nil, nil
	}
	props, _, _, exc, err := runtime.GetProperties(arrayID).WithOwnProperties(true).Do(ctx)
	if err != nil {
		return nil, err
	}
	if exc != nil {
		return nil, fmt.Errorf("reading query results failed: %s", exc.Text)
	}

	type indexed struct {
		index int
		id    runtime.RemoteObjectID
	}
	var found []indexed
	for _, prop := range props {
		idx, err := strconv.Atoi(prop.Name)
		if err != nil || prop.Value == nil || prop.Value.ObjectID == "" {
			continue
		}
		found = append(found, indexed{index: idx, id: prop.Value.ObjectID})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].index < found[j].index })

	ids := make([]runtime.RemoteObjectID, 0, len(found))
	for _, f := range found {
		ids = append(ids, f.id)
	}
	return ids, nil
}
