// File: pkg/basepage/hover.go
package basepage

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/driver"
	"github.com/Projectplace/basepage/pkg/wait"
)

// hoverEventScript fires a synthetic mouse event at the element's center,
// for engines where native pointer moves are unreliable.
const hoverEventScript = `
var el = arguments[0];
var rect = el.getBoundingClientRect();
var ev = new MouseEvent(arguments[1], {
	bubbles: true,
	cancelable: true,
	view: window,
	clientX: rect.left + rect.width / 2,
	clientY: rect.top + rect.height / 2
});
el.dispatchEvent(ev);
`

// OpenHover moves the pointer over the target and returns the hovered
// element. WithSyntheticEvents dispatches a scripted mouseover instead of a
// native pointer move.
func (p *BasePage) OpenHover(ctx context.Context, target any, opts ...CallOption) (driver.Element, error) {
	co := applyOpts(opts)
	el, err := ensure(p.getOne(ctx, target, true, false, nil, "Element was never visible!", co))
	if err != nil {
		return nil, err
	}

	if co.useJS {
		_, err = p.drv.ExecuteScript(ctx, hoverEventScript, el, "mouseover")
		return el, err
	}
	err = p.drv.Actions().MoveTo(el).Perform(ctx)
	return el, err
}

// CloseHover dismisses a hover by moving the pointer off the element, or by
// dispatching a scripted mouseout with WithSyntheticEvents. It is
// idempotent: a hover that already went away (stale element, pointer off
// screen) counts as closed.
func (p *BasePage) CloseHover(ctx context.Context, el driver.Element, opts ...CallOption) error {
	co := applyOpts(opts)

	var err error
	if co.useJS {
		_, err = p.drv.ExecuteScript(ctx, hoverEventScript, el, "mouseout")
	} else {
		err = p.drv.Actions().MoveToWithOffset(el, -100, -100).Perform(ctx)
	}
	if err != nil && (driver.IsStale(err) || errors.Is(err, driver.ErrMoveTargetOutOfBounds)) {
		return nil
	}
	return err
}

// WithHover opens a hover over the target, runs fn while it is open, and
// closes the hover exactly once regardless of how fn fares. WithCloseTarget
// names a different element to move off of when closing.
func (p *BasePage) WithHover(ctx context.Context, target any, fn func(ctx context.Context) error, opts ...CallOption) (err error) {
	co := applyOpts(opts)
	el, err := p.OpenHover(ctx, target, opts...)
	if err != nil {
		return err
	}

	defer func() {
		closeEl := el
		if co.closeTarget != nil {
			resolved, cerr := p.getOne(ctx, co.closeTarget, true, false, nil, "Element was never visible!", co)
			if cerr == nil && resolved != nil {
				closeEl = resolved
			}
		}
		if cerr := p.CloseHover(ctx, closeEl, opts...); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(ctx)
}

// PerformHoverAction runs an action against a hover-revealed control,
// reopening the hover and retrying when the revealed element goes stale
// mid-action. WithRetryOn widens the set of retryable failures.
func (p *BasePage) PerformHoverAction(ctx context.Context, target any, action func(ctx context.Context) error, opts ...CallOption) error {
	co := applyOpts(opts)
	spec := p.spec(co, wait.DefaultTimeout)

	_, err := wait.Until(ctx, spec, "performing hover action",
		func(ctx context.Context) (struct{}, bool, error) {
			err := p.WithHover(ctx, target, action, opts...)
			if err == nil {
				return struct{}{}, true, nil
			}
			if driver.IsStale(err) || (co.retryOn != nil && co.retryOn(err)) {
				p.logger.Debug("Hover action failed, retrying.", zap.Error(err))
				return struct{}{}, false, nil
			}
			return struct{}{}, false, err
		})
	return err
}
