// File: pkg/basepage/accessor.go
package basepage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/conditions"
	"github.com/Projectplace/basepage/pkg/driver"
	"github.com/Projectplace/basepage/pkg/locator"
	"github.com/Projectplace/basepage/pkg/wait"
)

// ElementNotFoundError is the terminal-but-expected failure of an exhausted
// element wait. It carries everything needed to diagnose the miss: the
// resolved locator, the condition that never held, and how long was waited.
type ElementNotFoundError struct {
	Message   string
	Locator   locator.Resolved
	Condition string
	Timeout   time.Duration

	cause error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("%s locator %s, expected condition <%s>, timeout %s",
		e.Message, e.Locator, e.Condition, e.Timeout)
}

func (e *ElementNotFoundError) Unwrap() error { return e.cause }

// asTarget classifies the untyped target argument every operation accepts.
// Anything that is neither a live element nor a locator is a programming
// mistake and fails immediately, never retried.
func asTarget(target any) (driver.Element, locator.Locator, error) {
	switch t := target.(type) {
	case driver.Element:
		return t, locator.Locator{}, nil
	case locator.Locator:
		return nil, t, nil
	default:
		return nil, locator.Locator{}, &locator.InvalidParameterError{
			Reason: fmt.Sprintf("target must be a locator.Locator or driver.Element, got %T", target),
		}
	}
}

// getOne is the single-element accessor core: pass-through for handles,
// resolve-then-poll for locators.
func (p *BasePage) getOne(
	ctx context.Context,
	target any,
	visible bool,
	clickable bool,
	parent driver.Element,
	message string,
	co *callOpts,
) (driver.Element, error) {
	el, loc, err := asTarget(target)
	if err != nil {
		return nil, err
	}
	if el != nil {
		// Already a live handle: no resolution, no waiting.
		return el, nil
	}

	res, err := p.resolver(loc, co.params)
	if err != nil {
		return nil, err
	}

	scope := driver.Finder(p.drv)
	if parent != nil {
		scope = parent
	}

	var cond conditions.Condition[driver.Element]
	var name string
	switch {
	case clickable:
		cond, name = conditions.Clickable(scope, res), "clickable"
	case visible:
		cond, name = conditions.Visible(scope, res), "visibility of element"
	default:
		cond, name = conditions.Present(scope, res), "presence of element"
	}

	return runWait(ctx, p, cond, res, name, message, co)
}

// getMany is the multi-element counterpart of getOne.
func (p *BasePage) getMany(
	ctx context.Context,
	target any,
	visible bool,
	parent driver.Element,
	message string,
	co *callOpts,
) ([]driver.Element, error) {
	el, loc, err := asTarget(target)
	if err != nil {
		return nil, err
	}
	if el != nil {
		return []driver.Element{el}, nil
	}

	res, err := p.resolver(loc, co.params)
	if err != nil {
		return nil, err
	}

	scope := driver.Finder(p.drv)
	if parent != nil {
		scope = parent
	}

	var cond conditions.Condition[[]driver.Element]
	var name string
	if visible {
		cond, name = conditions.AllVisible(scope, res), "visibility of all elements"
	} else {
		cond, name = conditions.AllPresent(scope, res), "presence of all elements"
	}

	return runWait(ctx, p, cond, res, name, message, co)
}

// runWait drives a condition through the poller, translating the outcome
// into the accessor contract: probes (timeout zero) return the zero value
// without error, exhausted waits become *ElementNotFoundError, everything
// terminal passes straight through.
func runWait[T any](
	ctx context.Context,
	p *BasePage,
	cond conditions.Condition[T],
	res locator.Resolved,
	condName string,
	message string,
	co *callOpts,
) (T, error) {
	var zero T
	spec := p.spec(co, p.explicitWait)

	if spec.Timeout == 0 {
		value, ok, err := cond(ctx)
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, nil
		}
		return value, nil
	}

	value, err := wait.Until(ctx, spec, message, wait.Predicate[T](cond))
	if err != nil {
		var te *wait.TimeoutError
		if errors.As(err, &te) {
			p.logger.Debug("Element wait exhausted.",
				zap.String("locator", res.String()),
				zap.String("condition", condName),
				zap.Duration("timeout", spec.Timeout),
				zap.Int("attempts", te.Attempts))
			return zero, &ElementNotFoundError{
				Message:   message,
				Locator:   res,
				Condition: condName,
				Timeout:   spec.Timeout,
				cause:     err,
			}
		}
		return zero, err
	}
	return value, nil
}

// ensure converts the accessor's probe-miss result (nil element, nil error)
// into a not-found error, for interactions that cannot act on nothing.
func ensure(el driver.Element, err error) (driver.Element, error) {
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, driver.ErrNoSuchElement
	}
	return el, nil
}

// visibleDefault resolves an operation's visibility requirement against a
// per-call override.
func visibleDefault(co *callOpts, def bool) bool {
	if co.visible != nil {
		return *co.visible
	}
	return def
}

// GetPresentElement returns an element attached to the DOM, waiting up to
// the explicit wait (or the WithTimeout option). With a zero timeout it is
// a non-blocking probe: (nil, nil) when nothing matches.
func (p *BasePage) GetPresentElement(ctx context.Context, target any, opts ...CallOption) (driver.Element, error) {
	co := applyOpts(opts)
	return p.getOne(ctx, target, visibleDefault(co, false), false, nil, "Element was never present!", co)
}

// GetVisibleElement returns an element both attached and displayed.
func (p *BasePage) GetVisibleElement(ctx context.Context, target any, opts ...CallOption) (driver.Element, error) {
	co := applyOpts(opts)
	return p.getOne(ctx, target, true, false, nil, "Element was never visible!", co)
}

// GetPresentElements returns every element matching the target once at
// least one is attached.
func (p *BasePage) GetPresentElements(ctx context.Context, target any, opts ...CallOption) ([]driver.Element, error) {
	co := applyOpts(opts)
	return p.getMany(ctx, target, visibleDefault(co, false), nil, "Elements were never present!", co)
}

// GetVisibleElements returns every matching element once all matches are
// displayed.
func (p *BasePage) GetVisibleElements(ctx context.Context, target any, opts ...CallOption) ([]driver.Element, error) {
	co := applyOpts(opts)
	return p.getMany(ctx, target, true, nil, "Elements were never visible!", co)
}

// GetPresentChild scopes a present-element lookup to a parent handle
// instead of the document root.
func (p *BasePage) GetPresentChild(ctx context.Context, parent driver.Element, target any, opts ...CallOption) (driver.Element, error) {
	co := applyOpts(opts)
	return p.getOne(ctx, target, visibleDefault(co, false), false, parent, "Child was never present!", co)
}

// GetVisibleChild scopes a visible-element lookup to a parent handle.
func (p *BasePage) GetVisibleChild(ctx context.Context, parent driver.Element, target any, opts ...CallOption) (driver.Element, error) {
	co := applyOpts(opts)
	return p.getOne(ctx, target, true, false, parent, "Child was never visible!", co)
}

// GetPresentChildren scopes a present-elements lookup to a parent handle.
func (p *BasePage) GetPresentChildren(ctx context.Context, parent driver.Element, target any, opts ...CallOption) ([]driver.Element, error) {
	co := applyOpts(opts)
	return p.getMany(ctx, target, visibleDefault(co, false), parent, "Children were never present!", co)
}

// GetVisibleChildren scopes a visible-elements lookup to a parent handle.
func (p *BasePage) GetVisibleChildren(ctx context.Context, parent driver.Element, target any, opts ...CallOption) ([]driver.Element, error) {
	co := applyOpts(opts)
	return p.getMany(ctx, target, true, parent, "Children were never visible!", co)
}
