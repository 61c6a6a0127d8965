// File: pkg/conditions/conditions.go

// Package conditions provides the expected-condition predicates driven by
// the wait poller. Each condition queries the driver fresh on every call and
// converts transient signals (staleness, not-found) into "not yet satisfied"
// so the poller retries them; only Invisible treats staleness as success,
// since a detached element is by definition not visible.
package conditions

import (
	"context"

	"github.com/Projectplace/basepage/pkg/driver"
	"github.com/Projectplace/basepage/pkg/locator"
)

// Condition is one evaluation of UI state, shaped to plug straight into
// wait.Until as a predicate.
type Condition[T any] func(ctx context.Context) (T, bool, error)

// transient reports whether err is a retryable driver signal rather than a
// terminal failure.
func transient(err error) bool {
	return driver.IsStale(err) || driver.IsNotFound(err)
}

// Present is satisfied once any element matches the locator within scope.
// Scope is the document root (a Driver) or a parent element.
func Present(scope driver.Finder, loc locator.Resolved) Condition[driver.Element] {
	return func(ctx context.Context) (driver.Element, bool, error) {
		el, err := scope.FindElement(ctx, loc.Strategy, loc.Selector)
		if err != nil {
			if transient(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		return el, true, nil
	}
}

// AllPresent is satisfied once at least one element matches the locator,
// yielding every match.
func AllPresent(scope driver.Finder, loc locator.Resolved) Condition[[]driver.Element] {
	return func(ctx context.Context) ([]driver.Element, bool, error) {
		els, err := scope.FindElements(ctx, loc.Strategy, loc.Selector)
		if err != nil {
			if transient(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		if len(els) == 0 {
			return nil, false, nil
		}
		return els, true, nil
	}
}

// Visible is satisfied once a matching element reports a rendered,
// displayed state.
func Visible(scope driver.Finder, loc locator.Resolved) Condition[driver.Element] {
	return func(ctx context.Context) (driver.Element, bool, error) {
		el, err := scope.FindElement(ctx, loc.Strategy, loc.Selector)
		if err != nil {
			if transient(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		displayed, err := el.IsDisplayed(ctx)
		if err != nil {
			if transient(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		if !displayed {
			return nil, false, nil
		}
		return el, true, nil
	}
}

// AllVisible is satisfied once at least one element matches and every match
// is displayed. A single hidden member keeps the whole condition pending.
func AllVisible(scope driver.Finder, loc locator.Resolved) Condition[[]driver.Element] {
	return func(ctx context.Context) ([]driver.Element, bool, error) {
		els, err := scope.FindElements(ctx, loc.Strategy, loc.Selector)
		if err != nil {
			if transient(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		if len(els) == 0 {
			return nil, false, nil
		}
		for _, el := range els {
			displayed, err := el.IsDisplayed(ctx)
			if err != nil {
				if transient(err) {
					return nil, false, nil
				}
				return nil, false, err
			}
			if !displayed {
				return nil, false, nil
			}
		}
		return els, true, nil
	}
}

// Clickable is satisfied once a matching element is both displayed and
// enabled for interaction.
func Clickable(scope driver.Finder, loc locator.Resolved) Condition[driver.Element] {
	return func(ctx context.Context) (driver.Element, bool, error) {
		el, ok, err := Visible(scope, loc)(ctx)
		if err != nil || !ok {
			return nil, false, err
		}
		enabled, err := el.IsEnabled(ctx)
		if err != nil {
			if transient(err) {
				return nil, false, nil
			}
			return nil, false, err
		}
		if !enabled {
			return nil, false, nil
		}
		return el, true, nil
	}
}

// Invisible is satisfied once no element matches the locator or the match
// is not displayed. Staleness and not-found both mean the element is gone,
// which satisfies the condition.
func Invisible(scope driver.Finder, loc locator.Resolved) Condition[bool] {
	return func(ctx context.Context) (bool, bool, error) {
		el, err := scope.FindElement(ctx, loc.Strategy, loc.Selector)
		if err != nil {
			if transient(err) {
				return true, true, nil
			}
			return false, false, err
		}
		return invisibleElement(ctx, el)
	}
}

// InvisibleElement is the handle form of Invisible, for callers holding a
// live reference rather than a locator.
func InvisibleElement(el driver.Element) Condition[bool] {
	return func(ctx context.Context) (bool, bool, error) {
		return invisibleElement(ctx, el)
	}
}

func invisibleElement(ctx context.Context, el driver.Element) (bool, bool, error) {
	displayed, err := el.IsDisplayed(ctx)
	if err != nil {
		// An element that went away by being detached is indistinguishable
		// from one hidden in place, for this condition's purpose.
		if transient(err) {
			return true, true, nil
		}
		return false, false, err
	}
	if displayed {
		return false, false, nil
	}
	return true, true, nil
}
