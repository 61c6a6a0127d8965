// File: pkg/basepage/waits.go
package basepage

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/conditions"
	"github.com/Projectplace/basepage/pkg/driver"
	"github.com/Projectplace/basepage/pkg/locator"
	"github.com/Projectplace/basepage/pkg/wait"
)

// defaultStateWait bounds the attribute, text-population and
// pending-request waits, which watch an element already on the page rather
// than one still arriving.
const defaultStateWait = 5 * time.Second

// WaitForElementToDisappear waits until the target is no longer visible.
// A target that is already gone, or that goes stale mid-wait, satisfies it.
func (p *BasePage) WaitForElementToDisappear(ctx context.Context, target any, opts ...CallOption) error {
	co := applyOpts(opts)
	el, loc, err := asTarget(target)
	if err != nil {
		return err
	}

	var cond conditions.Condition[bool]
	var res locator.Resolved
	if el != nil {
		cond = conditions.InvisibleElement(el)
	} else {
		res, err = p.resolver(loc, co.params)
		if err != nil {
			return err
		}
		cond = conditions.Invisible(p.drv, res)
	}

	spec := p.spec(co, p.explicitWait)
	_, err = wait.Until(ctx, spec, "Element never disappeared!", wait.Predicate[bool](cond))
	if err != nil {
		var te *wait.TimeoutError
		if errors.As(err, &te) {
			p.logger.Debug("Element still visible after wait.",
				zap.String("locator", res.String()),
				zap.Duration("timeout", spec.Timeout))
			return &ElementNotFoundError{
				Message:   "Element never disappeared!",
				Locator:   res,
				Condition: "invisibility of element",
				Timeout:   spec.Timeout,
				cause:     err,
			}
		}
		return err
	}
	return nil
}

// WaitForAttribute waits until the target's attribute contains the wanted
// value. The element is looked up again on every poll so that replacement
// of the node between polls is invisible to the caller.
func (p *BasePage) WaitForAttribute(ctx context.Context, target any, attribute, value string, opts ...CallOption) error {
	co := applyOpts(opts)
	spec := p.spec(co, defaultStateWait)

	probe := *co
	zero := time.Duration(0)
	probe.timeout = &zero

	_, err := wait.Until(ctx, spec, "Attribute never set!",
		func(ctx context.Context) (struct{}, bool, error) {
			el, err := p.getOne(ctx, target, visibleDefault(co, false), false, nil, "Element was never present!", &probe)
			if err != nil {
				if driver.IsStale(err) {
					return struct{}{}, false, nil
				}
				return struct{}{}, false, err
			}
			if el == nil {
				return struct{}{}, false, nil
			}
			actual, err := el.GetAttribute(ctx, attribute)
			if err != nil {
				if driver.IsStale(err) {
					return struct{}{}, false, nil
				}
				return struct{}{}, false, err
			}
			return struct{}{}, strings.Contains(actual, value), nil
		})
	if err != nil {
		var te *wait.TimeoutError
		if errors.As(err, &te) {
			p.logger.Debug("Attribute never reached wanted value.",
				zap.String("attribute", attribute),
				zap.String("value", value),
				zap.Duration("timeout", spec.Timeout))
		}
	}
	return err
}

// WaitForNonEmptyText waits until every element matching the target carries
// non-empty text (or a non-empty value attribute) and returns them.
func (p *BasePage) WaitForNonEmptyText(ctx context.Context, target any, opts ...CallOption) ([]driver.Element, error) {
	co := applyOpts(opts)
	spec := p.spec(co, defaultStateWait)

	probe := *co
	zero := time.Duration(0)
	probe.timeout = &zero

	return wait.Until(ctx, spec, "Element text was never populated!",
		func(ctx context.Context) ([]driver.Element, bool, error) {
			elements, err := p.getMany(ctx, target, visibleDefault(co, false), nil, "Elements were never present!", &probe)
			if err != nil {
				if driver.IsStale(err) {
					return nil, false, nil
				}
				return nil, false, err
			}
			if len(elements) == 0 {
				return nil, false, nil
			}
			for _, el := range elements {
				text, err := p.elementText(ctx, el)
				if err != nil {
					if driver.IsStale(err) {
						return nil, false, nil
					}
					return nil, false, err
				}
				if strings.TrimSpace(text) == "" {
					return nil, false, nil
				}
			}
			return elements, true, nil
		})
}

// WaitForPendingRequests waits until the page reports no in-flight
// requests, as judged by the pending-requests script (jQuery.active by
// default, replaceable with WithPendingRequestsScript).
func (p *BasePage) WaitForPendingRequests(ctx context.Context, opts ...CallOption) error {
	co := applyOpts(opts)
	spec := p.spec(co, defaultStateWait)

	_, err := wait.Until(ctx, spec, "Pending requests never settled!",
		func(ctx context.Context) (struct{}, bool, error) {
			idle, err := p.scriptBool(ctx, p.pendingScript)
			if err != nil {
				return struct{}{}, false, err
			}
			return struct{}{}, idle, nil
		})
	return err
}
