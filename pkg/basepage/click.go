// File: pkg/basepage/click.go
package basepage

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/driver"
)

// Click clicks the target once it is clickable (visible and enabled). A
// live element is clicked as-is, without re-checking clickability.
func (p *BasePage) Click(ctx context.Context, target any, opts ...CallOption) error {
	return p.click(ctx, target, "", applyOpts(opts))
}

// AltClick clicks the target with the Alt key held.
func (p *BasePage) AltClick(ctx context.Context, target any, opts ...CallOption) error {
	return p.click(ctx, target, driver.KeyAlt, applyOpts(opts))
}

// ShiftClick clicks the target with the Shift key held.
func (p *BasePage) ShiftClick(ctx context.Context, target any, opts ...CallOption) error {
	return p.click(ctx, target, driver.KeyShift, applyOpts(opts))
}

// MultiClick clicks the target with the platform's multi-select modifier
// held: Command on macOS, Control elsewhere. The platform is asked of the
// live session rather than assumed from the test host.
func (p *BasePage) MultiClick(ctx context.Context, target any, opts ...CallOption) error {
	platform, err := p.scriptString(ctx, "return navigator.platform;")
	if err != nil {
		return err
	}
	key := driver.KeyControl
	if strings.Contains(strings.ToLower(platform), "mac") {
		key = driver.KeyCommand
	}
	return p.click(ctx, target, key, applyOpts(opts))
}

func (p *BasePage) click(ctx context.Context, target any, key driver.Key, co *callOpts) error {
	el, err := ensure(p.getOne(ctx, target, false, true, nil, "Element was never clickable!", co))
	if err != nil {
		return err
	}

	if key == "" {
		p.logger.Debug("Clicking element.")
		return el.Click(ctx)
	}

	p.logger.Debug("Clicking element with modifier.", zap.String("key", string(key)))
	return p.drv.Actions().
		KeyDown(key).
		Click(el).
		KeyUp(key).
		Perform(ctx)
}

// ShiftSelect clicks the first element, then shift-clicks the last,
// selecting the range between them.
func (p *BasePage) ShiftSelect(ctx context.Context, first, last driver.Element) error {
	if err := p.Click(ctx, first); err != nil {
		return err
	}
	return p.ShiftClick(ctx, last)
}

// MultiSelect selects every element in the slice: a plain click on the
// first, the platform multi-select click on the rest.
func (p *BasePage) MultiSelect(ctx context.Context, elements []driver.Element) error {
	if len(elements) == 0 {
		return nil
	}
	if err := p.Click(ctx, elements[0]); err != nil {
		return err
	}
	for _, el := range elements[1:] {
		if err := p.MultiClick(ctx, el); err != nil {
			return err
		}
	}
	return nil
}

// MoveToElement moves the pointer onto the target once it is visible.
func (p *BasePage) MoveToElement(ctx context.Context, target any, opts ...CallOption) error {
	co := applyOpts(opts)
	el, err := ensure(p.getOne(ctx, target, true, false, nil, "Element was never visible!", co))
	if err != nil {
		return err
	}
	return p.drv.Actions().MoveTo(el).Perform(ctx)
}
