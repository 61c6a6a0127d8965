// File: pkg/driver/cdp/actions.go
package cdp

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/Projectplace/basepage/pkg/driver"
)

// chainState is the virtual input device a chain drives: the pointer
// position and the modifier keys currently held.
type chainState struct {
	x, y      float64
	modifiers input.Modifier
}

// chain is a recorded input sequence. Steps accumulate without touching the
// browser; Perform replays them in order.
type chain struct {
	d     *Driver
	steps []func(ctx context.Context, st *chainState) error
}

func (c *chain) add(step func(ctx context.Context, st *chainState) error) driver.Actions {
	c.steps = append(c.steps, step)
	return c
}

// Perform replays the recorded steps against the session. The chain is
// spent afterwards.
func (c *chain) Perform(ctx context.Context) error {
	st := &chainState{}
	err := c.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, step := range c.steps {
			if err := step(ctx, st); err != nil {
				return err
			}
		}
		return nil
	}))
	return classifyErr(err)
}

// moveTo moves the virtual pointer to the coordinates, bounds-checked
// against the viewport.
func moveTo(ctx context.Context, st *chainState, x, y float64) error {
	_, _, _, _, viewport, _, err := page.GetLayoutMetrics().Do(ctx)
	if err != nil {
		return err
	}
	if viewport != nil {
		if x < 0 || y < 0 || x > viewport.ClientWidth || y > viewport.ClientHeight {
			return fmt.Errorf("pointer target (%.0f, %.0f) outside viewport %.0fx%.0f: %w",
				x, y, viewport.ClientWidth, viewport.ClientHeight, driver.ErrMoveTargetOutOfBounds)
		}
	}
	err = input.DispatchMouseEvent(input.MouseMoved, x, y).
		WithModifiers(st.modifiers).
		Do(ctx)
	if err != nil {
		return err
	}
	st.x, st.y = x, y
	return nil
}

func elementCenter(ctx context.Context, el driver.Element) (float64, float64, error) {
	handle, ok := el.(*Element)
	if !ok {
		return 0, 0, fmt.Errorf("foreign element handle %T in input chain", el)
	}
	return handle.center(ctx)
}

// MoveTo moves the pointer onto the element's center.
func (c *chain) MoveTo(el driver.Element) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		x, y, err := elementCenter(ctx, el)
		if err != nil {
			return err
		}
		return moveTo(ctx, st, x, y)
	})
}

// MoveToWithOffset moves the pointer to the element's center shifted by the
// offset in pixels.
func (c *chain) MoveToWithOffset(el driver.Element, dx, dy float64) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		x, y, err := elementCenter(ctx, el)
		if err != nil {
			return err
		}
		return moveTo(ctx, st, x+dx, y+dy)
	})
}

// MoveByOffset moves the pointer relative to its current position.
func (c *chain) MoveByOffset(dx, dy float64) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		return moveTo(ctx, st, st.x+dx, st.y+dy)
	})
}

// Click clicks the element, or the current pointer position when el is nil.
func (c *chain) Click(el driver.Element) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		if el != nil {
			x, y, err := elementCenter(ctx, el)
			if err != nil {
				return err
			}
			if err := moveTo(ctx, st, x, y); err != nil {
				return err
			}
		}
		return clickAt(ctx, st.x, st.y, st.modifiers)
	})
}

// ClickAndHold moves onto the element and presses the left button without
// releasing it.
func (c *chain) ClickAndHold(el driver.Element) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		if el != nil {
			x, y, err := elementCenter(ctx, el)
			if err != nil {
				return err
			}
			if err := moveTo(ctx, st, x, y); err != nil {
				return err
			}
		}
		return input.DispatchMouseEvent(input.MousePressed, st.x, st.y).
			WithButton(input.Left).
			WithClickCount(1).
			WithModifiers(st.modifiers).
			Do(ctx)
	})
}

// Release releases the left button at the current pointer position.
func (c *chain) Release() driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		return input.DispatchMouseEvent(input.MouseReleased, st.x, st.y).
			WithButton(input.Left).
			WithClickCount(1).
			WithModifiers(st.modifiers).
			Do(ctx)
	})
}

// KeyDown presses the key and, for a modifier, holds its bit for the rest
// of the chain.
func (c *chain) KeyDown(key driver.Key) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		def, ok := keyDefs[key]
		if !ok {
			return fmt.Errorf("unknown key %q", key)
		}
		st.modifiers |= def.modifier
		return keyEvent(input.KeyDown, def, st.modifiers).Do(ctx)
	})
}

// KeyUp releases the key and clears its modifier bit.
func (c *chain) KeyUp(key driver.Key) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		def, ok := keyDefs[key]
		if !ok {
			return fmt.Errorf("unknown key %q", key)
		}
		st.modifiers &^= def.modifier
		return keyEvent(input.KeyUp, def, st.modifiers).Do(ctx)
	})
}

// SendKeys types the text into whatever currently has focus, under the
// held modifiers.
func (c *chain) SendKeys(text string) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		return chromedp.KeyEvent(text, chromedp.KeyModifiers(st.modifiers)).Do(ctx)
	})
}

// SendKeysToElement focuses the element and types the text.
func (c *chain) SendKeysToElement(el driver.Element, text string) driver.Actions {
	return c.add(func(ctx context.Context, st *chainState) error {
		handle, ok := el.(*Element)
		if !ok {
			return fmt.Errorf("foreign element handle %T in input chain", el)
		}
		if err := focusElement(ctx, handle); err != nil {
			return err
		}
		return chromedp.KeyEvent(text, chromedp.KeyModifiers(st.modifiers)).Do(ctx)
	})
}
