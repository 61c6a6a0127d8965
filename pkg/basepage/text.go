// File: pkg/basepage/text.go
package basepage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/driver"
	"github.com/Projectplace/basepage/pkg/locator"
	"github.com/Projectplace/basepage/pkg/wait"
)

const scrollIntoViewScript = "arguments[0].scrollIntoView(true);"

// EnterText types text into the target once it is visible. By default the
// field is clicked first to focus it; WithoutClick skips that, WithClear
// empties the field beforehand, and WithEnter commits with a trailing Enter
// keystroke.
func (p *BasePage) EnterText(ctx context.Context, target any, text string, opts ...CallOption) error {
	co := applyOpts(opts)
	el, err := ensure(p.getOne(ctx, target, true, false, nil, "Element was never visible!", co))
	if err != nil {
		return err
	}

	if co.clear {
		if err := el.Clear(ctx); err != nil {
			return err
		}
		// Clear blurs the field per the WebDriver spec; click to regain
		// focus before typing.
		if err := el.Click(ctx); err != nil {
			return err
		}
	}

	chain := p.drv.Actions()

	if strings.Contains(p.drv.Name(ctx), "explorer") && strings.Contains(text, "@") {
		// IE drops "@" typed through native key events. Decompose the text
		// and produce the character with Ctrl+Alt+2 between segments.
		if !co.noClick {
			chain = chain.Click(el)
		}
		chain = atSignSegments(chain, text)
	} else {
		if !co.noClick {
			chain = chain.Click(el)
		}
		chain = chain.SendKeysToElement(el, text)
	}

	if co.enter {
		chain = chain.KeyDown(driver.KeyEnter).KeyUp(driver.KeyEnter)
	}

	p.logger.Debug("Entering text.", zap.Int("text_length", len(text)))
	return chain.Perform(ctx)
}

func atSignSegments(chain driver.Actions, text string) driver.Actions {
	for i, segment := range strings.Split(text, "@") {
		if i > 0 {
			chain = chain.
				KeyDown(driver.KeyControl).
				KeyDown(driver.KeyAlt).
				SendKeys("2").
				KeyUp(driver.KeyAlt).
				KeyUp(driver.KeyControl)
		}
		if segment != "" {
			chain = chain.SendKeys(segment)
		}
	}
	return chain
}

// EraseText removes text from the target: a focusing click by default,
// the driver's clear primitive with WithClear, or n backspace keystrokes
// with WithBackspaces.
func (p *BasePage) EraseText(ctx context.Context, target any, opts ...CallOption) error {
	co := applyOpts(opts)
	el, err := ensure(p.getOne(ctx, target, true, false, nil, "Element was never visible!", co))
	if err != nil {
		return err
	}

	if !co.noClick {
		if err := p.Click(ctx, el); err != nil {
			return err
		}
	}

	if co.clear {
		if err := el.Clear(ctx); err != nil {
			return err
		}
	}

	if co.backspaces > 0 {
		chain := p.drv.Actions()
		for i := 0; i < co.backspaces; i++ {
			chain = chain.KeyDown(driver.KeyBackspace).KeyUp(driver.KeyBackspace)
		}
		return chain.Perform(ctx)
	}
	return nil
}

// GetText returns the target's rendered text, falling back to its value
// attribute for input elements, and "" when the element carries neither.
// The target must be visible by default; PresentOnly relaxes that.
func (p *BasePage) GetText(ctx context.Context, target any, opts ...CallOption) (string, error) {
	co := applyOpts(opts)
	el, err := p.getOne(ctx, target, visibleDefault(co, true), false, nil, "Element was never present!", co)
	if err != nil {
		return "", err
	}
	if el == nil {
		return "", nil
	}
	return p.elementText(ctx, el)
}

// elementText is the text-or-value read shared with the text-scanning
// operations.
func (p *BasePage) elementText(ctx context.Context, el driver.Element) (string, error) {
	text, err := el.Text(ctx)
	if err != nil {
		return "", err
	}
	if text != "" {
		return text, nil
	}
	value, err := el.GetAttribute(ctx, "value")
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAttribute returns the named attribute of the target. The target needs
// only presence by default; VisibleOnly tightens that.
func (p *BasePage) GetAttribute(ctx context.Context, target any, attribute string, opts ...CallOption) (string, error) {
	co := applyOpts(opts)
	el, err := ensure(p.getOne(ctx, target, visibleDefault(co, false), false, nil, "Element was never present!", co))
	if err != nil {
		return "", err
	}
	value, err := el.GetAttribute(ctx, attribute)
	if err != nil {
		return "", fmt.Errorf("element with attribute <%s> was never located: %w", attribute, err)
	}
	return value, nil
}

// IsElementWithTextPresent probes, without waiting, for an element whose
// text (or value) contains the given text, and returns the first match.
// ExactMatch requires the full trimmed text to equal the needle. The target
// may also be a []driver.Element to scan handles already in hand.
func (p *BasePage) IsElementWithTextPresent(ctx context.Context, target any, text string, opts ...CallOption) (driver.Element, bool, error) {
	co := applyOpts(opts)

	elements, ok := target.([]driver.Element)
	if !ok {
		probe := *co
		zero := time.Duration(0)
		probe.timeout = &zero
		var err error
		elements, err = p.getMany(ctx, target, visibleDefault(co, false), nil, "Elements were never present!", &probe)
		if err != nil {
			return nil, false, err
		}
	}

	for _, el := range elements {
		elementText, err := p.elementText(ctx, el)
		if err != nil {
			if driver.IsStale(err) {
				continue
			}
			return nil, false, err
		}
		actual := strings.TrimSpace(elementText)
		if co.exact {
			if actual == text {
				return el, true, nil
			}
		} else if strings.Contains(actual, text) {
			return el, true, nil
		}
	}
	return nil, false, nil
}

// GetElementWithText waits for an element whose text contains (or exactly
// equals, with ExactMatch) the given text and returns it.
func (p *BasePage) GetElementWithText(ctx context.Context, target any, text string, opts ...CallOption) (driver.Element, error) {
	co := applyOpts(opts)
	spec := p.spec(co, p.explicitWait)

	if spec.Timeout == 0 {
		el, _, err := p.IsElementWithTextPresent(ctx, target, text, opts...)
		return el, err
	}

	message := fmt.Sprintf("Element with text <%s> was never located!", text)
	el, err := wait.Until(ctx, spec, message, func(ctx context.Context) (driver.Element, bool, error) {
		return p.IsElementWithTextPresent(ctx, target, text, opts...)
	})
	if err != nil {
		var te *wait.TimeoutError
		if errors.As(err, &te) {
			var res locator.Resolved
			if loc, ok := target.(locator.Locator); ok {
				if r, rerr := p.resolver(loc, co.params); rerr == nil {
					res = r
				}
			}
			return nil, &ElementNotFoundError{
				Message:   message,
				Locator:   res,
				Condition: "element with matching text",
				Timeout:   spec.Timeout,
				cause:     err,
			}
		}
		return nil, err
	}
	return el, nil
}

// UploadToFileInput sends a local file path to a file input element. The
// input needs only presence by default since file inputs are routinely
// styled out of view.
func (p *BasePage) UploadToFileInput(ctx context.Context, target any, path string, opts ...CallOption) error {
	co := applyOpts(opts)
	el, err := ensure(p.getOne(ctx, target, visibleDefault(co, false), false, nil, "Element was never present!", co))
	if err != nil {
		return err
	}
	return el.SendKeys(ctx, path)
}

// ScrollElementIntoView scrolls the page until the target is inside the
// viewport.
func (p *BasePage) ScrollElementIntoView(ctx context.Context, target any, opts ...CallOption) error {
	co := applyOpts(opts)
	el, err := ensure(p.getOne(ctx, target, visibleDefault(co, false), false, nil, "Element was never present!", co))
	if err != nil {
		return err
	}
	_, err = p.drv.ExecuteScript(ctx, scrollIntoViewScript, el)
	return err
}
