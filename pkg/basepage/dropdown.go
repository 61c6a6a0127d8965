// File: pkg/basepage/dropdown.go
package basepage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/driver"
	"github.com/Projectplace/basepage/pkg/locator"
)

// SelectFromDropDownByValue selects the option of a native select element
// whose value attribute equals value.
func (p *BasePage) SelectFromDropDownByValue(ctx context.Context, dropdown any, value string, opts ...CallOption) error {
	co := applyOpts(opts)
	dd, err := ensure(p.getOne(ctx, dropdown, visibleDefault(co, false), false, nil, "Element was never present!", co))
	if err != nil {
		return err
	}

	options, err := dd.FindElements(ctx, driver.ByTagName, "option")
	if err != nil {
		return err
	}
	for _, opt := range options {
		v, err := opt.GetAttribute(ctx, "value")
		if err != nil {
			if driver.IsStale(err) {
				continue
			}
			return err
		}
		if v == value {
			return opt.Click(ctx)
		}
	}
	return fmt.Errorf("option with value <%s> not in dropdown: %w", value, driver.ErrNoSuchElement)
}

// SelectFromDropDownByText opens a dropdown, waits for its options and
// clicks the first whose text matches. Dropdown parameters come from
// WithDropDownParams and option parameters from WithOptionParams. ExactMatch
// requires the full trimmed text to equal text instead of containing it.
func (p *BasePage) SelectFromDropDownByText(ctx context.Context, dropdown, option any, text string, opts ...CallOption) error {
	co := applyOpts(opts)

	dco := *co
	dco.params = co.ddParams
	if err := p.click(ctx, dropdown, "", &dco); err != nil {
		return err
	}

	oco := *co
	oco.params = co.optParams
	candidates, err := p.getMany(ctx, option, visibleDefault(co, false), nil, "Elements were never present!", &oco)
	if err != nil {
		return err
	}

	for _, el := range candidates {
		elementText, err := p.elementText(ctx, el)
		if err != nil {
			if driver.IsStale(err) {
				continue
			}
			return err
		}
		actual := strings.TrimSpace(elementText)
		if co.exact && actual != text {
			continue
		}
		if !co.exact && !strings.Contains(actual, text) {
			continue
		}
		p.logger.Debug("Selecting dropdown option.", zap.String("text", text))
		return el.Click(ctx)
	}
	return fmt.Errorf("option with text <%s> not in dropdown: %w", text, driver.ErrNoSuchElement)
}

// SelectFromDropDownByLocator opens a dropdown and clicks the option named
// by its own locator, for menus whose entries are individually addressable.
func (p *BasePage) SelectFromDropDownByLocator(ctx context.Context, dropdown any, option locator.Locator, opts ...CallOption) error {
	co := applyOpts(opts)

	dco := *co
	dco.params = co.ddParams
	if err := p.click(ctx, dropdown, "", &dco); err != nil {
		return err
	}

	oco := *co
	oco.params = co.optParams
	return p.click(ctx, option, "", &oco)
}
