// File: pkg/driver/cdp/selector.go
package cdp

import (
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/dom"

	"github.com/Projectplace/basepage/pkg/driver"
)

// selectorFor translates a lookup strategy into the query the protocol
// understands: a CSS selector or an XPath expression.
func selectorFor(strategy driver.Strategy, selector string) (query string, isXPath bool, err error) {
	switch strategy {
	case driver.ByCSS:
		return selector, false, nil
	case driver.ByID:
		return fmt.Sprintf(`[id=%s]`, cssLiteral(selector)), false, nil
	case driver.ByName:
		return fmt.Sprintf(`[name=%s]`, cssLiteral(selector)), false, nil
	case driver.ByClassName:
		return fmt.Sprintf(`[class~=%s]`, cssLiteral(selector)), false, nil
	case driver.ByTagName:
		return selector, false, nil
	case driver.ByXPath:
		return selector, true, nil
	case driver.ByLinkText:
		return fmt.Sprintf(`.//a[normalize-space(.)=%s]`, xpathLiteral(selector)), true, nil
	case driver.ByPartialLinkText:
		return fmt.Sprintf(`.//a[contains(normalize-space(.), %s)]`, xpathLiteral(selector)), true, nil
	default:
		return "", false, fmt.Errorf("unknown lookup strategy %q", strategy)
	}
}

// cssLiteral quotes a value for use inside a CSS attribute selector.
func cssLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// xpathLiteral quotes a string for embedding in an XPath expression. XPath
// 1.0 has no escape sequences, so a value holding both quote kinds has to
// be assembled with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if part != "" {
			quoted = append(quoted, `"`+part+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// classifyErr maps protocol failures onto the driver error taxonomy. CDP
// reports a detached or removed node as error -32000 ("Could not find
// node"), which callers need to see as staleness.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "Could not find node") || strings.Contains(msg, "-32000") {
		return fmt.Errorf("%v: %w", err, driver.ErrStaleElement)
	}
	if strings.Contains(msg, "Could not find object") || strings.Contains(msg, "Cannot find context") {
		return fmt.Errorf("%v: %w", err, driver.ErrStaleElement)
	}
	return err
}

// boxCenter is the centroid of a box model's content quad, which the
// protocol lays out as [x0, y0, x1, y1, x2, y2, x3, y3].
func boxCenter(box *dom.BoxModel) (x, y float64, ok bool) {
	if box == nil || len(box.Content) < 8 {
		return 0, 0, false
	}
	x = (box.Content[0] + box.Content[2] + box.Content[4] + box.Content[6]) / 4
	y = (box.Content[1] + box.Content[3] + box.Content[5] + box.Content[7]) / 4
	return x, y, true
}
