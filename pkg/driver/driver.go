// File: pkg/driver/driver.go
package driver

import (
	"context"
	"encoding/json"
)

// Strategy identifies how a selector string should be interpreted by the
// underlying automation driver.
type Strategy string

const (
	ByID              Strategy = "id"
	ByCSS             Strategy = "css selector"
	ByXPath           Strategy = "xpath"
	ByClassName       Strategy = "class name"
	ByName            Strategy = "name"
	ByTagName         Strategy = "tag name"
	ByLinkText        Strategy = "link text"
	ByPartialLinkText Strategy = "partial link text"
)

// Point is a pixel coordinate in the page's viewport.
type Point struct {
	X float64
	Y float64
}

// Finder is the query surface shared by a whole document (Driver) and a
// parent element (Element). Condition evaluators are written against this
// so that child-scoped lookups reuse the same code path.
type Finder interface {
	// FindElement returns the first element matching the selector, or an
	// error wrapping ErrNoSuchElement when nothing matches.
	FindElement(ctx context.Context, strategy Strategy, selector string) (Element, error)

	// FindElements returns every element matching the selector. An empty
	// slice is a valid result, not an error.
	FindElements(ctx context.Context, strategy Strategy, selector string) ([]Element, error)
}

// Driver is the enumerated capability surface this library needs from a
// browser-automation backend. It deliberately lists named operations instead
// of forwarding arbitrary calls, so implementations (and test fakes) are
// explicit about what they support.
type Driver interface {
	Finder

	// Name reports the browser product driving the session, lowercased
	// (e.g. "chrome", "firefox", "internet explorer").
	Name(ctx context.Context) string

	// Navigate loads the given URL in the session's active page.
	Navigate(ctx context.Context, url string) error

	// ExecuteScript runs a JavaScript function body in the page. Arguments
	// are exposed as the usual arguments array; Element values are passed
	// as live DOM nodes. The script's return value comes back as raw JSON.
	ExecuteScript(ctx context.Context, script string, args ...any) (json.RawMessage, error)

	// Actions starts a new input-primitive chain. Nothing is sent to the
	// browser until Perform is called on the returned chain.
	Actions() Actions
}

// Element is a borrowed reference to a live DOM node. Any method may fail
// with an error wrapping ErrStaleElement once the underlying node has been
// detached or replaced; callers decide whether that is retryable.
type Element interface {
	Finder

	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)

	// GetAttribute returns the attribute's value, falling back to the DOM
	// property of the same name. Missing attributes yield "".
	GetAttribute(ctx context.Context, name string) (string, error)

	// Text returns the element's rendered text.
	Text(ctx context.Context) (string, error)

	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error

	// Location returns the center of the element in viewport coordinates.
	Location(ctx context.Context) (Point, error)
}

// Actions builds a sequence of low-level pointer and key primitives which is
// dispatched in order by Perform. The builder methods never touch the
// browser themselves.
type Actions interface {
	MoveTo(el Element) Actions
	MoveToWithOffset(el Element, dx, dy float64) Actions
	MoveByOffset(dx, dy float64) Actions

	// Click clicks the element, or the current pointer position when el is
	// nil.
	Click(el Element) Actions
	ClickAndHold(el Element) Actions
	Release() Actions

	KeyDown(k Key) Actions
	KeyUp(k Key) Actions
	SendKeys(text string) Actions
	SendKeysToElement(el Element, text string) Actions

	Perform(ctx context.Context) error
}
