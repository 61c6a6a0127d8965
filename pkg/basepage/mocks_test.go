// File: pkg/basepage/mocks_test.go
package basepage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Projectplace/basepage/pkg/driver"
)

// virtualClock advances on Sleep instead of waiting, so waits run their
// full schedule instantly.
type virtualClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newVirtualClock() *virtualClock {
	return &virtualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *virtualClock) Now() time.Time { return c.now }

func (c *virtualClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// fakeElement is a scriptable DOM node. The error fields fail the matching
// method once set; errTrip, when positive, arms the errors only after that
// many successful calls.
type fakeElement struct {
	id        string
	displayed bool
	enabled   bool
	text      string
	attrs     map[string]string

	clicks    int
	clears    int
	sentKeys  []string
	children  map[string][]driver.Element
	childErr  error
	attrCalls int

	displayedErr error
	clickErr     error
	textErr      error
	attrErr      error
}

func newFakeElement(id string) *fakeElement {
	return &fakeElement{id: id, displayed: true, enabled: true, attrs: map[string]string{}}
}

func (f *fakeElement) FindElement(ctx context.Context, s driver.Strategy, sel string) (driver.Element, error) {
	els, err := f.FindElements(ctx, s, sel)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("no child matches %q: %w", sel, driver.ErrNoSuchElement)
	}
	return els[0], nil
}

func (f *fakeElement) FindElements(ctx context.Context, s driver.Strategy, sel string) ([]driver.Element, error) {
	if f.childErr != nil {
		return nil, f.childErr
	}
	return f.children[sel], nil
}

func (f *fakeElement) IsDisplayed(ctx context.Context) (bool, error) {
	if f.displayedErr != nil {
		return false, f.displayedErr
	}
	return f.displayed, nil
}

func (f *fakeElement) IsEnabled(ctx context.Context) (bool, error) { return f.enabled, nil }

func (f *fakeElement) GetAttribute(ctx context.Context, name string) (string, error) {
	f.attrCalls++
	if f.attrErr != nil {
		return "", f.attrErr
	}
	return f.attrs[name], nil
}

func (f *fakeElement) Text(ctx context.Context) (string, error) {
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.text, nil
}

func (f *fakeElement) Click(ctx context.Context) error {
	if f.clickErr != nil {
		return f.clickErr
	}
	f.clicks++
	return nil
}

func (f *fakeElement) Clear(ctx context.Context) error {
	f.clears++
	return nil
}

func (f *fakeElement) SendKeys(ctx context.Context, text string) error {
	f.sentKeys = append(f.sentKeys, text)
	return nil
}

func (f *fakeElement) Location(ctx context.Context) (driver.Point, error) {
	return driver.Point{X: 10, Y: 10}, nil
}

// fakeChain records the primitives appended to it as compact strings like
// "keydown:Control" or "click:save", flushed into the owning driver's log
// on Perform.
type fakeChain struct {
	d     *fakeDriver
	steps []string
	err   error
}

func elID(el driver.Element) string {
	if el == nil {
		return "<pos>"
	}
	if f, ok := el.(*fakeElement); ok {
		return f.id
	}
	return "<foreign>"
}

func (c *fakeChain) record(step string) driver.Actions {
	c.steps = append(c.steps, step)
	return c
}

func (c *fakeChain) MoveTo(el driver.Element) driver.Actions {
	return c.record("moveto:" + elID(el))
}

func (c *fakeChain) MoveToWithOffset(el driver.Element, dx, dy float64) driver.Actions {
	return c.record(fmt.Sprintf("movetooffset:%s:%.0f,%.0f", elID(el), dx, dy))
}

func (c *fakeChain) MoveByOffset(dx, dy float64) driver.Actions {
	return c.record(fmt.Sprintf("movebyoffset:%.0f,%.0f", dx, dy))
}

func (c *fakeChain) Click(el driver.Element) driver.Actions {
	return c.record("click:" + elID(el))
}

func (c *fakeChain) ClickAndHold(el driver.Element) driver.Actions {
	return c.record("clickandhold:" + elID(el))
}

func (c *fakeChain) Release() driver.Actions { return c.record("release") }

func (c *fakeChain) KeyDown(k driver.Key) driver.Actions {
	return c.record("keydown:" + string(k))
}

func (c *fakeChain) KeyUp(k driver.Key) driver.Actions {
	return c.record("keyup:" + string(k))
}

func (c *fakeChain) SendKeys(text string) driver.Actions {
	return c.record("sendkeys:" + text)
}

func (c *fakeChain) SendKeysToElement(el driver.Element, text string) driver.Actions {
	return c.record("sendkeysto:" + elID(el) + ":" + text)
}

func (c *fakeChain) Perform(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	c.d.performed = append(c.d.performed, strings.Join(c.steps, " "))
	return nil
}

// fakeDriver serves elements from a selector map, or from onFind when the
// test needs per-call behavior. Every query and script call is recorded.
type fakeDriver struct {
	name     string
	elements map[string][]driver.Element
	onFind   func(sel string) ([]driver.Element, error)

	scripts     map[string]json.RawMessage
	onScript    func(script string, args ...any) (json.RawMessage, error)
	scriptCalls []string

	findCalls []string
	navigated []string
	performed []string
	chainErr  error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		name:     "chrome",
		elements: map[string][]driver.Element{},
		scripts:  map[string]json.RawMessage{},
	}
}

func (d *fakeDriver) FindElement(ctx context.Context, s driver.Strategy, sel string) (driver.Element, error) {
	els, err := d.FindElements(ctx, s, sel)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("nothing matches %q: %w", sel, driver.ErrNoSuchElement)
	}
	return els[0], nil
}

func (d *fakeDriver) FindElements(ctx context.Context, s driver.Strategy, sel string) ([]driver.Element, error) {
	d.findCalls = append(d.findCalls, sel)
	if d.onFind != nil {
		return d.onFind(sel)
	}
	return d.elements[sel], nil
}

func (d *fakeDriver) Name(ctx context.Context) string { return d.name }

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *fakeDriver) ExecuteScript(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	d.scriptCalls = append(d.scriptCalls, script)
	if d.onScript != nil {
		return d.onScript(script, args...)
	}
	if result, ok := d.scripts[script]; ok {
		return result, nil
	}
	return json.RawMessage("null"), nil
}

func (d *fakeDriver) Actions() driver.Actions {
	return &fakeChain{d: d, err: d.chainErr}
}

// countFinds returns how many queries were issued for the selector.
func (d *fakeDriver) countFinds(sel string) int {
	n := 0
	for _, c := range d.findCalls {
		if c == sel {
			n++
		}
	}
	return n
}

var _ driver.Driver = (*fakeDriver)(nil)
var _ driver.Element = (*fakeElement)(nil)

// newTestPage wires a fake driver into a page with a virtual clock and a
// short wait so exhausted waits finish instantly.
func newTestPage(d *fakeDriver) (*BasePage, *virtualClock) {
	clock := newVirtualClock()
	p := New(d,
		WithExplicitWait(2*time.Second),
		WithClock(clock),
	)
	return p, clock
}

func staleErr() error {
	return fmt.Errorf("node detached: %w", driver.ErrStaleElement)
}
