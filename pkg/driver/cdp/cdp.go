// File: pkg/driver/cdp/cdp.go

// Package cdp implements the driver contract on top of chromedp and the
// Chrome DevTools Protocol. Lookups go through the DOM and Runtime domains,
// input through synthesized Input-domain events, so the behavior matches a
// real user session rather than scripted DOM mutation.
package cdp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/driver"
)

var jsonit = jsoniter.ConfigCompatibleWithStandardLibrary

// Driver drives one browser tab. It satisfies driver.Driver.
type Driver struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	// session correlation id carried on every log line
	id string

	// cached first result of Name
	name string
}

// Option configures a Driver at construction.
type Option func(*Driver)

// WithLogger attaches a structured logger; the default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New opens a tab under parent, which must descend from a chromedp
// allocator context (chromedp.NewExecAllocator or NewRemoteAllocator).
// Close releases the tab.
func New(parent context.Context, opts ...Option) *Driver {
	d := &Driver{
		logger: zap.NewNop(),
		id:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("cdp").With(zap.String("session_id", d.id))
	d.ctx, d.cancel = chromedp.NewContext(parent)
	return d
}

// Close tears down the tab.
func (d *Driver) Close() error {
	d.cancel()
	return nil
}

// run executes a chromedp action on the session, bounded by the caller's
// deadline when it has one.
func (d *Driver) run(ctx context.Context, action chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx := d.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(d.ctx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, action)
}

// Navigate loads the given URL and waits for the navigation to commit.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.logger.Debug("Navigating.", zap.String("url", url))
	return d.run(ctx, chromedp.Navigate(url))
}

// Name reports the browser's user agent string, fetched once and cached.
func (d *Driver) Name(ctx context.Context) string {
	if d.name != "" {
		return d.name
	}
	raw, err := d.ExecuteScript(ctx, "return navigator.userAgent;")
	if err != nil {
		d.logger.Debug("Could not read user agent.", zap.Error(err))
		return ""
	}
	var ua string
	if err := jsonit.Unmarshal(raw, &ua); err != nil {
		return ""
	}
	d.name = ua
	return d.name
}

// Actions starts an empty input chain against this session.
func (d *Driver) Actions() driver.Actions {
	return &chain{d: d}
}

// FindElement returns the first element matching the strategy, or an error
// wrapping driver.ErrNoSuchElement when nothing does.
func (d *Driver) FindElement(ctx context.Context, strategy driver.Strategy, selector string) (driver.Element, error) {
	elements, err := d.FindElements(ctx, strategy, selector)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("no element matches %s %q: %w", strategy, selector, driver.ErrNoSuchElement)
	}
	return elements[0], nil
}

// FindElements returns every element matching the strategy. No match is an
// empty slice, not an error.
func (d *Driver) FindElements(ctx context.Context, strategy driver.Strategy, selector string) ([]driver.Element, error) {
	query, isXPath, err := selectorFor(strategy, selector)
	if err != nil {
		return nil, err
	}
	if isXPath {
		root, err := d.documentObject(ctx)
		if err != nil {
			return nil, err
		}
		return d.findByXPath(ctx, root, query)
	}
	return d.findByCSS(ctx, query)
}

// findByCSS queries the document through the DOM domain and resolves each
// node id into a remote object the element handle can act on.
func (d *Driver) findByCSS(ctx context.Context, query string) ([]driver.Element, error) {
	var elements []driver.Element
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		doc, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		nodeIDs, err := dom.QuerySelectorAll(doc.NodeID, query).Do(ctx)
		if err != nil {
			return err
		}
		for _, id := range nodeIDs {
			obj, err := dom.ResolveNode().WithNodeID(id).Do(ctx)
			if err != nil {
				// The node vanished between query and resolve; skip it the
				// way a re-poll would.
				continue
			}
			elements = append(elements, &Element{d: d, id: obj.ObjectID})
		}
		return nil
	}))
	if err != nil {
		return nil, classifyErr(err)
	}
	return elements, nil
}

// xpathSnapshotScript evaluates an XPath expression with `this` as the
// context node and returns the matches as an array.
const xpathSnapshotScript = `function(xpath) {
	var snap = document.evaluate(xpath, this, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
	var out = [];
	for (var i = 0; i < snap.snapshotLength; i++) {
		out.push(snap.snapshotItem(i));
	}
	return out;
}`

// findByXPath evaluates the expression against the given context object and
// unpacks the resulting array into element handles.
func (d *Driver) findByXPath(ctx context.Context, contextObject runtime.RemoteObjectID, xpath string) ([]driver.Element, error) {
	var elements []driver.Element
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		result, exc, err := runtime.CallFunctionOn(xpathSnapshotScript).
			WithObjectID(contextObject).
			WithArguments([]*runtime.CallArgument{argValue(xpath)}).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("xpath evaluation failed: %s", exc.Text)
		}
		ids, err := arrayElementIDs(ctx, result.ObjectID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			elements = append(elements, &Element{d: d, id: id})
		}
		return nil
	}))
	if err != nil {
		return nil, classifyErr(err)
	}
	return elements, nil
}

// documentObject resolves the document into a remote object, the receiver
// for page-level script calls.
func (d *Driver) documentObject(ctx context.Context) (runtime.RemoteObjectID, error) {
	var id runtime.RemoteObjectID
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, exc, err := runtime.Evaluate("document").Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("resolving document failed: %s", exc.Text)
		}
		id = obj.ObjectID
		return nil
	}))
	if err != nil {
		return "", classifyErr(err)
	}
	return id, nil
}

// ExecuteScript runs a script body in the page, Selenium style: the body
// may use `return` and refers to its arguments as arguments[0] and so on.
// Element arguments are passed as live DOM references, anything else as a
// JSON value. The result comes back JSON-encoded.
func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (json.RawMessage, error) {
	root, err := d.documentObject(ctx)
	if err != nil {
		return nil, err
	}

	callArgs := make([]*runtime.CallArgument, 0, len(args))
	for _, arg := range args {
		switch a := arg.(type) {
		case *Element:
			callArgs = append(callArgs, &runtime.CallArgument{ObjectID: a.id})
		case driver.Element:
			el, ok := a.(*Element)
			if !ok {
				return nil, fmt.Errorf("foreign element handle %T cannot be passed to a script", a)
			}
			callArgs = append(callArgs, &runtime.CallArgument{ObjectID: el.id})
		default:
			callArgs = append(callArgs, argValue(a))
		}
	}

	declaration := "function() {" + script + "}"

	var raw json.RawMessage
	err = d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		result, exc, err := runtime.CallFunctionOn(declaration).
			WithObjectID(root).
			WithArguments(callArgs).
			WithReturnByValue(true).
			WithAwaitPromise(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("script failed: %s", exc.Text)
		}
		if result != nil {
			raw = json.RawMessage(result.Value)
		}
		return nil
	}))
	if err != nil {
		return nil, classifyErr(err)
	}
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	return raw, nil
}

// argValue JSON-encodes a plain value into a call argument.
func argValue(v any) *runtime.CallArgument {
	encoded, err := jsonit.Marshal(v)
	if err != nil {
		encoded = []byte("null")
	}
	return &runtime.CallArgument{Value: encoded}
}
