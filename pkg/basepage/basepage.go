// File: pkg/basepage/basepage.go

// Package basepage is the page-object facade: it composes the locator
// resolver, the condition evaluators and the wait poller into high-level
// element lookups and interactions for UI test suites. Every operation
// accepts either a locator.Locator (resolved fresh on each poll) or a live
// driver.Element, mirroring how chromedp queries take an untyped selector.
package basepage

import (
	"context"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Projectplace/basepage/pkg/config"
	"github.com/Projectplace/basepage/pkg/driver"
	"github.com/Projectplace/basepage/pkg/locator"
	"github.com/Projectplace/basepage/pkg/wait"
)

// defaultPendingScript probes the classic jQuery in-flight request counter.
// Applications with a different pending-work signal override it with
// WithPendingRequestsScript.
const defaultPendingScript = "return jQuery.active === 0;"

var jsonit = jsoniter.ConfigCompatibleWithStandardLibrary

// BasePage carries per-page state (driver session, root URL, wait tuning)
// and is the receiver for all accessor and interaction operations. Concrete
// page objects embed it and add their own locators on top.
//
// A BasePage drives one exclusively-owned browser session; calls are not
// safe for concurrent use from multiple goroutines.
type BasePage struct {
	drv    driver.Driver
	logger *zap.Logger

	resolver locator.Resolver
	rootURL  string

	explicitWait  time.Duration
	pollInterval  time.Duration
	backoff       float64
	clock         wait.Clock
	pendingScript string
}

// Option configures a BasePage at construction.
type Option func(*BasePage)

// WithLogger attaches a structured logger; the default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *BasePage) {
		if logger != nil {
			p.logger = logger.Named("basepage")
		}
	}
}

// WithResolver swaps the locator resolution strategy, letting page objects
// apply house selector conventions without touching the accessor.
func WithResolver(r locator.Resolver) Option {
	return func(p *BasePage) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithRootURL sets the base URL Open navigates relative to.
func WithRootURL(url string) Option {
	return func(p *BasePage) { p.rootURL = strings.TrimSuffix(url, "/") }
}

// WithExplicitWait overrides the default timeout applied to lookups that
// give none of their own.
func WithExplicitWait(d time.Duration) Option {
	return func(p *BasePage) {
		if d >= 0 {
			p.explicitWait = d
		}
	}
}

// WithWaitConfig applies the wait tuning loaded by pkg/config.
func WithWaitConfig(cfg config.WaitConfig) Option {
	return func(p *BasePage) {
		if cfg.ExplicitWait > 0 {
			p.explicitWait = cfg.ExplicitWait
		}
		if cfg.PollInterval > 0 {
			p.pollInterval = cfg.PollInterval
		}
		if cfg.BackoffFactor > 0 {
			p.backoff = cfg.BackoffFactor
		}
	}
}

// WithPendingRequestsScript replaces the script WaitForPendingRequests
// polls. It must return true once the application is quiet.
func WithPendingRequestsScript(script string) Option {
	return func(p *BasePage) {
		if script != "" {
			p.pendingScript = script
		}
	}
}

// WithClock injects a fake clock into every wait this page runs. Test
// support.
func WithClock(c wait.Clock) Option {
	return func(p *BasePage) { p.clock = c }
}

// New wraps an existing driver session in a BasePage. The driver is a
// required collaborator; passing nil is a programming error.
func New(drv driver.Driver, opts ...Option) *BasePage {
	if drv == nil {
		panic("basepage: New called with nil driver")
	}
	p := &BasePage{
		drv:           drv,
		logger:        zap.NewNop(),
		resolver:      locator.Resolve,
		explicitWait:  30 * time.Second,
		pollInterval:  wait.DefaultPollInterval,
		backoff:       wait.DefaultBackoffFactor,
		pendingScript: defaultPendingScript,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Driver exposes the wrapped session for the rare cases where a page object
// needs a raw driver capability.
func (p *BasePage) Driver() driver.Driver { return p.drv }

// Open navigates to path relative to the page's root URL. An empty path
// opens the root itself.
func (p *BasePage) Open(ctx context.Context, path string) error {
	url := p.rootURL
	if path != "" {
		url = p.rootURL + "/" + strings.TrimPrefix(path, "/")
	}
	p.logger.Debug("Opening page", zap.String("url", url))
	return p.drv.Navigate(ctx, url)
}

// spec builds the wait spec for one call, falling back to the given timeout
// when the call options carry none.
func (p *BasePage) spec(co *callOpts, fallback time.Duration) wait.Spec {
	timeout := fallback
	if co.timeout != nil {
		timeout = *co.timeout
	}
	return wait.Spec{
		Timeout:       timeout,
		PollInterval:  p.pollInterval,
		BackoffFactor: p.backoff,
		Clock:         p.clock,
	}
}

// scriptString runs a script and decodes its result as a string.
func (p *BasePage) scriptString(ctx context.Context, script string, args ...any) (string, error) {
	raw, err := p.drv.ExecuteScript(ctx, script, args...)
	if err != nil {
		return "", err
	}
	var s string
	if err := jsonit.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

// scriptBool runs a script and decodes its result as a boolean.
func (p *BasePage) scriptBool(ctx context.Context, script string, args ...any) (bool, error) {
	raw, err := p.drv.ExecuteScript(ctx, script, args...)
	if err != nil {
		return false, err
	}
	var b bool
	if err := jsonit.Unmarshal(raw, &b); err != nil {
		return false, err
	}
	return b, nil
}
