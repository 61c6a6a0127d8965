// File: pkg/locator/locator.go

// Package locator describes how to find an element before the driver is
// involved: a lookup strategy plus a selector template whose {name}
// placeholders are filled from a parameter map at resolution time.
package locator

import (
	"fmt"
	"strings"

	"github.com/Projectplace/basepage/pkg/driver"
)

// Locator is the abstract description of an element lookup. It is cheap to
// construct, immutable by convention, and never persisted across calls.
type Locator struct {
	Strategy driver.Strategy
	Template string

	// Params are default placeholder values; parameters supplied at call
	// time take precedence over them.
	Params map[string]string
}

// New returns a locator with the given strategy and selector template.
func New(strategy driver.Strategy, template string) Locator {
	return Locator{Strategy: strategy, Template: template}
}

func (l Locator) String() string {
	return fmt.Sprintf("type <%s> selector <%s>", l.Strategy, l.Template)
}

// Resolved is a locator after placeholder substitution, ready to hand to
// the driver boundary.
type Resolved struct {
	Strategy driver.Strategy
	Selector string
}

func (r Resolved) String() string {
	return fmt.Sprintf("type <%s> selector <%s>", r.Strategy, r.Selector)
}

// Resolver turns a locator plus call-time parameters into a driver-ready
// form. The element accessor takes one of these as an injected dependency,
// so page objects with house conventions (prefixing, i18n keys) can swap in
// their own without subclassing anything.
type Resolver func(loc Locator, params map[string]string) (Resolved, error)

// PlaceholderError reports a template placeholder with no value to fill it.
// This is a programming or configuration mistake, never retried.
type PlaceholderError struct {
	Template string
	Key      string
}

func (e *PlaceholderError) Error() string {
	return fmt.Sprintf("no parameter for placeholder {%s} in template %q", e.Key, e.Template)
}

// InvalidParameterError reports input whose shape is wrong, as opposed to
// UI state that has not arrived yet. It is always immediate and fatal.
type InvalidParameterError struct {
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return "invalid parameter: " + e.Reason
}

// Resolve is the default Resolver. It substitutes {name} placeholders in
// the template using the locator's own params overlaid with the call-time
// params. A placeholder with no value fails with *PlaceholderError; a
// malformed template fails with *InvalidParameterError. Pure function, no
// I/O.
func Resolve(loc Locator, params map[string]string) (Resolved, error) {
	merged := loc.Params
	if len(params) > 0 {
		merged = make(map[string]string, len(loc.Params)+len(params))
		for k, v := range loc.Params {
			merged[k] = v
		}
		for k, v := range params {
			merged[k] = v
		}
	}

	selector, err := expand(loc.Template, merged)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Strategy: loc.Strategy, Selector: selector}, nil
}

// expand fills {name} placeholders from params. Text outside placeholders
// passes through untouched, so CSS braces do not occur in the supported
// strategies' selectors and XPath predicates use none.
func expand(template string, params map[string]string) (string, error) {
	if !strings.ContainsRune(template, '{') {
		return template, nil
	}

	var sb strings.Builder
	sb.Grow(len(template))

	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			sb.WriteString(rest)
			return sb.String(), nil
		}
		sb.WriteString(rest[:open])

		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return "", &InvalidParameterError{
				Reason: fmt.Sprintf("unterminated placeholder in template %q", template),
			}
		}

		key := rest[open+1 : open+closing]
		if key == "" {
			return "", &InvalidParameterError{
				Reason: fmt.Sprintf("empty placeholder in template %q", template),
			}
		}
		value, ok := params[key]
		if !ok {
			return "", &PlaceholderError{Template: template, Key: key}
		}
		sb.WriteString(value)
		rest = rest[open+closing+1:]
	}
}
