// File: pkg/basepage/options.go
package basepage

import "time"

// callOpts collects the per-call knobs shared by the accessor and
// interaction operations. Each operation reads only the fields that apply
// to it.
type callOpts struct {
	params       map[string]string
	targetParams map[string]string
	ddParams     map[string]string
	optParams    map[string]string

	timeout *time.Duration
	visible *bool
	exact   bool

	// hover
	useJS       bool
	closeTarget any
	retryOn     func(error) bool

	// text entry / erasure
	noClick    bool
	clear      bool
	enter      bool
	backspaces int
}

// CallOption tunes a single operation.
type CallOption func(*callOpts)

func applyOpts(opts []CallOption) *callOpts {
	co := &callOpts{}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// WithParams supplies placeholder values for the operation's locator (the
// source locator, for drag-and-drop).
func WithParams(params map[string]string) CallOption {
	return func(co *callOpts) { co.params = params }
}

// WithTargetParams supplies placeholder values for a drag-and-drop target
// locator.
func WithTargetParams(params map[string]string) CallOption {
	return func(co *callOpts) { co.targetParams = params }
}

// WithDropDownParams supplies placeholder values for the drop-down control
// locator in the SelectFromDropDown operations.
func WithDropDownParams(params map[string]string) CallOption {
	return func(co *callOpts) { co.ddParams = params }
}

// WithOptionParams supplies placeholder values for the option locator in
// the SelectFromDropDown operations.
func WithOptionParams(params map[string]string) CallOption {
	return func(co *callOpts) { co.optParams = params }
}

// WithTimeout bounds the operation's wait. A zero duration turns the lookup
// into a non-blocking probe: one evaluation, no retries, no error when the
// element is simply not there.
func WithTimeout(d time.Duration) CallOption {
	return func(co *callOpts) { co.timeout = &d }
}

// VisibleOnly requires the target to be displayed, for operations that
// default to presence only.
func VisibleOnly() CallOption {
	v := true
	return func(co *callOpts) { co.visible = &v }
}

// PresentOnly accepts a merely attached target, for operations that default
// to requiring visibility.
func PresentOnly() CallOption {
	v := false
	return func(co *callOpts) { co.visible = &v }
}

// ExactMatch makes text comparisons exact instead of substring.
func ExactMatch() CallOption {
	return func(co *callOpts) { co.exact = true }
}

// WithSyntheticEvents makes hover operations dispatch a synthesized DOM
// mouse event through the driver's script channel instead of simulating
// native pointer input.
func WithSyntheticEvents() CallOption {
	return func(co *callOpts) { co.useJS = true }
}

// WithCloseTarget moves the pointer relative to an alternate element when a
// scoped hover closes, for popovers that cover their own trigger.
func WithCloseTarget(target any) CallOption {
	return func(co *callOpts) { co.closeTarget = target }
}

// WithRetryOn extends PerformHoverAction's retry policy beyond staleness to
// any error the predicate accepts.
func WithRetryOn(pred func(error) bool) CallOption {
	return func(co *callOpts) { co.retryOn = pred }
}

// WithoutClick skips the focusing click EnterText performs before typing.
func WithoutClick() CallOption {
	return func(co *callOpts) { co.noClick = true }
}

// WithClear empties the field before EnterText types, or makes EraseText
// use the driver's clear primitive.
func WithClear() CallOption {
	return func(co *callOpts) { co.clear = true }
}

// WithEnter commits typed text with a trailing Enter keystroke.
func WithEnter() CallOption {
	return func(co *callOpts) { co.enter = true }
}

// WithBackspaces erases by issuing n backspace keystrokes.
func WithBackspaces(n int) CallOption {
	return func(co *callOpts) {
		if n > 0 {
			co.backspaces = n
		}
	}
}
