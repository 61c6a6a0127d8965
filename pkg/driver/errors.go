// File: pkg/driver/errors.go

package driver

import "errors"

// Sentinel errors every Driver implementation maps its backend's failures
// onto. The layers above classify errors exclusively through errors.Is on
// these values, never by matching error text.
var (
	// ErrStaleElement indicates an Element's underlying node was removed or
	// replaced in the document after the handle was obtained.
	ErrStaleElement = errors.New("element is stale or detached from the document")

	// ErrNoSuchElement indicates a lookup matched nothing.
	ErrNoSuchElement = errors.New("no such element")

	// ErrMoveTargetOutOfBounds indicates a pointer move was aimed outside
	// the viewport.
	ErrMoveTargetOutOfBounds = errors.New("move target out of bounds")
)

// IsStale reports whether err signals a detached element reference.
func IsStale(err error) bool { return errors.Is(err, ErrStaleElement) }

// IsNotFound reports whether err signals a failed element lookup.
func IsNotFound(err error) bool { return errors.Is(err, ErrNoSuchElement) }
