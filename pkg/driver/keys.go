// File: pkg/driver/keys.go

package driver

// Key names a non-printable key for use in action chains. The values follow
// the DOM UI Events key identifiers so implementations can pass them to the
// backend unchanged.
type Key string

const (
	KeyEnter     Key = "Enter"
	KeyBackspace Key = "Backspace"
	KeyTab       Key = "Tab"
	KeyEscape    Key = "Escape"
	KeyShift     Key = "Shift"
	KeyControl   Key = "Control"
	KeyAlt       Key = "Alt"
	// KeyCommand is the macOS meta key, used for multi-select clicks.
	KeyCommand Key = "Meta"
)
