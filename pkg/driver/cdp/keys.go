// File: pkg/driver/cdp/keys.go
package cdp

import (
	"github.com/chromedp/cdproto/input"

	"github.com/Projectplace/basepage/pkg/driver"
)

// keyDef carries what the Input domain needs to synthesize a non-text key:
// its DOM key and code values, the legacy Windows virtual key code, the
// text a press produces (if any), and the modifier bit it holds down (if
// it is a modifier).
type keyDef struct {
	key      string
	code     string
	vk       int64
	text     string
	modifier input.Modifier
}

var keyDefs = map[driver.Key]keyDef{
	driver.KeyEnter:     {key: "Enter", code: "Enter", vk: 13, text: "\r"},
	driver.KeyBackspace: {key: "Backspace", code: "Backspace", vk: 8},
	driver.KeyTab:       {key: "Tab", code: "Tab", vk: 9, text: "\t"},
	driver.KeyEscape:    {key: "Escape", code: "Escape", vk: 27},
	driver.KeyShift:     {key: "Shift", code: "ShiftLeft", vk: 16, modifier: input.ModifierShift},
	driver.KeyControl:   {key: "Control", code: "ControlLeft", vk: 17, modifier: input.ModifierCtrl},
	driver.KeyAlt:       {key: "Alt", code: "AltLeft", vk: 18, modifier: input.ModifierAlt},
	driver.KeyCommand:   {key: "Meta", code: "MetaLeft", vk: 91, modifier: input.ModifierCommand},
}

// keyEvent builds the key event for a known key, carrying the currently
// held modifiers.
func keyEvent(eventType input.KeyType, def keyDef, modifiers input.Modifier) *input.DispatchKeyEventParams {
	ev := input.DispatchKeyEvent(eventType).
		WithKey(def.key).
		WithCode(def.code).
		WithWindowsVirtualKeyCode(def.vk).
		WithNativeVirtualKeyCode(def.vk).
		WithModifiers(modifiers)
	if eventType == input.KeyDown && def.text != "" {
		ev = ev.WithText(def.text)
	}
	return ev
}
