// Package keyboard ports original_source/firmware/src/{key_codes,key_map,
// key_hid}.rs: USB HID keyboard usage codes, the static left/right key
// map with its momentary overlay, and boot-keyboard report composition.
package keyboard

// Key is a closed sum type: either a modifier-byte contribution or a
// keycode slot contribution.
type Key struct {
	isMod bool
	value byte
}

// Mod builds a modifier-bit Key.
func Mod(bit byte) Key { return Key{isMod: true, value: bit} }

// Code builds a keycode Key.
func Code(code byte) Key { return Key{isMod: false, value: code} }

// IsMod reports whether this Key contributes to the modifier byte.
func (k Key) IsMod() bool { return k.isMod }

// Value returns the modifier bit (IsMod true) or keycode (IsMod false).
func (k Key) Value() byte { return k.value }

// KeyNone occupies unused matrix cells.
var KeyNone = Code(0x00)

// Modifier bits, spec §4.5 step 4's "one modifier byte".
var (
	ModLeftCtrl   = Mod(0x01)
	ModLeftShift  = Mod(0x02)
	ModLeftAlt    = Mod(0x04)
	ModLeftMeta   = Mod(0x08)
	ModRightCtrl  = Mod(0x10)
	ModRightShift = Mod(0x20)
	ModRightAlt   = Mod(0x40)
	ModRightMeta  = Mod(0x80)
)

// USB HID keyboard usage IDs, ported from key_codes.rs.
var (
	KeyA = Code(0x04)
	KeyB = Code(0x05)
	KeyC = Code(0x06)
	KeyD = Code(0x07)
	KeyE = Code(0x08)
	KeyF = Code(0x09)
	KeyG = Code(0x0a)
	KeyH = Code(0x0b)
	KeyI = Code(0x0c)
	KeyJ = Code(0x0d)
	KeyK = Code(0x0e)
	KeyL = Code(0x0f)
	KeyM = Code(0x10)
	KeyN = Code(0x11)
	KeyO = Code(0x12)
	KeyP = Code(0x13)
	KeyQ = Code(0x14)
	KeyR = Code(0x15)
	KeyS = Code(0x16)
	KeyT = Code(0x17)
	KeyU = Code(0x18)
	KeyV = Code(0x19)
	KeyW = Code(0x1a)
	KeyX = Code(0x1b)
	KeyY = Code(0x1c)
	KeyZ = Code(0x1d)

	Key1 = Code(0x1e)
	Key2 = Code(0x1f)
	Key3 = Code(0x20)
	Key4 = Code(0x21)
	Key5 = Code(0x22)
	Key6 = Code(0x23)
	Key7 = Code(0x24)
	Key8 = Code(0x25)
	Key9 = Code(0x26)
	Key0 = Code(0x27)

	KeyEnter     = Code(0x28)
	KeyEsc       = Code(0x29)
	KeyBackspace = Code(0x2a)
	KeyTab       = Code(0x2b)
	KeySpace     = Code(0x2c)
	KeyMinus     = Code(0x2d)
	KeyEqual     = Code(0x2e)
	KeyLeftBrace = Code(0x2f)
	KeyRightBrace = Code(0x30)

	KeySemicolon  = Code(0x33)
	KeyApostrophe = Code(0x34)
	KeyGrave      = Code(0x35)
	KeyComma      = Code(0x36)
	KeyDot        = Code(0x37)
	KeySlash      = Code(0x38)

	KeyPageUp   = Code(0x4b)
	KeyHome     = Code(0x4a)
	KeyPageDown = Code(0x4e)
	KeyEnd      = Code(0x4d)
	KeyRight    = Code(0x4f)
	KeyLeft     = Code(0x50)
	KeyDown     = Code(0x51)
	KeyUp       = Code(0x52)
)
