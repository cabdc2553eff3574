package keyboard

import "github.com/splitwing/splitwing/pkg/proto"

// Layout pairs a left and right half's [NumRows][NumCols]Key table with an
// optional overlay pair substituted while the overlay key is held (spec
// §4.5's "momentary layer", original_source/firmware/src/key_map.rs).
type Layout struct {
	Left, Right                 [proto.NumRows][proto.NumCols]Key
	OverlayLeft, OverlayRight    [proto.NumRows][proto.NumCols]Key
	HasOverlay                   bool
}

var blankHalf = [proto.NumRows][proto.NumCols]Key{}

// DefaultLayout ports the concrete key placement from key_map.rs: a
// QWERTY-ish split with the bottom-right key of the left half reserved as
// the momentary overlay trigger, and an overlay half exposing navigation
// keys on the right hand's home row.
func DefaultLayout() Layout {
	left := [proto.NumRows][proto.NumCols]Key{
		{KeyQ, KeyW, KeyE, KeyR, KeyT, KeyNone, KeyNone},
		{KeyA, KeyS, KeyD, KeyF, KeyG, KeyNone, KeyNone},
		{KeyZ, KeyX, KeyC, KeyV, KeyB, KeyNone, KeyNone},
		{ModLeftShift, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone},
		{ModLeftCtrl, ModLeftAlt, ModLeftMeta, KeyNone, KeySpace, KeyNone, overlayTriggerKey},
	}

	right := [proto.NumRows][proto.NumCols]Key{
		{KeyNone, KeyNone, KeyY, KeyU, KeyI, KeyO, KeyP},
		{KeyNone, KeyNone, KeyH, KeyJ, KeyK, KeyL, KeySemicolon},
		{KeyNone, KeyNone, KeyN, KeyM, KeyComma, KeyDot, KeySlash},
		{KeyNone, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone, ModRightShift},
		{KeyNone, KeySpace, KeyNone, KeyNone, ModRightMeta, ModRightAlt, ModRightCtrl},
	}

	overlayLeft := blankHalf
	overlayLeft[4][6] = overlayTriggerKey

	overlayRight := [proto.NumRows][proto.NumCols]Key{
		{KeyEsc, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone},
		{KeyNone, KeyNone, KeyLeft, KeyDown, KeyUp, KeyRight, KeyNone},
		{KeyHome, KeyPageDown, KeyPageUp, KeyEnd, KeyNone, KeyNone, KeyNone},
		{KeyNone, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone},
		{KeyNone, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone, KeyNone},
	}

	return Layout{
		Left:          left,
		Right:         right,
		OverlayLeft:   overlayLeft,
		OverlayRight:  overlayRight,
		HasOverlay:    true,
	}
}

// overlayTriggerKey marks the matrix cell that, while held, switches
// ComposeReport to the overlay table instead of contributing a keycode
// itself.
var overlayTriggerKey = Code(0xFF)

// OverlayHeld reports whether the left half's KeyUpdate contains the
// designated overlay-trigger coordinate.
func OverlayHeld(left proto.KeyUpdate) bool {
	trigger := proto.NewMatrixLoc(4, 6)
	for _, loc := range left.Keys {
		if loc == trigger {
			return true
		}
	}
	return false
}
