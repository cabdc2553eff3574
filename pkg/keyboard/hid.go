package keyboard

import "github.com/splitwing/splitwing/pkg/proto"

// BootReport is the 8-byte boot-keyboard HID report: modifier byte,
// reserved byte, and six keycode slots (spec §4.5 step 4).
type BootReport [8]byte

// Modifier returns the report's modifier byte.
func (r BootReport) Modifier() byte { return r[0] }

// Keycodes returns the report's six keycode slots.
func (r BootReport) Keycodes() [6]byte {
	var c [6]byte
	copy(c[:], r[2:8])
	return c
}

// ComposeReport merges a left and right half's KeyUpdate through the
// active key table (the overlay table when overlayHeld and layout has
// one) into a boot-keyboard report. Modifier keys accumulate into the
// modifier byte; the first six non-modifier keys encountered, in the
// order they appear in left.Keys and then right.Keys, fill the keycode
// slots. Keys beyond the sixth are silently dropped (spec §4.5 step 4,
// §8's HID composition scenario).
func ComposeReport(left, right proto.KeyUpdate, layout Layout, overlayHeld bool) BootReport {
	leftTable, rightTable := layout.Left, layout.Right
	if overlayHeld && layout.HasOverlay {
		leftTable, rightTable = layout.OverlayLeft, layout.OverlayRight
	}

	var report BootReport
	slot := 0

	apply := func(k Key) {
		if k == overlayTriggerKey || k == KeyNone {
			return
		}
		if k.IsMod() {
			report[0] |= k.Value()
			return
		}
		if slot < 6 {
			report[2+slot] = k.Value()
			slot++
		}
	}

	for _, loc := range left.Keys {
		apply(leftTable[loc.Row()][loc.Col()])
	}
	for _, loc := range right.Keys {
		apply(rightTable[loc.Row()][loc.Col()])
	}

	return report
}
