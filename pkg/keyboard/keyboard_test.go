package keyboard

import (
	"testing"

	"github.com/splitwing/splitwing/pkg/proto"
)

func TestComposeReportModifierAndKeycodes(t *testing.T) {
	layout := DefaultLayout()
	left := proto.KeyUpdate{Keys: []proto.MatrixLoc{
		proto.NewMatrixLoc(3, 0), // ModLeftShift
		proto.NewMatrixLoc(0, 0), // KeyQ
	}}
	right := proto.KeyUpdate{Keys: []proto.MatrixLoc{
		proto.NewMatrixLoc(0, 2), // KeyY
	}}

	report := ComposeReport(left, right, layout, false)
	if report.Modifier() != ModLeftShift.Value() {
		t.Fatalf("modifier = %#x, want %#x", report.Modifier(), ModLeftShift.Value())
	}
	codes := report.Keycodes()
	if codes[0] != KeyQ.Value() || codes[1] != KeyY.Value() {
		t.Fatalf("keycodes = %v, want [Q, Y, ...]", codes)
	}
}

func TestComposeReportDropsBeyondSixKeys(t *testing.T) {
	layout := DefaultLayout()
	left := proto.KeyUpdate{Keys: []proto.MatrixLoc{
		proto.NewMatrixLoc(0, 0), // Q
		proto.NewMatrixLoc(0, 1), // W
		proto.NewMatrixLoc(0, 2), // E
		proto.NewMatrixLoc(1, 0), // A
	}}
	right := proto.KeyUpdate{Keys: []proto.MatrixLoc{
		proto.NewMatrixLoc(0, 2), // Y
		proto.NewMatrixLoc(0, 3), // U
		proto.NewMatrixLoc(0, 4), // I
		proto.NewMatrixLoc(0, 5), // O
	}}

	report := ComposeReport(left, right, layout, false)
	codes := report.Keycodes()
	for i, c := range codes {
		if c == 0 {
			t.Fatalf("slot %d unexpectedly empty: %v", i, codes)
		}
	}
	// Eight physical keys pressed, only six slots: O must have been dropped.
	for _, c := range codes {
		if c == KeyO.Value() {
			t.Fatal("expected eighth key to be dropped, found KeyO in report")
		}
	}
}

func TestComposeReportOverlaySwitchesTable(t *testing.T) {
	layout := DefaultLayout()
	right := proto.KeyUpdate{Keys: []proto.MatrixLoc{proto.NewMatrixLoc(1, 2)}}

	base := ComposeReport(proto.NoKeys(), right, layout, false)
	overlay := ComposeReport(proto.NoKeys(), right, layout, true)

	if base.Keycodes()[0] != KeyH.Value() {
		t.Fatalf("base table slot = %#x, want KeyH", base.Keycodes()[0])
	}
	if overlay.Keycodes()[0] != KeyLeft.Value() {
		t.Fatalf("overlay table slot = %#x, want KeyLeft", overlay.Keycodes()[0])
	}
}

func TestOverlayHeldDetectsTriggerCoordinate(t *testing.T) {
	held := proto.KeyUpdate{Keys: []proto.MatrixLoc{proto.NewMatrixLoc(4, 6)}}
	notHeld := proto.KeyUpdate{Keys: []proto.MatrixLoc{proto.NewMatrixLoc(0, 0)}}

	if !OverlayHeld(held) {
		t.Fatal("expected overlay trigger coordinate to report held")
	}
	if OverlayHeld(notHeld) {
		t.Fatal("expected non-trigger coordinate to report not held")
	}
}
