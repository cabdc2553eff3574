package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/splitwing/splitwing/pkg/keyboard"
	"github.com/splitwing/splitwing/pkg/proto"
)

type fakeHIDEndpoint struct {
	reports chan [8]byte
}

func newFakeHIDEndpoint() *fakeHIDEndpoint {
	return &fakeHIDEndpoint{reports: make(chan [8]byte, 8)}
}

func (f *fakeHIDEndpoint) SubmitReport(report [8]byte) error {
	select {
	case f.reports <- report:
	default:
	}
	return nil
}

func TestHIDReporterComposesAndSubmits(t *testing.T) {
	local := NewSignal[proto.KeyUpdate]()
	remote := NewSignal[proto.KeyUpdate]()
	endpoint := newFakeHIDEndpoint()

	local.Set(proto.KeyUpdate{Keys: []proto.MatrixLoc{proto.NewMatrixLoc(0, 0)}}) // KeyQ

	reporter := &HIDReporter{
		Local:    local,
		Remote:   remote,
		Layout:   keyboard.DefaultLayout(),
		Endpoint: endpoint,
		Interval: time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_ = reporter.Run(ctx)

	select {
	case report := <-endpoint.reports:
		if report[2] != keyboard.KeyQ.Value() {
			t.Fatalf("report keycode slot = %#x, want KeyQ", report[2])
		}
	default:
		t.Fatal("expected at least one submitted report")
	}
}

func TestHIDReporterLatchesOnQuietTick(t *testing.T) {
	local := NewSignal[proto.KeyUpdate]()
	remote := NewSignal[proto.KeyUpdate]()
	endpoint := newFakeHIDEndpoint()

	local.Set(proto.KeyUpdate{Keys: []proto.MatrixLoc{proto.NewMatrixLoc(0, 0)}})

	reporter := &HIDReporter{
		Local:    local,
		Remote:   remote,
		Layout:   keyboard.DefaultLayout(),
		Endpoint: endpoint,
		Interval: time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = reporter.Run(ctx)

	seenQ := 0
	for {
		select {
		case report := <-endpoint.reports:
			if report[2] == keyboard.KeyQ.Value() {
				seenQ++
			}
		default:
			if seenQ < 2 {
				t.Fatalf("expected the latched KeyQ report on more than one tick, saw %d", seenQ)
			}
			return
		}
	}
}
