package runtime

import (
	"context"
	"log"
	"time"

	"github.com/splitwing/splitwing/pkg/keyboard"
	"github.com/splitwing/splitwing/pkg/proto"
)

// HIDReporter runs only on the half configured as the reporter (spec §3:
// "only left emits HID reports"). Each tick it non-blockingly takes the
// freshest local and remote KeyUpdate, falling back to the latched value
// on a quiet tick, composes a boot report, and submits it.
type HIDReporter struct {
	Local, Remote *Signal[proto.KeyUpdate]
	Layout        keyboard.Layout
	Endpoint      HIDEndpoint
	Interval      time.Duration
	Logger        *log.Logger
}

// Run reports until ctx is done.
func (h *HIDReporter) Run(ctx context.Context) error {
	interval := h.Interval
	if interval <= 0 {
		interval = DefaultScanInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.tick()
		}
	}
}

func (h *HIDReporter) tick() {
	local := takeOrLatched(h.Local)
	remote := takeOrLatched(h.Remote)
	overlay := keyboard.OverlayHeld(local)

	report := keyboard.ComposeReport(local, remote, h.Layout, overlay)
	if err := h.Endpoint.SubmitReport(report); err != nil && h.Logger != nil {
		h.Logger.Printf("hid reporter: submit error: %v", err)
	}
}

func takeOrLatched(s *Signal[proto.KeyUpdate]) proto.KeyUpdate {
	if v, ok := s.TryTake(); ok {
		return v
	}
	return s.Latched()
}
