package runtime

import (
	"context"
	"log"

	"github.com/splitwing/splitwing/pkg/proto"
)

// BusAddress is the fixed inter-half bus address (spec §6), matching
// original_source/firmware/src/i2c.rs's hardcoded 0x55.
const BusAddress = 0x55

// BusMaster forwards the latest local KeyUpdate (as published by its
// half's MatrixScanner), CRC-framed, to the other half over Link; updates
// superseded before it takes them are not sent. No retry, no ack (spec
// §4.4/§5).
type BusMaster struct {
	Link   BusLink
	Local  *Signal[proto.KeyUpdate]
	Logger *log.Logger
}

// Run waits for each fresh local KeyUpdate and forwards it until ctx is
// done.
func (m *BusMaster) Run(ctx context.Context) error {
	for {
		update, ok := m.waitForUpdate(ctx)
		if !ok {
			return ctx.Err()
		}

		encoded, err := proto.CSEncodeKeyUpdate(update)
		if err != nil {
			m.logf("bus master: encode error: %v", err)
			continue
		}
		if err := m.Link.Write(ctx, BusAddress, encoded); err != nil {
			m.logf("bus master: write error: %v", err)
			continue
		}
	}
}

// waitForUpdate polls Local at a fine interval rather than blocking
// indefinitely, so Run remains responsive to ctx cancellation even though
// Signal has no native wait channel (a ticker loop every pollInterval,
// like MatrixScanner's own ticker, rather than a second notification
// primitive).
func (m *BusMaster) waitForUpdate(ctx context.Context) (proto.KeyUpdate, bool) {
	ticker := pollTicker()
	defer ticker.Stop()
	for {
		if update, ok := m.Local.TryTake(); ok {
			return update, true
		}
		select {
		case <-ctx.Done():
			return proto.KeyUpdate{}, false
		case <-ticker.C:
		}
	}
}

func (m *BusMaster) logf(format string, args ...any) {
	if m.Logger != nil {
		m.Logger.Printf(format, args...)
	}
}

// BusSlave listens for addressed writes from the master half, decodes the
// CRC-framed KeyUpdate, and publishes it onto Remote for the HID reporter
// to merge.
type BusSlave struct {
	Link   BusLink
	Remote *Signal[proto.KeyUpdate]
	Logger *log.Logger
}

// Run listens until ctx is done.
func (s *BusSlave) Run(ctx context.Context) error {
	for {
		frame, err := s.Link.Read(ctx, BusAddress)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logf("bus slave: read error: %v", err)
			continue
		}

		update, pErr := proto.CSDecodeKeyUpdate(frame)
		if pErr != nil {
			s.logf("bus slave: decode error: %v", pErr)
			continue
		}
		s.Remote.Set(update)
	}
}

func (s *BusSlave) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
