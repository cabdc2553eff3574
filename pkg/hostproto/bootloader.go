package hostproto

import (
	"context"
	"fmt"
	"time"
)

// BootloaderVendorID/BootloaderProductID identify the vendor USB
// bootloader. Enumerating real USB devices by VID/PID is excluded hardware
// access (spec §1), and the probe splitwing-cli passes to
// WaitForBootloader does not match on these IDs; BootloaderProbe lets
// tests inject a fake.
const (
	BootloaderVendorID  = 0x2E8A
	BootloaderProductID = 0x0003
)

// BootloaderProbe reports whether the vendor bootloader device is
// currently enumerated.
type BootloaderProbe interface {
	Enumerated() (bool, error)
}

// PollTimeout is how long WaitForBootloader waits before giving up.
const PollTimeout = 5 * time.Second

const pollInterval = 100 * time.Millisecond

// WaitForBootloader polls probe until it reports the bootloader
// enumerated or ctx's deadline (or PollTimeout, whichever is sooner)
// elapses, returning the exact message spec §8 scenario 4 names.
func WaitForBootloader(ctx context.Context, probe BootloaderProbe) error {
	ctx, cancel := context.WithTimeout(ctx, PollTimeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		found, err := probe.Enumerated()
		if err != nil {
			return fmt.Errorf("hostproto: probing for bootloader device: %w", err)
		}
		if found {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("Timeout waiting for bootloader device")
		case <-ticker.C:
		}
	}
}
