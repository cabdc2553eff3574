package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/splitwing/splitwing/pkg/hostproto"
)

var dfuCmd = &cobra.Command{
	Use:   "dfu",
	Short: "Put the keyboard mcu into bootloader mode and wait for it to enumerate",
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := connectTelemetry()
		if err != nil {
			return err
		}
		defer sink.Close()

		tr, err := hostproto.Open(deviceFlag)
		if err != nil {
			return fmt.Errorf("dfu: %w", err)
		}

		if err := tr.EnterBootloader(); err != nil {
			tr.Close()
			sink.Record("dfu", "failed")
			return fmt.Errorf("dfu: %w", err)
		}
		tr.Close()

		if err := hostproto.WaitForBootloader(context.Background(), usbBootloaderProbe{}); err != nil {
			sink.Record("dfu", "failed")
			return err
		}

		sink.Record("dfu", "ok")
		return emit(map[string]string{"status": "ok"}, "Bootloader device enumerated")
	},
}

// usbBootloaderProbe enumerates connected serial ports looking for the
// vendor bootloader. Real USB VID/PID matching is out of scope for this
// host-side port listing (DESIGN.md); it reports any enumerated port as
// a proxy for the device coming back online after EnterBootloader.
type usbBootloaderProbe struct{}

func (usbBootloaderProbe) Enumerated() (bool, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return false, err
	}
	return len(ports) > 0, nil
}

func init() {
	rootCmd.AddCommand(dfuCmd)
}
