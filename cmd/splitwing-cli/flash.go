package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/splitwing/splitwing/pkg/hostproto"
)

var flashCmd = &cobra.Command{
	Use:   "flash <firmware.bin>",
	Short: "Send a raw firmware image to the mcu over the flashing protocol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("flash: %w", err)
		}

		sink, err := connectTelemetry()
		if err != nil {
			return err
		}
		defer sink.Close()

		tr, err := hostproto.Open(deviceFlag)
		if err != nil {
			return fmt.Errorf("flash: %w", err)
		}
		defer tr.Close()

		if err := tr.Flash(data); err != nil {
			sink.Record("flash", "failed")
			return fmt.Errorf("flash: %w", err)
		}
		sink.Record("flash", "ok")
		return emit(map[string]int{"bytes": len(data)}, fmt.Sprintf("Flashed %d bytes", len(data)))
	},
}

func init() {
	rootCmd.AddCommand(flashCmd)
}
