package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/splitwing/splitwing/pkg/hostproto"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the keyboard mcu",
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := connectTelemetry()
		if err != nil {
			return err
		}
		defer sink.Close()

		tr, err := hostproto.Open(deviceFlag)
		if err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		defer tr.Close()

		if err := tr.Reset(); err != nil {
			sink.Record("reset", "failed")
			return fmt.Errorf("reset: %w", err)
		}
		sink.Record("reset", "ok")
		return emit(map[string]string{"status": "ok"}, "Reset acknowledged")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
