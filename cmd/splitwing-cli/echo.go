package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/splitwing/splitwing/pkg/hostproto"
)

var echoCmd = &cobra.Command{
	Use:   "echo <msg>",
	Short: "Send data to the mcu over serial and print its echoed response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := connectTelemetry()
		if err != nil {
			return err
		}
		defer sink.Close()

		tr, err := hostproto.Open(deviceFlag)
		if err != nil {
			return fmt.Errorf("echo: %w", err)
		}
		defer tr.Close()

		echoed, err := tr.Echo([]byte(args[0]))
		if err != nil {
			sink.Record("echo", "failed")
			return fmt.Errorf("echo: %w", err)
		}
		sink.Record("echo", "ok")
		return emit(map[string]string{"echoed": string(echoed)}, fmt.Sprintf("Received: %q", echoed))
	},
}

func init() {
	rootCmd.AddCommand(echoCmd)
}
