package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var listSerialCmd = &cobra.Command{
	Use:   "list-serial",
	Short: "List all serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.GetPortsList()
		if err != nil {
			return fmt.Errorf("unable to enumerate available serial ports: %w", err)
		}

		if len(ports) == 0 {
			return emit(ports, "No serial ports detected!")
		}

		text := ""
		for i, port := range ports {
			if i > 0 {
				text += "\n"
			}
			text += port
		}
		return emit(ports, text)
	},
}

func init() {
	rootCmd.AddCommand(listSerialCmd)
}
