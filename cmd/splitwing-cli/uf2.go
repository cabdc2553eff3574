package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/splitwing/splitwing/pkg/uf2"
)

var uf2Cmd = &cobra.Command{
	Use:   "uf2 <image.uf2>",
	Short: "Parse a UF2 container and print its coalesced flash ranges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("uf2: %w", err)
		}

		blocks, err := uf2.Parse(data)
		if err != nil {
			return fmt.Errorf("uf2: %w", err)
		}

		ranges := uf2.Coalesce(blocks)

		text := fmt.Sprintf("%d blocks, %d ranges", len(blocks), len(ranges))
		for _, r := range ranges {
			text += fmt.Sprintf("\n  (%#x, %d)", r.Start, r.Length)
		}
		return emit(ranges, text)
	},
}

func init() {
	rootCmd.AddCommand(uf2Cmd)
}
