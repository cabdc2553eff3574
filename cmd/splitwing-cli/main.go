// Command splitwing-cli talks to a splitwing keyboard half over its
// primary serial link: list ports, echo test data, reset, enter DFU mode,
// flash firmware, and inspect UF2 containers. Grounded in
// original_source/cli/src/main.rs's subcommand set, reshaped onto
// github.com/spf13/cobra the way yunpub-munifying's cmd package shapes
// its subcommands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "splitwing-cli:", err)
		os.Exit(1)
	}
}
