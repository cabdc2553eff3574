package main

import (
	"github.com/spf13/cobra"

	"github.com/splitwing/splitwing/pkg/telemetry"
)

var (
	deviceFlag    string
	redisAddrFlag string
	emitFlag      string
)

var rootCmd = &cobra.Command{
	Use:   "splitwing-cli",
	Short: "A CLI for interacting with a splitwing keyboard half",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&deviceFlag, "device", "/dev/ttyACM0", "the serial port connected to the keyboard")
	rootCmd.PersistentFlags().StringVar(&redisAddrFlag, "redis-addr", "", "optional redis address for operation telemetry")
	rootCmd.PersistentFlags().StringVar(&emitFlag, "emit", "text", "output format: text or cbor")
}

func connectTelemetry() (*telemetry.Sink, error) {
	return telemetry.Connect(redisAddrFlag)
}
