package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/splitwing/splitwing/pkg/bus"
	"github.com/splitwing/splitwing/pkg/keyboard"
	"github.com/splitwing/splitwing/pkg/runtime"
)

var (
	roleFlag      = flag.String("role", "left", "keyboard half this process drives: left or right")
	serialDevice  = flag.String("serial", "/dev/ttyACM0", "primary USB serial device (host command protocol)")
	busDevice     = flag.String("bus", "/dev/ttyUSB0", "inter-half bus serial device")
	busBaud       = flag.Int("bus-baud", 115200, "inter-half bus baud rate")
	logSerialFlag = flag.String("log-serial", "", "optional serial device to mirror logbuf output to, in addition to stderr")
)

func parseRole(s string) (runtime.Role, error) {
	switch s {
	case "left":
		return runtime.RoleLeft, nil
	case "right":
		return runtime.RoleRight, nil
	default:
		return 0, os.ErrInvalid
	}
}

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("Starting splitwing firmware")
	log.Printf("Role: %s", *roleFlag)
	log.Printf("Primary serial device: %s", *serialDevice)
	log.Printf("Bus device: %s (%d baud)", *busDevice, *busBaud)

	role, err := parseRole(*roleFlag)
	if err != nil {
		log.Fatalf("Invalid -role %q: must be left or right", *roleFlag)
	}

	primary, err := openPrimarySerial(*serialDevice)
	if err != nil {
		log.Fatalf("Failed to open primary serial device: %v", err)
	}
	defer primary.Close()
	log.Printf("Opened primary serial device")

	busLink, err := bus.OpenSerialBusLink(*busDevice, *busBaud)
	if err != nil {
		log.Fatalf("Failed to open bus device: %v", err)
	}
	defer busLink.Close()
	log.Printf("Opened inter-half bus device")

	logger := log.Default()

	logWriter := io.Writer(os.Stderr)
	if *logSerialFlag != "" {
		logSerial, err := openSecondarySerial(*logSerialFlag)
		if err != nil {
			log.Fatalf("Failed to open log serial device: %v", err)
		}
		defer logSerial.Close()
		logWriter = io.MultiWriter(os.Stderr, logSerial)
		log.Printf("Mirroring log drain to %s", *logSerialFlag)
	}

	cfg := runtime.ExecutorConfig{
		Role:      role,
		Matrix:    newNoopMatrix(),
		Bus:       busLink,
		HID:       newLoggingHID(logger),
		Serial:    primary,
		Flash:     newFileFlash(logger),
		Boot:      newProcessBootloader(logger),
		Layout:    keyboard.DefaultLayout(),
		Reporter:  role == runtime.RoleLeft,
		Logger:    logger,
		LogWriter: logWriter,
	}

	exec := runtime.NewExecutor(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("Shutting down...")
		cancel()
	}()

	if err := exec.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Executor exited with error: %v", err)
	}
}
