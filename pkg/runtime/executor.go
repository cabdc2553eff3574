package runtime

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/splitwing/splitwing/pkg/keyboard"
	"github.com/splitwing/splitwing/pkg/logbuf"
	"github.com/splitwing/splitwing/pkg/proto"
)

// Role picks which half's fixed task set a given process runs: spec
// §4.4/§9's "configurable role at boot" rather than a compile-time strap.
type Role int

const (
	RoleLeft Role = iota
	RoleRight
)

// ExecutorConfig wires every collaborator a half's task set needs.
// Reporter is typically true only for RoleLeft, per spec §3's "only left
// emits HID reports" invariant — the Executor itself does not enforce
// this, the caller decides.
type ExecutorConfig struct {
	Role     Role
	Matrix   GPIOBus
	Bus      BusLink
	HID      HIDEndpoint
	Serial   SerialEndpoint
	Flash    FlashWriter
	Boot     BootloaderEntry
	Layout   keyboard.Layout
	Reporter bool
	Logger   *log.Logger

	// LogWriter, if set, is the secondary endpoint the log-drain task
	// copies pkg/logbuf's ring into (spec §4.7). Nil disables the task.
	LogWriter io.Writer
}

// Executor spawns the fixed task set named in spec §5 as goroutines under
// one context/WaitGroup, mirroring cmd/bluetooth-service/main.go's
// goroutine + shutdown-channel wiring generalized to the full task set.
type Executor struct {
	cfg      ExecutorConfig
	local    *Signal[proto.KeyUpdate]
	remote   *Signal[proto.KeyUpdate]
	shutdown *OneShot
	usbDone  chan struct{}
	firmware *FirmwareState

	wg   sync.WaitGroup
	errs chan error
}

// NewExecutor builds an Executor ready to Run.
func NewExecutor(cfg ExecutorConfig) *Executor {
	return &Executor{
		cfg:      cfg,
		local:    NewSignal[proto.KeyUpdate](),
		remote:   NewSignal[proto.KeyUpdate](),
		shutdown: NewOneShot(),
		usbDone:  make(chan struct{}),
		firmware: NewFirmwareState(),
		errs:     make(chan error, 8),
	}
}

// Run spawns every task and blocks until ctx is done or a task reports a
// fatal error, whichever comes first.
func (e *Executor) Run(ctx context.Context) error {
	scanner := &MatrixScanner{Bus: e.cfg.Matrix, Signal: e.local}
	e.spawn(func() error { return scanner.Run(ctx) })

	// The right half is the bus master and sends its keys; the left half
	// is the bus slave and receives them for its HID reporter.
	if e.cfg.Role == RoleRight {
		e.spawn(func() error {
			master := &BusMaster{Link: e.cfg.Bus, Local: e.local, Logger: e.cfg.Logger}
			return master.Run(ctx)
		})
	} else {
		e.spawn(func() error {
			slave := &BusSlave{Link: e.cfg.Bus, Remote: e.remote, Logger: e.cfg.Logger}
			return slave.Run(ctx)
		})
	}

	if e.cfg.Reporter {
		reporter := &HIDReporter{
			Local:  e.local,
			Remote: e.remote,
			Layout: e.cfg.Layout,
			Endpoint: e.cfg.HID,
			Logger: e.cfg.Logger,
		}
		e.spawn(func() error { return reporter.Run(ctx) })
	}

	e.spawn(func() error { return e.firmware.Run(e.cfg.Flash) })

	if e.cfg.LogWriter != nil {
		e.spawn(func() error {
			for {
				if err := logbuf.Drain(e.cfg.LogWriter); err != nil {
					return err
				}
			}
		})
	}

	server := &CommandServer{
		Endpoint: e.cfg.Serial,
		Firmware: e.firmware,
		Boot:     e.cfg.Boot,
		Shutdown: e.shutdown,
		USBDone:  e.usbDone,
		Logger:   e.cfg.Logger,
	}
	e.spawn(server.Run)

	// The USB task stands in for the real USB stack's clean-disable
	// sequence (spec §4.6's shutdown rendezvous); here it simply observes
	// the shutdown signal and immediately reports done.
	e.spawn(func() error {
		<-e.shutdown.Done()
		close(e.usbDone)
		return nil
	})

	select {
	case <-ctx.Done():
		e.wg.Wait()
		return ctx.Err()
	case err := <-e.errs:
		return err
	}
}

// spawn runs task in its own goroutine. Every task funnels through
// RecoverAndEnterBootloader so a panic in any one of them follows spec
// §7's fatal-invariant-violation path instead of crashing the process.
func (e *Executor) spawn(task func() error) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer RecoverAndEnterBootloader(e.cfg.Boot)
		if err := task(); err != nil {
			select {
			case e.errs <- err:
			default:
			}
		}
	}()
}
