package runtime

import "context"

// GPIOBus drives one half's key matrix: set a column pin, sample every
// row pin. A real implementation is out of scope (spec §1 excludes
// hardware-register-level GPIO access); tests supply a fake.
type GPIOBus interface {
	SetColumn(col int, high bool) error
	ReadRow(row int) (bool, error)
	NumRows() int
	NumCols() int
}

// BusLink is the inter-half transport: a single addressed write/read pair
// standing in for the I2C-like bus of original_source/firmware/src/i2c.rs.
type BusLink interface {
	Write(ctx context.Context, addr byte, frame []byte) error
	Read(ctx context.Context, addr byte) ([]byte, error)
}

// HIDEndpoint submits a composed boot-keyboard report to the host.
type HIDEndpoint interface {
	SubmitReport(report [8]byte) error
}

// SerialEndpoint is the primary host-facing serial link: framed command
// in, framed response out.
type SerialEndpoint interface {
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// FlashWriter receives coalesced firmware blocks during a DFU session. A
// real implementation (vendor flash driver) is out of scope.
type FlashWriter interface {
	WriteBlock(offset uint32, data []byte) error
	MarkUpdated() error
}

// BootloaderEntry jumps to the vendor USB bootloader. A real
// implementation is out of scope; it is also invoked from the panic path
// (pkg/runtime/panic.go) and from CommandServer's EnterBootloader/Reset
// handling.
type BootloaderEntry interface {
	EnterBootloader()
	Reset()
}
