package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"go.bug.st/serial"
)

// primarySerial adapts a go.bug.st/serial.Port to runtime.SerialEndpoint's
// byte-at-a-time read interface, buffered the same way pkg/hostproto's
// Transport buffers its read side.
type primarySerial struct {
	port   serial.Port
	reader *bufio.Reader
}

func openPrimarySerial(device string) (*primarySerial, error) {
	mode := &serial.Mode{BaudRate: 115200}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return &primarySerial{port: port, reader: bufio.NewReader(port)}, nil
}

func (s *primarySerial) ReadByte() (byte, error) {
	return s.reader.ReadByte()
}

func (s *primarySerial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *primarySerial) Close() error {
	return s.port.Close()
}

// openSecondarySerial opens device as the log-drain task's secondary
// endpoint (spec §4.7): a plain write sink, no read side needed.
func openSecondarySerial(device string) (io.WriteCloser, error) {
	mode := &serial.Mode{BaudRate: 115200}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return port, nil
}

// noopMatrix is a GPIOBus stand-in: real GPIO register access is excluded
// hardware access, so it reports a 5x7 matrix with every row permanently
// low. A board-specific GPIOBus replaces this at the one call site in
// main.go.
type noopMatrix struct{}

func newNoopMatrix() *noopMatrix { return &noopMatrix{} }

func (*noopMatrix) SetColumn(col int, high bool) error { return nil }
func (*noopMatrix) ReadRow(row int) (bool, error)      { return false, nil }
func (*noopMatrix) NumRows() int                       { return 5 }
func (*noopMatrix) NumCols() int                       { return 7 }

// loggingHID is a HIDEndpoint stand-in: submitting a real USB HID report is
// excluded hardware access, so reports are logged instead.
type loggingHID struct {
	logger *log.Logger
}

func newLoggingHID(logger *log.Logger) *loggingHID {
	return &loggingHID{logger: logger}
}

func (h *loggingHID) SubmitReport(report [8]byte) error {
	h.logger.Printf("hid report: % x", report)
	return nil
}

// fileFlash is a FlashWriter stand-in: writing to the vendor flash
// controller is excluded hardware access, so coalesced blocks are written
// at their offset into a local firmware image file instead, letting a
// flash round-trip be
// observed end to end during hosted development.
type fileFlash struct {
	logger *log.Logger
	path   string
}

func newFileFlash(logger *log.Logger) *fileFlash {
	return &fileFlash{logger: logger, path: "splitwing-firmware.img"}
}

func (f *fileFlash) WriteBlock(offset uint32, data []byte) error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("fileFlash: open %s: %w", f.path, err)
	}
	defer file.Close()

	if _, err := file.Seek(int64(offset), io.SeekStart); err != nil {
		return fmt.Errorf("fileFlash: seek: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("fileFlash: write: %w", err)
	}
	f.logger.Printf("flash: wrote %d bytes at offset %d", len(data), offset)
	return nil
}

func (f *fileFlash) MarkUpdated() error {
	f.logger.Printf("flash: marked firmware image updated")
	return nil
}

// processBootloader is a BootloaderEntry stand-in: jumping to the vendor
// USB bootloader ROM is excluded hardware access, so it logs the intent and
// exits the process, mirroring what a real jump does to the running image.
type processBootloader struct {
	logger *log.Logger
}

func newProcessBootloader(logger *log.Logger) *processBootloader {
	return &processBootloader{logger: logger}
}

func (b *processBootloader) EnterBootloader() {
	b.logger.Printf("entering bootloader")
	os.Exit(0)
}

func (b *processBootloader) Reset() {
	b.logger.Printf("resetting")
	os.Exit(0)
}
