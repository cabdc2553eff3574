// Package bus provides hosted implementations of runtime.BusLink for
// development and testing of the inter-half protocol away from real
// hardware, grounded in pkg/usock's tarm/serial port-opening idiom
// (config shape, read-loop style) but addressed, not length-framed.
package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// SerialBusLink implements runtime.BusLink over a physical or virtual
// serial port (e.g. a socat-bridged pty pair standing in for the
// physical inter-half bus during hosted development). Each transaction
// is a single write followed, on the listening side, by a single read of
// whatever arrived; there is no length prefix because the bus's CRC-only
// framing (frame.CSEncode/CSDecode) already delimits a transaction by the
// fact that it is exactly one write call.
type SerialBusLink struct {
	port *serial.Port
	mu   sync.Mutex
}

// OpenSerialBusLink opens devicePath at baudRate for inter-half bus
// traffic.
func OpenSerialBusLink(devicePath string, baudRate int) (*SerialBusLink, error) {
	config := &serial.Config{
		Name:        devicePath,
		Baud:        baudRate,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: 100 * time.Millisecond,
	}

	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("bus: open %s: %w", devicePath, err)
	}
	return &SerialBusLink{port: port}, nil
}

// Write sends frame as a single transaction. addr is accepted for
// interface symmetry with a real addressed bus; a point-to-point serial
// link has only one peer.
func (l *SerialBusLink) Write(ctx context.Context, addr byte, frame []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.port.Write(frame)
	return err
}

// Read blocks until one transaction's worth of bytes arrives or ctx is
// done.
func (l *SerialBusLink) Read(ctx context.Context, addr byte) ([]byte, error) {
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		n, err := l.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("bus: read: %w", err)
		}
		if n > 0 {
			out := make([]byte, n)
			copy(out, buf[:n])
			return out, nil
		}
	}
}

// Close releases the underlying port.
func (l *SerialBusLink) Close() error {
	return l.port.Close()
}
