// Package hostproto is the host-side transport for the splitwing wire
// protocol: open a serial port, send framed Commands, and receive framed
// Responses, skipping any garbage bytes preceding the next frame's
// sentinel. Ported from original_source/cli/src/main.rs's
// send_command/recv_response pair, built on go.bug.st/serial (the
// teacher's serial stack) instead of the original's BufReader<dyn
// SerialPort>.
package hostproto

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/splitwing/splitwing/pkg/proto"
)

// SerialTimeout is the per-read timeout applied to the opened port,
// matching the original's SERIAL_TIMEOUT constant.
const SerialTimeout = 100 * time.Millisecond

// Transport is a framed Command/Response link to one device. It is built
// on an io.ReadWriteCloser so tests can substitute an in-memory pipe for
// a real serial.Port.
type Transport struct {
	rw     io.ReadWriteCloser
	reader *bufio.Reader
}

// Open opens device at 115200 baud (the original's hardcoded rate).
func Open(device string) (*Transport, error) {
	mode := &serial.Mode{BaudRate: 115200}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("hostproto: open %s: %w", device, err)
	}
	if err := port.SetReadTimeout(SerialTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("hostproto: set read timeout: %w", err)
	}
	return newTransport(port), nil
}

func newTransport(rw io.ReadWriteCloser) *Transport {
	return &Transport{rw: rw, reader: bufio.NewReader(rw)}
}

// Close releases the underlying port.
func (t *Transport) Close() error {
	return t.rw.Close()
}

// SendCommand frames and writes c.
func (t *Transport) SendCommand(c proto.Command) error {
	encoded, err := proto.EncodeCommand(c)
	if err != nil {
		return fmt.Errorf("hostproto: encode command %+v: %w", c, err)
	}
	if _, err := t.rw.Write(encoded); err != nil {
		return fmt.Errorf("hostproto: write command: %w", err)
	}
	return nil
}

// RecvResponse reads the next 0x00-terminated frame and decodes it as a
// Response. If the frame does not decode as read, leading bytes are
// dropped one at a time until the remainder does, and the dropped bytes
// are reported as garbage (the original's "Encountered N garbage bytes in
// the response stream" warning path).
func (t *Transport) RecvResponse() (proto.Response, error) {
	body, err := t.reader.ReadBytes(0x00)
	if err != nil {
		return proto.Response{}, fmt.Errorf("hostproto: read response body: %w", err)
	}

	resp, pErr := proto.DecodeResponse(append([]byte(nil), body...))
	for garbageCount := 1; pErr != nil && garbageCount < len(body); garbageCount++ {
		if r, e := proto.DecodeResponse(append([]byte(nil), body[garbageCount:]...)); e == nil {
			fmt.Printf("warning: encountered %d garbage bytes in the response stream\n", garbageCount)
			resp, pErr = r, nil
		}
	}
	if pErr != nil {
		return proto.Response{}, fmt.Errorf("hostproto: decode response: %w", pErr)
	}
	return resp, nil
}

// skipToDelimiter consumes bytes up to and including the first 0x00,
// returning how many non-delimiter bytes were discarded.
func (t *Transport) skipToDelimiter() (int, error) {
	count := 0
	for {
		b, err := t.reader.ReadByte()
		if err != nil {
			return count, fmt.Errorf("hostproto: looking for response sentinel: %w", err)
		}
		if b == 0x00 {
			return count, nil
		}
		count++
	}
}
