package hostproto

import (
	"bytes"
	"io"
	"testing"

	"github.com/splitwing/splitwing/pkg/proto"
)

// loopback is an in-memory io.ReadWriteCloser: bytes written to it are
// immediately available to read back, letting tests drive Transport
// without a real serial port.
type loopback struct {
	buf bytes.Buffer
}

func (l *loopback) Write(p []byte) (int, error) { return l.buf.Write(p) }
func (l *loopback) Read(p []byte) (int, error)  { return l.buf.Read(p) }
func (l *loopback) Close() error                { return nil }

func TestSendCommandFramesOnWire(t *testing.T) {
	lb := &loopback{}
	tr := newTransport(lb)

	if err := tr.SendCommand(proto.ResetCommand()); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}

	want, err := proto.EncodeCommand(proto.ResetCommand())
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	if !bytes.Equal(lb.buf.Bytes(), want) {
		t.Fatalf("wire bytes = %x, want %x", lb.buf.Bytes(), want)
	}
}

func TestRecvResponseSkipsGarbage(t *testing.T) {
	lb := &loopback{}
	encoded, err := proto.EncodeResponse(proto.AckResponse(proto.AckReset))
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	lb.buf.Write([]byte{0xFF, 0xFF, 0xFF}) // garbage with no embedded 0x00
	lb.buf.Write(encoded)

	tr := newTransport(lb)
	resp, err := tr.RecvResponse()
	if err != nil {
		t.Fatalf("RecvResponse: %v", err)
	}
	if resp.Kind != proto.RespAck || resp.AckKind != proto.AckReset {
		t.Fatalf("response = %+v, want Ack(AckReset)", resp)
	}
}

func TestResetRoundTrip(t *testing.T) {
	lb := &loopback{}
	encodedAck, err := proto.EncodeResponse(proto.AckResponse(proto.AckReset))
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	lb.buf.Write(encodedAck)

	tr := newTransport(lb)
	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
}

func TestEchoReassemblesChunks(t *testing.T) {
	lb := &loopback{}
	msg := []byte("hi")

	ackFrame, err := proto.EncodeResponse(proto.EchoResponse(uint16(len(msg))))
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	var chunk [8]byte
	copy(chunk[:], msg)
	dataFrame, err := proto.EncodeResponse(proto.DataResponse(chunk))
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	lb.buf.Write(ackFrame)
	lb.buf.Write(dataFrame)

	tr := newTransport(lb)
	got, err := tr.Echo(msg)
	if err != nil {
		t.Fatalf("Echo: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("Echo() = %q, want %q", got, msg)
	}
}

func TestRecvResponseErrorsOnEOF(t *testing.T) {
	lb := &loopback{}
	tr := newTransport(lb)
	if _, err := tr.RecvResponse(); err == nil || err == io.EOF {
		t.Fatalf("expected a wrapped EOF error, got %v", err)
	}
}
