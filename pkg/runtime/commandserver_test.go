package runtime

import (
	"bytes"
	"errors"
	"testing"

	"github.com/splitwing/splitwing/pkg/proto"
)

// fakeSerialEndpoint replays a fixed byte stream and records every write.
type fakeSerialEndpoint struct {
	in      []byte
	pos     int
	written [][]byte
}

func (f *fakeSerialEndpoint) ReadByte() (byte, error) {
	if f.pos >= len(f.in) {
		return 0, errors.New("fake serial endpoint: end of stream")
	}
	b := f.in[f.pos]
	f.pos++
	return b, nil
}

func (f *fakeSerialEndpoint) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	f.written = append(f.written, cp)
	return len(p), nil
}

type fakeBootloader struct {
	resetCalled, bootloaderCalled bool
}

func (f *fakeBootloader) EnterBootloader() { f.bootloaderCalled = true }
func (f *fakeBootloader) Reset()           { f.resetCalled = true }

type fakeFlashWriter struct {
	blocks [][]byte
}

func (f *fakeFlashWriter) WriteBlock(offset uint32, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.blocks = append(f.blocks, cp)
	return nil
}
func (f *fakeFlashWriter) MarkUpdated() error { return nil }

func newTestServer(t *testing.T, stream []byte) (*CommandServer, *fakeSerialEndpoint, *fakeBootloader) {
	t.Helper()
	endpoint := &fakeSerialEndpoint{in: stream}
	boot := &fakeBootloader{}
	usbDone := make(chan struct{})
	close(usbDone) // the test never runs the USB stand-in task
	return &CommandServer{
		Endpoint: endpoint,
		Firmware: NewFirmwareState(),
		Boot:     boot,
		Shutdown: NewOneShot(),
		USBDone:  usbDone,
	}, endpoint, boot
}

func decodeOneResponse(t *testing.T, frame []byte) proto.Response {
	t.Helper()
	resp, pErr := proto.DecodeResponse(frame)
	if pErr != nil {
		t.Fatalf("DecodeResponse: %v", pErr)
	}
	return resp
}

func TestCommandServerResetSequence(t *testing.T) {
	frame, err := proto.EncodeCommand(proto.ResetCommand())
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	server, endpoint, boot := newTestServer(t, frame)
	if err := server.Run(); err == nil {
		t.Fatal("expected Run to return the fake end-of-stream error after handling Reset")
	}

	if len(endpoint.written) != 1 {
		t.Fatalf("expected exactly one response, got %d", len(endpoint.written))
	}
	resp := decodeOneResponse(t, endpoint.written[0])
	if resp.Kind != proto.RespAck || resp.AckKind != proto.AckReset {
		t.Fatalf("response = %+v, want Ack(AckReset)", resp)
	}
	if !boot.resetCalled {
		t.Fatal("expected BootloaderEntry.Reset to be called")
	}
}

func TestCommandServerBufferOverflowRecovery(t *testing.T) {
	// 2*MTU+1 bytes of garbage (no zero byte) followed by a valid Reset frame.
	garbage := bytes.Repeat([]byte{0xFF}, 2*MTU+1)
	garbage = append(garbage, 0x00) // first 0x00 delimiter flushes the overflowed ring

	resetFrame, err := proto.EncodeCommand(proto.ResetCommand())
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	stream := append(garbage, resetFrame...)
	server, endpoint, boot := newTestServer(t, stream)
	if err := server.Run(); err == nil {
		t.Fatal("expected Run to return the fake end-of-stream error")
	}

	if len(endpoint.written) != 2 {
		t.Fatalf("expected two responses (Nack then Ack), got %d", len(endpoint.written))
	}
	overflow := decodeOneResponse(t, endpoint.written[0])
	if overflow.Kind != proto.RespNack || overflow.NackKind != proto.NackBufferOverflow {
		t.Fatalf("first response = %+v, want Nack(BufferOverflow)", overflow)
	}
	ack := decodeOneResponse(t, endpoint.written[1])
	if ack.Kind != proto.RespAck || ack.AckKind != proto.AckReset {
		t.Fatalf("second response = %+v, want Ack(AckReset)", ack)
	}
	if !boot.resetCalled {
		t.Fatal("expected BootloaderEntry.Reset to be called after recovery")
	}
}

func TestCommandServerEchoLoop(t *testing.T) {
	echoCmd, err := proto.EncodeCommand(proto.EchoCommand(8))
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}
	dataCmd, err := proto.EncodeCommand(proto.DataCommand([8]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	stream := append(append([]byte{}, echoCmd...), dataCmd...)
	server, endpoint, _ := newTestServer(t, stream)
	if err := server.Run(); err == nil {
		t.Fatal("expected Run to return the fake end-of-stream error")
	}

	if len(endpoint.written) != 2 {
		t.Fatalf("expected Echo{8} ack then one Data echo, got %d responses", len(endpoint.written))
	}
	echoResp := decodeOneResponse(t, endpoint.written[0])
	if echoResp.Kind != proto.RespEcho || echoResp.Count != 8 {
		t.Fatalf("first response = %+v, want Echo{8}", echoResp)
	}
	dataResp := decodeOneResponse(t, endpoint.written[1])
	if dataResp.Kind != proto.RespData || dataResp.Data != [8]byte{1, 2, 3, 4, 5, 6, 7, 8} {
		t.Fatalf("second response = %+v, want Data echo", dataResp)
	}
}

func TestCommandServerDataWithoutAnnounceIsUnexpected(t *testing.T) {
	frame, err := proto.EncodeCommand(proto.DataCommand([8]byte{}))
	if err != nil {
		t.Fatalf("EncodeCommand: %v", err)
	}

	server, endpoint, _ := newTestServer(t, frame)
	if err := server.Run(); err == nil {
		t.Fatal("expected Run to return the fake end-of-stream error")
	}

	resp := decodeOneResponse(t, endpoint.written[0])
	if resp.Kind != proto.RespNack || resp.NackKind != proto.NackUnexpected {
		t.Fatalf("response = %+v, want Nack(Unexpected)", resp)
	}
}
