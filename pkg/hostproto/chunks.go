package hostproto

import (
	"fmt"

	"github.com/splitwing/splitwing/pkg/proto"
)

// Echo sends Command.Echo{len(msg)}, expects the matching Echo ack, then
// streams msg as 8-byte Data chunks (zero-padded on the final chunk),
// collecting each echoed Data response, and returns the reassembled
// bytes truncated back to len(msg).
func (t *Transport) Echo(msg []byte) ([]byte, error) {
	if len(msg) > 0xFFFF {
		return nil, fmt.Errorf("hostproto: echo payload too large (%d bytes)", len(msg))
	}

	if err := t.SendCommand(proto.EchoCommand(uint16(len(msg)))); err != nil {
		return nil, err
	}
	ack, err := t.RecvResponse()
	if err != nil {
		return nil, err
	}
	if ack.Kind != proto.RespEcho {
		return nil, fmt.Errorf("hostproto: expected Echo ack, got %+v", ack)
	}

	var out []byte
	for offset := 0; offset < len(msg); offset += proto.DataCount {
		var chunk [8]byte
		copy(chunk[:], msg[offset:])

		if err := t.SendCommand(proto.DataCommand(chunk)); err != nil {
			return nil, err
		}
		resp, err := t.RecvResponse()
		if err != nil {
			return nil, err
		}
		if resp.Kind != proto.RespData {
			return nil, fmt.Errorf("hostproto: expected Data echo, got %+v", resp)
		}
		out = append(out, resp.Data[:]...)
	}

	if len(out) > len(msg) {
		out = out[:len(msg)]
	}
	return out, nil
}

// Reset sends Command.Reset and waits for Ack(AckReset).
func (t *Transport) Reset() error {
	if err := t.SendCommand(proto.ResetCommand()); err != nil {
		return err
	}
	return t.expectAck(proto.AckReset)
}

// EnterBootloader sends Command.EnterBootloader and waits for
// Ack(AckEnterBootloader).
func (t *Transport) EnterBootloader() error {
	if err := t.SendCommand(proto.EnterBootloaderCommand()); err != nil {
		return err
	}
	return t.expectAck(proto.AckEnterBootloader)
}

// Flash streams data as Command.FlashFirmware{len(data)} followed by
// 8-byte Data chunks, and waits for the terminating Ack(AckFlashFirmware).
func (t *Transport) Flash(data []byte) error {
	if err := t.SendCommand(proto.FlashFirmwareCommand(uint32(len(data)))); err != nil {
		return err
	}

	for offset := 0; offset < len(data); offset += proto.DataCount {
		var chunk [8]byte
		copy(chunk[:], data[offset:])
		if err := t.SendCommand(proto.DataCommand(chunk)); err != nil {
			return err
		}
	}

	return t.expectAck(proto.AckFlashFirmware)
}

func (t *Transport) expectAck(want proto.AckKind) error {
	resp, err := t.RecvResponse()
	if err != nil {
		return err
	}
	if resp.Kind != proto.RespAck || resp.AckKind != want {
		return fmt.Errorf("hostproto: expected Ack(%v), got %+v", want, resp)
	}
	return nil
}
