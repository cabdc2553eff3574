package runtime

import (
	"log"

	"github.com/splitwing/splitwing/pkg/proto"
)

// MTU is the primary serial endpoint's maximum transfer unit (spec §6).
const MTU = 64

// commandRingCapacity is the receive-frame subroutine's ring size, spec
// §4.6's "2 × MTU".
const commandRingCapacity = 2 * MTU

// CommandServer implements the host protocol's receive/act/respond state
// machine (spec §4.6), ported in spirit from original_source/firmware/
// src/serial.rs's Packetizer/SerialIf split, collapsed onto a single
// SerialEndpoint abstraction.
type CommandServer struct {
	Endpoint SerialEndpoint
	Firmware *FirmwareState
	Boot     BootloaderEntry
	Shutdown *OneShot
	USBDone  <-chan struct{}
	Logger   *log.Logger

	ring []byte
}

// Run processes frames until the endpoint reports an unrecoverable I/O
// error.
func (c *CommandServer) Run() error {
	for {
		cmd, pErr := c.recvCommand()
		if pErr != nil {
			if pErr.fatal {
				return pErr.err
			}
			c.sendResponse(pErr.response())
			continue
		}

		if err := c.handle(cmd); err != nil {
			return err
		}
	}
}

type recvError struct {
	proto    *proto.ProtoError
	overflow bool
	err      error
	fatal    bool
}

// response renders a recvError as the Nack the command server must send:
// ring overflow surfaces as Nack(BufferOverflow) directly (spec §4.6),
// everything else as Nack(PacketErr(ProtoError)).
func (e *recvError) response() proto.Response {
	if e.overflow {
		return proto.NackResponse(proto.NackBufferOverflow)
	}
	return proto.NackPacketErrResponse(e.proto)
}

// recvCommand is the receive-frame subroutine: accumulate bytes into a
// 2×MTU ring until a 0x00 delimiter, decode, and report ring overflow or
// decode failure as a recoverable *recvError (spec §4.6).
func (c *CommandServer) recvCommand() (proto.Command, *recvError) {
	overflowed := false

	for {
		b, err := c.Endpoint.ReadByte()
		if err != nil {
			return proto.Command{}, &recvError{err: err, fatal: true}
		}

		if len(c.ring) >= commandRingCapacity {
			overflowed = true
			c.ring = c.ring[:0]
		}
		c.ring = append(c.ring, b)

		if b != 0x00 {
			continue
		}

		frame := c.ring
		c.ring = nil

		if overflowed {
			return proto.Command{}, &recvError{overflow: true}
		}

		cmd, pErr := proto.DecodeCommand(frame)
		if pErr != nil {
			return proto.Command{}, &recvError{proto: pErr}
		}
		return cmd, nil
	}
}

func (c *CommandServer) handle(cmd proto.Command) error {
	switch cmd.Kind {
	case proto.CmdReset:
		c.sendResponse(proto.AckResponse(proto.AckReset))
		return c.shutdownThen(c.Boot.Reset)
	case proto.CmdEnterBootloader:
		c.sendResponse(proto.AckResponse(proto.AckEnterBootloader))
		return c.shutdownThen(c.Boot.EnterBootloader)
	case proto.CmdEcho:
		return c.runEchoLoop(cmd.Count)
	case proto.CmdFlashFirmware:
		return c.runFlashLoop(cmd.Count)
	case proto.CmdData:
		c.sendResponse(proto.NackResponse(proto.NackUnexpected))
		return nil
	default:
		c.sendResponse(proto.NackResponse(proto.NackUnexpected))
		return nil
	}
}

// shutdownThen raises the one-shot shutdown signal, waits for the USB
// task to observe it (spec §4.6's "only then does the command server
// trigger the reset/bootloader"), and invokes action.
func (c *CommandServer) shutdownThen(action func()) error {
	c.Shutdown.Signal()
	if c.USBDone != nil {
		<-c.USBDone
	}
	action()
	return nil
}

func (c *CommandServer) runEchoLoop(count uint32) error {
	c.sendResponse(proto.EchoResponse(uint16(count)))

	for remaining := count; remaining > 0; {
		cmd, pErr := c.recvCommand()
		if pErr != nil {
			if pErr.fatal {
				return pErr.err
			}
			c.sendResponse(pErr.response())
			continue
		}
		if cmd.Kind != proto.CmdData {
			c.sendResponse(proto.NackResponse(proto.NackUnexpected))
			continue
		}
		c.sendResponse(proto.DataResponse(cmd.Data))
		if uint32(proto.DataCount) >= remaining {
			remaining = 0
		} else {
			remaining -= proto.DataCount
		}
	}
	return nil
}

func (c *CommandServer) runFlashLoop(count uint32) error {
	session := c.Firmware.Lock(0)
	session.Begin()

	var received uint32
	for received < count {
		cmd, pErr := c.recvCommand()
		if pErr != nil {
			if pErr.fatal {
				return pErr.err
			}
			c.sendResponse(pErr.response())
			continue
		}
		if cmd.Kind != proto.CmdData {
			c.sendResponse(proto.NackResponse(proto.NackUnexpected))
			continue
		}
		session.Write(cmd.Data[:])
		received += proto.DataCount
	}

	session.Finish()
	c.sendResponse(proto.AckResponse(proto.AckFlashFirmware))
	return nil
}

func (c *CommandServer) sendResponse(r proto.Response) {
	encoded, err := proto.EncodeResponse(r)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Printf("command server: encode error: %v", err)
		}
		return
	}
	if _, err := c.Endpoint.Write(encoded); err != nil && c.Logger != nil {
		c.Logger.Printf("command server: write error: %v", err)
	}
}
