package proto

// CommandKind is Command's one-byte discriminant (spec §3).
type CommandKind byte

const (
	CmdReset CommandKind = iota
	CmdEnterBootloader
	CmdFlashFirmware
	CmdEcho
	CmdData
)

// DataCount is the fixed payload size of a Data command/response chunk.
const DataCount = 8

// Command is the tagged host-to-device request type. Only the fields
// relevant to Kind are meaningful; callers should construct values with
// the *Command constructor helpers (ResetCommand, EchoCommand, ...)
// rather than setting fields by hand.
type Command struct {
	Kind  CommandKind
	Count uint32  // CmdFlashFirmware (full u32), CmdEcho (widened from u16)
	Data  [8]byte // CmdData
}

func ResetCommand() Command           { return Command{Kind: CmdReset} }
func EnterBootloaderCommand() Command { return Command{Kind: CmdEnterBootloader} }
func FlashFirmwareCommand(count uint32) Command {
	return Command{Kind: CmdFlashFirmware, Count: count}
}
func EchoCommand(count uint16) Command { return Command{Kind: CmdEcho, Count: uint32(count)} }
func DataCommand(data [8]byte) Command { return Command{Kind: CmdData, Data: data} }

// MarshalBinary encodes a Command: discriminant byte, then varint/fixed
// fields per kind.
func (c Command) MarshalBinary() ([]byte, error) {
	buf := []byte{byte(c.Kind)}
	switch c.Kind {
	case CmdReset, CmdEnterBootloader:
		return buf, nil
	case CmdFlashFirmware:
		return putUvarint(buf, uint64(c.Count)), nil
	case CmdEcho:
		if c.Count > 0xFFFF {
			return nil, &ProtoError{Kind: ErrInvariant, InvariantKind: 0x30}
		}
		return putUvarint(buf, uint64(c.Count)), nil
	case CmdData:
		return append(buf, c.Data[:]...), nil
	default:
		return nil, newCodecError(0x20)
	}
}

// UnmarshalBinary decodes a Command from its compact wire form.
func (c *Command) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return newCodecError(0x21)
	}
	kind := CommandKind(data[0])
	rest := data[1:]
	switch kind {
	case CmdReset, CmdEnterBootloader:
		*c = Command{Kind: kind}
		return nil
	case CmdFlashFirmware:
		count, _, err := getUvarint(rest)
		if err != nil {
			return err
		}
		*c = Command{Kind: kind, Count: uint32(count)}
		return nil
	case CmdEcho:
		count, _, err := getUvarint(rest)
		if err != nil {
			return err
		}
		if count > 0xFFFF {
			return &ProtoError{Kind: ErrInvariant, InvariantKind: 0x31}
		}
		*c = Command{Kind: kind, Count: uint32(count)}
		return nil
	case CmdData:
		if len(rest) < DataCount {
			return &ProtoError{Kind: ErrBadLength, BadLen: byte(len(rest))}
		}
		var data8 [8]byte
		copy(data8[:], rest[:DataCount])
		*c = Command{Kind: kind, Data: data8}
		return nil
	default:
		return newCodecError(0x22)
	}
}

func commandMaxRawSize() int {
	// Discriminant (1) + the widest variant payload: 8 raw Data bytes.
	return 1 + DataCount
}
