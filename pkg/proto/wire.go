package proto

import "github.com/splitwing/splitwing/pkg/frame"

// CommandWireMaxSize/ResponseWireMaxSize are the WIRE_MAX_SIZE bounds from
// spec §4.2: the upper bound on a record's framed-with-escape output
// length. KeyUpdateCSMaxSize is the CS_MAX_SIZE bound for a KeyUpdate on
// the inter-half bus. No buffer in the runtime package is sized from
// them; the package tests check encoded lengths against them.
var (
	CommandWireMaxSize  = frame.MaxEncodedLen(commandMaxRawSize())
	ResponseWireMaxSize = frame.MaxEncodedLen(responseMaxRawSize())
	KeyUpdateCSMaxSize  = frame.MaxCSLen(keyUpdateMaxRawSize())
)

// EncodeCommand frames a Command for the primary serial link.
func EncodeCommand(c Command) ([]byte, error) {
	raw, err := c.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return frame.Encode(raw), nil
}

// DecodeCommand unframes and decodes a Command, translating any framing
// fault into a ProtoError per spec §3/§7.
func DecodeCommand(encoded []byte) (Command, *ProtoError) {
	raw, err := frame.Decode(encoded)
	if err != nil {
		return Command{}, FromFrameError(err)
	}
	var c Command
	if err := c.UnmarshalBinary(raw); err != nil {
		return Command{}, asProtoError(err)
	}
	return c, nil
}

// EncodeResponse frames a Response for the primary serial link.
func EncodeResponse(r Response) ([]byte, error) {
	raw, err := r.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return frame.Encode(raw), nil
}

// DecodeResponse unframes and decodes a Response.
func DecodeResponse(encoded []byte) (Response, *ProtoError) {
	raw, err := frame.Decode(encoded)
	if err != nil {
		return Response{}, FromFrameError(err)
	}
	var r Response
	if err := r.UnmarshalBinary(raw); err != nil {
		return Response{}, asProtoError(err)
	}
	return r, nil
}

// CSEncodeKeyUpdate frames a KeyUpdate for the inter-half bus (CRC-only,
// no escape: the bus transaction length is the delimiter).
func CSEncodeKeyUpdate(k KeyUpdate) ([]byte, error) {
	raw, err := k.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return frame.CSEncode(raw), nil
}

// CSDecodeKeyUpdate is the inverse of CSEncodeKeyUpdate.
func CSDecodeKeyUpdate(encoded []byte) (KeyUpdate, *ProtoError) {
	raw, err := frame.CSDecode(encoded)
	if err != nil {
		return KeyUpdate{}, FromFrameError(err)
	}
	var k KeyUpdate
	if err := k.UnmarshalBinary(raw); err != nil {
		return KeyUpdate{}, asProtoError(err)
	}
	return k, nil
}

func asProtoError(err error) *ProtoError {
	if pe, ok := err.(*ProtoError); ok {
		return pe
	}
	return &ProtoError{Kind: ErrInvariant, InvariantKind: 0xEE}
}
