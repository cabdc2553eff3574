package proto

import (
	"fmt"

	"github.com/splitwing/splitwing/pkg/frame"
)

// ProtoErrorKind is ProtoError's one-byte discriminant (spec §3).
type ProtoErrorKind byte

const (
	ErrBufferSize ProtoErrorKind = iota
	ErrCodecError
	ErrCrcMismatch
	ErrBadLength
	ErrInvariant
)

// ProtoError mirrors original_source/proto/src/errors.rs's ProtoError enum:
// every field sized to serialize in a single byte where possible so error
// frames stay short.
type ProtoError struct {
	Kind ProtoErrorKind

	CodecErrorByte byte // ErrCodecError

	CrcCalculated byte // ErrCrcMismatch
	CrcActual     byte // ErrCrcMismatch

	BadLen byte // ErrBadLength

	InvariantKind byte // ErrInvariant
}

func newCodecError(b byte) error {
	return &ProtoError{Kind: ErrCodecError, CodecErrorByte: b}
}

func (e *ProtoError) Error() string {
	switch e.Kind {
	case ErrBufferSize:
		return "proto: buffer too small"
	case ErrCodecError:
		return fmt.Sprintf("proto: codec error 0x%02x", e.CodecErrorByte)
	case ErrCrcMismatch:
		return fmt.Sprintf("proto: crc mismatch (calculated 0x%02x, actual 0x%02x)", e.CrcCalculated, e.CrcActual)
	case ErrBadLength:
		return fmt.Sprintf("proto: bad length %d", e.BadLen)
	case ErrInvariant:
		return fmt.Sprintf("proto: invariant violation (kind %d)", e.InvariantKind)
	default:
		return "proto: unknown error"
	}
}

// FromFrameError translates a pkg/frame decode error into a ProtoError, the
// way NackType::PacketErr(ProtoError) wraps framing faults in spec §3/§7.
func FromFrameError(err error) *ProtoError {
	switch e := err.(type) {
	case *frame.ErrCrcMismatch:
		return &ProtoError{Kind: ErrCrcMismatch, CrcCalculated: e.Calculated, CrcActual: e.Actual}
	case *frame.ErrBadLength:
		return &ProtoError{Kind: ErrBadLength, BadLen: e.Len}
	case *frame.ErrInvariant:
		return &ProtoError{Kind: ErrInvariant, InvariantKind: e.Kind}
	default:
		return &ProtoError{Kind: ErrInvariant, InvariantKind: 0xFF}
	}
}

// MarshalBinary encodes ProtoError to its compact wire form: one
// discriminant byte followed by the kind's payload bytes.
func (e *ProtoError) MarshalBinary() ([]byte, error) {
	switch e.Kind {
	case ErrBufferSize:
		return []byte{byte(e.Kind)}, nil
	case ErrCodecError:
		return []byte{byte(e.Kind), e.CodecErrorByte}, nil
	case ErrCrcMismatch:
		return []byte{byte(e.Kind), e.CrcCalculated, e.CrcActual}, nil
	case ErrBadLength:
		return []byte{byte(e.Kind), e.BadLen}, nil
	case ErrInvariant:
		return []byte{byte(e.Kind), e.InvariantKind}, nil
	default:
		return nil, newCodecError(0xFE)
	}
}

// unmarshalProtoError decodes ProtoError from its compact wire form and
// reports how many bytes it consumed via the returned length.
func unmarshalProtoError(buf []byte) (*ProtoError, int, error) {
	if len(buf) == 0 {
		return nil, 0, newCodecError(0x10)
	}
	kind := ProtoErrorKind(buf[0])
	switch kind {
	case ErrBufferSize:
		return &ProtoError{Kind: kind}, 1, nil
	case ErrCodecError:
		if len(buf) < 2 {
			return nil, 0, newCodecError(0x11)
		}
		return &ProtoError{Kind: kind, CodecErrorByte: buf[1]}, 2, nil
	case ErrCrcMismatch:
		if len(buf) < 3 {
			return nil, 0, newCodecError(0x12)
		}
		return &ProtoError{Kind: kind, CrcCalculated: buf[1], CrcActual: buf[2]}, 3, nil
	case ErrBadLength:
		if len(buf) < 2 {
			return nil, 0, newCodecError(0x13)
		}
		return &ProtoError{Kind: kind, BadLen: buf[1]}, 2, nil
	case ErrInvariant:
		if len(buf) < 2 {
			return nil, 0, newCodecError(0x14)
		}
		return &ProtoError{Kind: kind, InvariantKind: buf[1]}, 2, nil
	default:
		return nil, 0, newCodecError(0x15)
	}
}
