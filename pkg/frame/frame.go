// Package frame implements the self-synchronizing byte framing shared by
// the primary host serial link and the inter-half bus: a trailing CRC-8
// byte, zero-elimination (COBS) so the encoded region never contains a
// 0x00, and a single 0x00 delimiter. A parallel CRC-only "cs" pair skips
// the escape step for transports that already frame their own
// transactions (the inter-half bus).
package frame

import "fmt"

// ErrCrcMismatch is returned by Decode/CSDecode when the trailing CRC byte
// does not match the recomputed checksum of the preceding bytes.
type ErrCrcMismatch struct {
	Calculated byte
	Actual     byte
}

func (e *ErrCrcMismatch) Error() string {
	return fmt.Sprintf("frame: crc mismatch (calculated 0x%02x, actual 0x%02x)", e.Calculated, e.Actual)
}

// ErrBadLength is returned when the payload is empty after unescaping.
type ErrBadLength struct {
	Len byte
}

func (e *ErrBadLength) Error() string {
	return fmt.Sprintf("frame: bad length %d", e.Len)
}

// ErrInvariant is returned for malformed escape chains: a fault that
// should never occur for a frame this codec produced itself.
type ErrInvariant struct {
	Kind byte
}

func (e *ErrInvariant) Error() string {
	return fmt.Sprintf("frame: invariant violation (kind %d)", e.Kind)
}

func newInvariant(kind byte) error { return &ErrInvariant{Kind: kind} }

// Encode appends a CRC-8 byte to payload, zero-eliminates the result, and
// appends a single 0x00 delimiter.
func Encode(payload []byte) []byte {
	crc := Checksum(payload)
	withCRC := make([]byte, len(payload)+1)
	copy(withCRC, payload)
	withCRC[len(payload)] = crc

	encoded := cobsEncode(withCRC)
	encoded = append(encoded, 0)
	return encoded
}

// Decode reverses Encode. It requires frame to end in a single 0x00,
// unescapes in place (the input slice is overwritten), checks the trailing
// CRC-8, and returns the payload with the CRC and delimiter stripped.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) == 0 || frame[len(frame)-1] != 0x00 {
		return nil, newInvariant(0x10)
	}
	body := frame[:len(frame)-1]

	n, err := cobsDecodeInPlace(body)
	if err != nil {
		return nil, err
	}
	decoded := body[:n]

	if len(decoded) == 0 {
		return nil, &ErrBadLength{Len: 0}
	}

	payload := decoded[:len(decoded)-1]
	actual := decoded[len(decoded)-1]
	calculated := Checksum(payload)
	if calculated != actual {
		return nil, &ErrCrcMismatch{Calculated: calculated, Actual: actual}
	}

	return payload, nil
}

// CSEncode appends a CRC-8 byte to payload with no escape step, for
// transports whose transaction boundary already delimits the frame.
func CSEncode(payload []byte) []byte {
	crc := Checksum(payload)
	out := make([]byte, len(payload)+1)
	copy(out, payload)
	out[len(payload)] = crc
	return out
}

// CSDecode is the inverse of CSEncode: split off and check the trailing
// CRC-8, no unescaping.
func CSDecode(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, &ErrBadLength{Len: 0}
	}
	payload := frame[:len(frame)-1]
	actual := frame[len(frame)-1]
	calculated := Checksum(payload)
	if calculated != actual {
		return nil, &ErrCrcMismatch{Calculated: calculated, Actual: actual}
	}
	return payload, nil
}

// MaxEncodedLen returns the worst-case Encode output length for a payload
// of payloadLen bytes: payload + 1 CRC byte + COBS overhead (one byte per
// started 254-byte block) + 1 delimiter byte.
func MaxEncodedLen(payloadLen int) int {
	withCRC := payloadLen + 1
	overhead := (withCRC + maxBlock - 1) / maxBlock
	if overhead == 0 {
		overhead = 1
	}
	return withCRC + overhead + 1
}

// MaxCSLen returns the CSEncode output length for a payload of payloadLen
// bytes: payload + 1 CRC byte, with no escape overhead.
func MaxCSLen(payloadLen int) int {
	return payloadLen + 1
}
