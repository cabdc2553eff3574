package proto

// ResponseKind is Response's one-byte discriminant (spec §3).
type ResponseKind byte

const (
	RespAck ResponseKind = iota
	RespNack
	RespEcho
	RespData
)

// AckKind enumerates the acknowledgeable commands.
type AckKind byte

const (
	AckReset AckKind = iota
	AckEnterBootloader
	AckFlashFirmware
)

// NackKind enumerates protocol faults (spec §3).
type NackKind byte

const (
	NackUnexpected NackKind = iota
	NackPacketErr
	NackBufferOverflow
)

// Response is the tagged device-to-host reply type. As with Command, only
// the fields relevant to Kind (and, for RespNack, NackKind) are
// meaningful; construct values with the *Response constructor helpers
// (AckResponse, NackResponse, ...).
type Response struct {
	Kind ResponseKind

	AckKind  AckKind
	NackKind NackKind
	Err      *ProtoError // NackKind == NackPacketErr

	Count uint32  // RespEcho
	Data  [8]byte // RespData
}

func AckResponse(kind AckKind) Response   { return Response{Kind: RespAck, AckKind: kind} }
func NackResponse(kind NackKind) Response { return Response{Kind: RespNack, NackKind: kind} }
func NackPacketErrResponse(err *ProtoError) Response {
	return Response{Kind: RespNack, NackKind: NackPacketErr, Err: err}
}
func EchoResponse(count uint16) Response { return Response{Kind: RespEcho, Count: uint32(count)} }
func DataResponse(data [8]byte) Response { return Response{Kind: RespData, Data: data} }

// MarshalBinary encodes a Response: discriminant byte, then varint/fixed
// fields per kind (and per NackKind, for RespNack).
func (r Response) MarshalBinary() ([]byte, error) {
	buf := []byte{byte(r.Kind)}
	switch r.Kind {
	case RespAck:
		return append(buf, byte(r.AckKind)), nil
	case RespNack:
		buf = append(buf, byte(r.NackKind))
		if r.NackKind == NackPacketErr {
			if r.Err == nil {
				return nil, newCodecError(0x40)
			}
			errBytes, err := r.Err.MarshalBinary()
			if err != nil {
				return nil, err
			}
			return append(buf, errBytes...), nil
		}
		return buf, nil
	case RespEcho:
		if r.Count > 0xFFFF {
			return nil, &ProtoError{Kind: ErrInvariant, InvariantKind: 0x41}
		}
		return putUvarint(buf, uint64(r.Count)), nil
	case RespData:
		return append(buf, r.Data[:]...), nil
	default:
		return nil, newCodecError(0x42)
	}
}

// UnmarshalBinary decodes a Response from its compact wire form.
func (r *Response) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return newCodecError(0x43)
	}
	kind := ResponseKind(data[0])
	rest := data[1:]
	switch kind {
	case RespAck:
		if len(rest) < 1 {
			return newCodecError(0x44)
		}
		*r = Response{Kind: kind, AckKind: AckKind(rest[0])}
		return nil
	case RespNack:
		if len(rest) < 1 {
			return newCodecError(0x45)
		}
		nackKind := NackKind(rest[0])
		if nackKind == NackPacketErr {
			protoErr, _, err := unmarshalProtoError(rest[1:])
			if err != nil {
				return err
			}
			*r = Response{Kind: kind, NackKind: nackKind, Err: protoErr}
			return nil
		}
		*r = Response{Kind: kind, NackKind: nackKind}
		return nil
	case RespEcho:
		count, _, err := getUvarint(rest)
		if err != nil {
			return err
		}
		if count > 0xFFFF {
			return &ProtoError{Kind: ErrInvariant, InvariantKind: 0x46}
		}
		*r = Response{Kind: kind, Count: uint32(count)}
		return nil
	case RespData:
		if len(rest) < DataCount {
			return &ProtoError{Kind: ErrBadLength, BadLen: byte(len(rest))}
		}
		var data8 [8]byte
		copy(data8[:], rest[:DataCount])
		*r = Response{Kind: kind, Data: data8}
		return nil
	default:
		return newCodecError(0x47)
	}
}

func responseMaxRawSize() int {
	// Discriminant (1) + widest variant: NackPacketErr's ProtoError
	// (1 nack-kind byte + up to 3 ProtoError bytes) or 8 raw Data bytes.
	return 1 + DataCount
}
