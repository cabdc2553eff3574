package proto

// Matrix geometry, ported from original_source/firmware/src/key_map.rs.
const (
	NumRows = 5
	NumCols = 7
	NumKeys = NumRows * NumCols // 35
)

// MatrixLoc packs a (row, col) pair into one byte: row*NumCols+col.
type MatrixLoc byte

// NewMatrixLoc builds a MatrixLoc from a row/col pair.
func NewMatrixLoc(row, col int) MatrixLoc {
	return MatrixLoc(row*NumCols + col)
}

// Row returns the matrix row this coordinate refers to.
func (m MatrixLoc) Row() int { return int(m) / NumCols }

// Col returns the matrix column this coordinate refers to.
func (m MatrixLoc) Col() int { return int(m) % NumCols }

// KeyUpdate is a bounded set of matrix coordinates currently pressed on
// one half (spec §3). Each coordinate appears at most once.
type KeyUpdate struct {
	Keys []MatrixLoc
}

// NoKeys returns the empty KeyUpdate.
func NoKeys() KeyUpdate { return KeyUpdate{} }

// MarshalBinary encodes a KeyUpdate as a varint length prefix followed by
// its packed coordinate bytes.
func (k KeyUpdate) MarshalBinary() ([]byte, error) {
	if len(k.Keys) > NumKeys {
		return nil, &ProtoError{Kind: ErrBufferSize}
	}
	buf := putUvarint(nil, uint64(len(k.Keys)))
	for _, loc := range k.Keys {
		buf = append(buf, byte(loc))
	}
	return buf, nil
}

// UnmarshalBinary decodes a KeyUpdate and validates that every coordinate
// is in range and appears at most once (spec §3's invariant).
func (k *KeyUpdate) UnmarshalBinary(data []byte) error {
	count, n, err := getUvarint(data)
	if err != nil {
		return err
	}
	if count > NumKeys {
		return &ProtoError{Kind: ErrBufferSize}
	}
	data = data[n:]
	if uint64(len(data)) < count {
		return &ProtoError{Kind: ErrBadLength, BadLen: byte(len(data))}
	}

	seen := make(map[MatrixLoc]bool, count)
	keys := make([]MatrixLoc, 0, count)
	for i := uint64(0); i < count; i++ {
		loc := MatrixLoc(data[i])
		if int(loc) >= NumKeys {
			return &ProtoError{Kind: ErrInvariant, InvariantKind: 0x20}
		}
		if seen[loc] {
			return &ProtoError{Kind: ErrInvariant, InvariantKind: 0x21}
		}
		seen[loc] = true
		keys = append(keys, loc)
	}

	k.Keys = keys
	return nil
}

func keyUpdateMaxRawSize() int {
	// 1-byte varint length prefix (NumKeys=35 fits in one byte) + one
	// packed byte per coordinate.
	return 1 + NumKeys
}
