package frame

// Zero-eliminating (COBS) escape encoding, ported from
// original_source/proto/src/proto_impl.rs's use of the `cobs` crate: each
// run of up to 254 non-zero bytes is prefixed with the distance to the next
// zero byte (or to the end of the run), so the encoded region never
// contains a literal 0x00.

const maxBlock = 254

func cobsEncode(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/maxBlock+1)
	codeIdx := len(out)
	out = append(out, 0) // placeholder for the first block's code byte
	code := byte(1)

	for i, b := range data {
		if b != 0 {
			out = append(out, b)
			code++
			if code == maxBlock+1 {
				out[codeIdx] = code
				if i == len(data)-1 {
					// A full block at the end needs no empty block after it.
					return out
				}
				codeIdx = len(out)
				out = append(out, 0)
				code = 1
			}
		} else {
			out[codeIdx] = code
			codeIdx = len(out)
			out = append(out, 0)
			code = 1
		}
	}
	out[codeIdx] = code
	return out
}

// cobsDecodeInPlace reverses cobsEncode over buf, overwriting it in place,
// and returns the decoded length. It fails with *ErrInvariant if the
// escape-chain structure is malformed.
func cobsDecodeInPlace(buf []byte) (int, error) {
	n := 0
	i := 0
	for i < len(buf) {
		code := int(buf[i])
		if code == 0 {
			return 0, newInvariant(1)
		}
		i++
		blockEnd := i + code - 1
		if blockEnd > len(buf) {
			return 0, newInvariant(2)
		}
		copy(buf[n:], buf[i:blockEnd])
		n += code - 1
		i = blockEnd
		if code != maxBlock+1 && i < len(buf) {
			buf[n] = 0
			n++
		}
	}
	return n, nil
}
