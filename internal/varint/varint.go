// Package varint provides zigzag/varint encoding for the small signed
// deltas that show up in an Array's index-info chain when it is
// serialized (offset/count run lengths cluster tightly around their
// predecessor, the same way mebo's NumericIndexEntry deltas do for
// per-metric byte offsets).
package varint

// PutZigzag appends the zigzag-varint encoding of v to buf and returns the
// extended slice.
func PutZigzag(buf []byte, v int64) []byte {
	u := zigzagEncode(v)
	for u >= 0x80 {
		buf = append(buf, byte(u)|0x80)
		u >>= 7
	}

	return append(buf, byte(u))
}

// Zigzag reads one zigzag-varint value from buf, returning the value and
// the number of bytes consumed, or (0, 0) if buf does not hold a complete
// encoding.
func Zigzag(buf []byte) (int64, int) {
	var u uint64
	var shift uint
	for i, b := range buf {
		u |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return zigzagDecode(u), i + 1
		}
		shift += 7
		if shift >= 64 {
			return 0, 0
		}
	}

	return 0, 0
}

func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func zigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
