package array

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/errs"
	"github.com/arloliu/das2/internal/varint"
)

// snapshotMagic tags the binary format so Load can reject foreign data
// early instead of panicking deep in a decode loop.
const snapshotMagic = 0xDA52

// Snapshot serializes a's element buffer and index-info chain to a
// compact binary form, so a variable.ArrayVariable can be written to and
// read from a stream data packet without a separate ad-hoc encoder
// (grounded on the teacher's section.NumericIndexEntry delta-offset
// encoding, here applied per dimension rather than per metric).
//
// Each index-info buffer is stored as a run of zigzag-varint
// (offset-delta, count) pairs: offsets in a buffer built by Append/
// MarkEnd/QubeIn are monotonically non-decreasing, so consecutive deltas
// are small and close to the buffer's own count — exactly the locality
// NumericIndexEntry exploits for its uint16 deltas, generalized here to
// varint so it isn't bounded to a 16-bit range.
func (a *Array) Snapshot() []byte {
	var buf []byte

	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], snapshotMagic)
	buf = append(buf, hdr[:]...)

	buf = putString(buf, a.id)
	buf = append(buf, byte(a.vt), byte(a.rank), byte(a.usage))
	buf = putString(buf, a.units)

	for d := 0; d < a.rank; d++ {
		buf = varint.PutZigzag(buf, int64(a.shapeHint[d]))
	}

	buf = varint.PutZigzag(buf, int64(a.valid))
	buf = append(buf, a.elements[:a.valid*a.elemSize]...)

	for d := 1; d < a.rank; d++ {
		cells := a.bufs[d]
		buf = varint.PutZigzag(buf, int64(len(cells)))

		var prevOffset int32
		for _, c := range cells {
			buf = varint.PutZigzag(buf, int64(c.Offset-prevOffset))
			buf = varint.PutZigzag(buf, int64(c.Count))
			prevOffset = c.Offset
		}
	}

	return buf
}

func putString(buf []byte, s string) []byte {
	buf = varint.PutZigzag(buf, int64(len(s)))

	return append(buf, s...)
}

type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) zigzag() (int64, error) {
	v, n := varint.Zigzag(c.data[c.pos:])
	if n == 0 {
		return 0, fmt.Errorf("array: %w: truncated varint", errs.ErrIndexOutOfRange)
	}
	c.pos += n

	return v, nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if c.pos+n > len(c.data) {
		return nil, fmt.Errorf("array: %w: truncated snapshot", errs.ErrIndexOutOfRange)
	}
	out := c.data[c.pos : c.pos+n]
	c.pos += n

	return out, nil
}

func (c *cursor) string() (string, error) {
	n, err := c.zigzag()
	if err != nil {
		return "", err
	}
	b, err := c.bytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Load deserializes an Array previously produced by Snapshot. The result
// is a fresh owning Array with refcount 1.
func Load(data []byte) (*Array, error) {
	if len(data) < 2 || binary.BigEndian.Uint16(data[:2]) != snapshotMagic {
		return nil, fmt.Errorf("array: %w: bad snapshot header", errs.ErrIndexOutOfRange)
	}

	c := &cursor{data: data, pos: 2}

	id, err := c.string()
	if err != nil {
		return nil, err
	}

	flags, err := c.bytes(3)
	if err != nil {
		return nil, err
	}
	vt := dasvalue.Type(flags[0])
	rank := int(flags[1])
	usage := UsageFlag(flags[2])

	units, err := c.string()
	if err != nil {
		return nil, err
	}

	if rank < 1 || rank > MaxRank {
		return nil, errs.ErrInvalidRank
	}

	shapeHints := make([]int, rank)
	for d := 0; d < rank; d++ {
		v, err := c.zigzag()
		if err != nil {
			return nil, err
		}
		shapeHints[d] = int(v)
	}

	a, err := New(id, vt, rank, shapeHints)
	if err != nil {
		return nil, err
	}
	a.usage = usage
	a.units = units

	validN, err := c.zigzag()
	if err != nil {
		return nil, err
	}
	elemBytes, err := c.bytes(int(validN) * vt.Size())
	if err != nil {
		return nil, err
	}
	a.elements = append([]byte(nil), elemBytes...)
	a.valid = int(validN)

	for d := 1; d < rank; d++ {
		count, err := c.zigzag()
		if err != nil {
			return nil, err
		}
		cells := make([]IndexCell, count)

		var offset int32
		for i := range cells {
			delta, err := c.zigzag()
			if err != nil {
				return nil, err
			}
			cnt, err := c.zigzag()
			if err != nil {
				return nil, err
			}
			offset += int32(delta)
			cells[i] = IndexCell{Offset: offset, Count: int32(cnt)}
		}
		a.bufs[d] = cells
	}

	return a, nil
}
