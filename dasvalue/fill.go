package dasvalue

import "math"

// Canonical fill values, one per numeric Type. These match the das2C
// g_*Fill constants in value.c: the widest representable sentinel for
// unsigned types, the most negative for signed types, and NaN for floats.
const (
	FillUint8  uint8  = math.MaxUint8
	FillInt8   int8   = math.MinInt8
	FillUint16 uint16 = math.MaxUint16
	FillInt16  int16  = math.MinInt16
	FillUint32 uint32 = math.MaxUint32
	FillInt32  int32  = math.MinInt32
	FillUint64 uint64 = math.MaxUint64
	FillInt64  int64  = math.MinInt64
)

var (
	fillFloat32 = float32(math.NaN())
	fillFloat64 = math.NaN()
)

// FillFloat32 returns the canonical fill value for 32-bit floats (NaN).
func FillFloat32() float32 { return fillFloat32 }

// FillFloat64 returns the canonical fill value for 64-bit floats (NaN).
func FillFloat64() float64 { return fillFloat64 }

// FillBytes writes t's canonical fill value into a buffer of at least
// t.Size() bytes, using the given byte order. It is used by Array.QubeIn to
// pad ragged dimensions up to their declared shape hint.
func FillBytes(t Type, engine ByteOrder, out []byte) {
	switch t {
	case TypeUint8:
		out[0] = FillUint8
	case TypeInt8:
		out[0] = byte(FillInt8)
	case TypeUint16:
		engine.PutUint16(out, FillUint16)
	case TypeInt16:
		engine.PutUint16(out, uint16(FillInt16))
	case TypeUint32:
		engine.PutUint32(out, FillUint32)
	case TypeInt32:
		engine.PutUint32(out, uint32(FillInt32))
	case TypeFloat32:
		engine.PutUint32(out, math.Float32bits(fillFloat32))
	case TypeUint64:
		engine.PutUint64(out, FillUint64)
	case TypeInt64:
		engine.PutUint64(out, uint64(FillInt64))
	case TypeFloat64:
		engine.PutUint64(out, math.Float64bits(fillFloat64))
	case TypeTime:
		fillTime := Fill()
		copy(out, fillTime.bytes())
	default:
		// Text, ByteSeq, GeoVec, Index: zero the buffer, these types
		// carry their own fill semantics at a higher layer (empty slice,
		// NaN components).
		for i := range out {
			out[i] = 0
		}
	}
}

// ByteOrder is the subset of encoding/binary.ByteOrder this package needs;
// defined locally so dasvalue has no dependency on the endian package (it
// sits below units/array/variable in the dependency order, §2).
type ByteOrder interface {
	PutUint16([]byte, uint16)
	PutUint32([]byte, uint32)
	PutUint64([]byte, uint64)
	Uint16([]byte) uint16
	Uint32([]byte) uint32
	Uint64([]byte) uint64
}
