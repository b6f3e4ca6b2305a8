package dasvalue

import (
	"encoding/binary"
	"fmt"
	"math"
)

// bufSize is the inline storage a Datum carries: large enough for the
// widest primitive (Time or GeoVec, both <=24 bytes), matching das2C's
// DATUM_BUF_SZ=32 (§3 "Datum").
const bufSize = 32

// Datum is a single value plus its value type and units, carried inline.
// Text values are not packed into bytes: NewText keeps the string in the
// Datum's own text field, and bytes stays zeroed for them.
type Datum struct {
	Type  Type
	units string // unit string; the units package's Unit.String() output
	bytes [bufSize]byte
	text  string // backing storage for TypeText / TypeByteSeq
}

// NewFloat64 builds a Datum holding a float64 value.
func NewFloat64(v float64, units string) Datum {
	var d Datum
	d.Type = TypeFloat64
	d.units = units
	binary.LittleEndian.PutUint64(d.bytes[:8], math.Float64bits(v))

	return d
}

// NewFloat32 builds a Datum holding a float32 value.
func NewFloat32(v float32, units string) Datum {
	var d Datum
	d.Type = TypeFloat32
	d.units = units
	binary.LittleEndian.PutUint32(d.bytes[:4], math.Float32bits(v))

	return d
}

// NewInt64 builds a Datum holding a signed 64-bit integer.
func NewInt64(v int64, units string) Datum {
	var d Datum
	d.Type = TypeInt64
	d.units = units
	binary.LittleEndian.PutUint64(d.bytes[:8], uint64(v))

	return d
}

// NewTime builds a Datum holding a broken-down time.
func NewTime(t Time, units string) Datum {
	var d Datum
	d.Type = TypeTime
	d.units = units
	copy(d.bytes[:timeSize], t.bytes())

	return d
}

// NewText builds a Datum holding a text pointer.
func NewText(s string, units string) Datum {
	return Datum{Type: TypeText, units: units, text: s}
}

// NewGeoVec builds a Datum holding a geometric vector.
func NewGeoVec(v GeoVec, units string) Datum {
	var d Datum
	d.Type = TypeGeoVec
	d.units = units
	copy(d.bytes[:geoVecSize], v.bytes())

	return d
}

// NewFill builds the canonical fill Datum for the given type and units.
func NewFill(t Type, units string) Datum {
	switch t {
	case TypeTime:
		return NewTime(Fill(), units)
	case TypeGeoVec:
		nan := float32(math.NaN())
		return NewGeoVec(GeoVec{Components: [4]float32{nan, nan, nan, nan}}, units)
	case TypeFloat32:
		return NewFloat32(FillFloat32(), units)
	case TypeFloat64:
		return NewFloat64(FillFloat64(), units)
	case TypeText:
		return NewText("", units)
	default:
		var d Datum
		d.Type = t
		d.units = units
		FillBytes(t, binary.LittleEndian, d.bytes[:t.Size()])

		return d
	}
}

// NewNumeric builds a Datum of the given numeric Type holding v, converting
// from float64. Used by the variable layer's Sequence and BinaryOp to pack
// a computed arithmetic result back into its declared storage type without
// a per-width switch at every call site.
func NewNumeric(t Type, v float64, units string) Datum {
	var d Datum
	d.Type = t
	d.units = units

	switch t {
	case TypeFloat32:
		binary.LittleEndian.PutUint32(d.bytes[:4], math.Float32bits(float32(v)))
	case TypeFloat64:
		binary.LittleEndian.PutUint64(d.bytes[:8], math.Float64bits(v))
	case TypeUint8:
		d.bytes[0] = byte(uint8(v))
	case TypeInt8:
		d.bytes[0] = byte(int8(v))
	case TypeUint16:
		binary.LittleEndian.PutUint16(d.bytes[:2], uint16(v))
	case TypeInt16:
		binary.LittleEndian.PutUint16(d.bytes[:2], uint16(int16(v)))
	case TypeUint32:
		binary.LittleEndian.PutUint32(d.bytes[:4], uint32(v))
	case TypeInt32:
		binary.LittleEndian.PutUint32(d.bytes[:4], uint32(int32(v)))
	case TypeUint64:
		binary.LittleEndian.PutUint64(d.bytes[:8], uint64(v))
	case TypeInt64:
		binary.LittleEndian.PutUint64(d.bytes[:8], uint64(int64(v)))
	default:
		// Non-numeric type: leave the buffer zeroed rather than panic,
		// matching Float64()'s NaN-on-mismatch fallback.
	}

	return d
}

// Units returns the unit string associated with this Datum.
func (d Datum) Units() string { return d.units }

// Encode writes d's value in the given byte order into out, which must be
// at least d.Type.Size() bytes: the same raw form an array.Array element
// buffer stores, so a Datum can be appended directly without a second
// decode step.
func (d Datum) Encode(engine ByteOrder, out []byte) {
	switch d.Type {
	case TypeUint8:
		out[0] = d.bytes[0]
	case TypeInt8:
		out[0] = d.bytes[0]
	case TypeUint16, TypeInt16:
		engine.PutUint16(out, binary.LittleEndian.Uint16(d.bytes[:2]))
	case TypeUint32, TypeInt32, TypeFloat32:
		engine.PutUint32(out, binary.LittleEndian.Uint32(d.bytes[:4]))
	case TypeUint64, TypeInt64, TypeFloat64:
		engine.PutUint64(out, binary.LittleEndian.Uint64(d.bytes[:8]))
	case TypeTime:
		copy(out, d.bytes[:timeSize])
	case TypeGeoVec:
		copy(out, d.bytes[:geoVecSize])
	default:
		copy(out, d.bytes[:])
	}
}

// DecodeDatum builds a Datum of type t and units u from a raw element
// buffer encoded in the given byte order, the inverse of Encode. Text and
// ByteSeq values are not handled here: the array layer keeps those out of
// band and callers should use NewText directly.
func DecodeDatum(t Type, u string, engine ByteOrder, raw []byte) Datum {
	var d Datum
	d.Type = t
	d.units = u

	switch t {
	case TypeUint8, TypeInt8:
		d.bytes[0] = raw[0]
	case TypeUint16, TypeInt16:
		binary.LittleEndian.PutUint16(d.bytes[:2], engine.Uint16(raw))
	case TypeUint32, TypeInt32, TypeFloat32:
		binary.LittleEndian.PutUint32(d.bytes[:4], engine.Uint32(raw))
	case TypeUint64, TypeInt64, TypeFloat64:
		binary.LittleEndian.PutUint64(d.bytes[:8], engine.Uint64(raw))
	case TypeTime:
		copy(d.bytes[:timeSize], raw[:timeSize])
	case TypeGeoVec:
		copy(d.bytes[:geoVecSize], raw[:geoVecSize])
	default:
		copy(d.bytes[:], raw[:min(len(raw), bufSize)])
	}

	return d
}

// Float64 returns the value as a float64, converting from the underlying
// storage type. Valid for any numeric Type; for any other Type it returns
// NaN (callers should check d.Type.IsNumeric() first).
func (d Datum) Float64() float64 {
	switch d.Type {
	case TypeFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(d.bytes[:8]))
	case TypeFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(d.bytes[:4])))
	case TypeUint8:
		return float64(d.bytes[0])
	case TypeInt8:
		return float64(int8(d.bytes[0]))
	case TypeUint16:
		return float64(binary.LittleEndian.Uint16(d.bytes[:2]))
	case TypeInt16:
		return float64(int16(binary.LittleEndian.Uint16(d.bytes[:2])))
	case TypeUint32:
		return float64(binary.LittleEndian.Uint32(d.bytes[:4]))
	case TypeInt32:
		return float64(int32(binary.LittleEndian.Uint32(d.bytes[:4])))
	case TypeUint64:
		return float64(binary.LittleEndian.Uint64(d.bytes[:8]))
	case TypeInt64:
		return float64(int64(binary.LittleEndian.Uint64(d.bytes[:8])))
	default:
		return math.NaN()
	}
}

// Time returns the broken-down time value. Only valid when d.Type ==
// TypeTime.
func (d Datum) Time() Time {
	return timeFromBytes(d.bytes[:timeSize])
}

// Text returns the string payload. Only valid when d.Type == TypeText.
func (d Datum) Text() string { return d.text }

// GeoVec returns the vector payload. Only valid when d.Type == TypeGeoVec.
func (d Datum) GeoVec() GeoVec {
	return geoVecFromBytes(d.bytes[:geoVecSize])
}

// IsFill reports whether d holds its type's canonical fill value.
func (d Datum) IsFill() bool {
	switch d.Type {
	case TypeTime:
		return d.Time().IsFill()
	case TypeFloat32, TypeFloat64:
		return math.IsNaN(d.Float64())
	case TypeText:
		return d.text == ""
	case TypeGeoVec:
		return d.GeoVec().IsFill()
	default:
		expect := NewFill(d.Type, d.units)
		return d.bytes == expect.bytes
	}
}

// Compare orders two Datums of the same Type. Numeric types compare by
// Float64 value; Time compares via Time.Compare; Text compares
// lexicographically. Comparing Datums of different Type returns 0 (callers
// needing cross-type comparison must convert first — see units.ConvertTo).
func (d Datum) Compare(o Datum) int {
	if d.Type != o.Type {
		return 0
	}

	switch d.Type {
	case TypeTime:
		return d.Time().Compare(o.Time())
	case TypeText:
		switch {
		case d.text < o.text:
			return -1
		case d.text > o.text:
			return 1
		default:
			return 0
		}
	default:
		a, b := d.Float64(), o.Float64()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// String formats the Datum value with its units suffix, e.g. "9.5 km".
func (d Datum) String() string {
	switch d.Type {
	case TypeTime:
		return d.Time().String()
	case TypeText:
		return d.text
	case TypeGeoVec:
		return fmt.Sprintf("%v %s", d.GeoVec().Components, d.units)
	default:
		if d.units == "" {
			return fmt.Sprintf("%v", d.Float64())
		}

		return fmt.Sprintf("%v %s", d.Float64(), d.units)
	}
}
