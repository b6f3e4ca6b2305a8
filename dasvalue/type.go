// Package dasvalue implements the value layer of the das2 data model: a
// closed enumeration of primitive value types plus the Datum that carries
// one value, its type, and its units.
//
// The layer is deliberately small and allocation-free: every Datum is a
// fixed-size value type, and every Type's fill/size/compare behavior is a
// table lookup, not a virtual call, mirroring how the teacher module keeps
// its format.EncodingType / format.CompressionType enums as plain uint8s
// with a String() method rather than an interface hierarchy.
package dasvalue

import "fmt"

// Type is a tagged enumeration of the primitive value kinds the das2 wire
// format and in-memory model support.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeUint8
	TypeInt8
	TypeUint16
	TypeInt16
	TypeUint32
	TypeInt32
	TypeUint64
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeTime    // broken-down UTC time, see Time in time.go
	TypeText    // pointer-sized string value
	TypeByteSeq // opaque byte sequence
	TypeGeoVec  // geometric vector, see GeoVec in vector.go
	TypeIndex   // index-descriptor record, used internally by the array layer
)

// String names mirror the original das2C value.c vt* names so diagnostics
// read the same as the library this was distilled from.
func (t Type) String() string {
	switch t {
	case TypeUint8:
		return "ubyte"
	case TypeInt8:
		return "byte"
	case TypeUint16:
		return "ushort"
	case TypeInt16:
		return "short"
	case TypeUint32:
		return "uint"
	case TypeInt32:
		return "int"
	case TypeUint64:
		return "ulong"
	case TypeInt64:
		return "long"
	case TypeFloat32:
		return "float"
	case TypeFloat64:
		return "double"
	case TypeTime:
		return "das_time"
	case TypeText:
		return "char*"
	case TypeByteSeq:
		return "ubyte*"
	case TypeGeoVec:
		return "das_geovec"
	case TypeIndex:
		return "index_info"
	default:
		return "unknown"
	}
}

// Size returns the canonical byte size of one element of this type as
// stored in an array.Array element buffer. Variable-size types (Text,
// ByteSeq) report the size of their in-memory handle, not their payload.
func (t Type) Size() int {
	switch t {
	case TypeUint8, TypeInt8:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeUint64, TypeInt64, TypeFloat64:
		return 8
	case TypeTime:
		return timeSize
	case TypeGeoVec:
		return geoVecSize
	case TypeText, TypeByteSeq:
		return 16 // (pointer, length) handle
	case TypeIndex:
		return 8 // (offset uint32, count uint32)
	default:
		return 0
	}
}

// IsNumeric reports whether t is one of the fixed-width integer or float
// kinds that participate directly in arithmetic (BinaryOp promotion, §4.2.1).
func (t Type) IsNumeric() bool {
	switch t {
	case TypeUint8, TypeInt8, TypeUint16, TypeInt16, TypeUint32, TypeInt32,
		TypeUint64, TypeInt64, TypeFloat32, TypeFloat64:
		return true
	default:
		return false
	}
}

// IsShort reports whether t is one of the "short" numeric kinds (<=4 bytes,
// integer, or float32) used by the BinaryOp type-promotion table: both
// operands short promotes to float32, otherwise float64.
func (t Type) IsShort() bool {
	switch t {
	case TypeUint8, TypeInt8, TypeUint16, TypeInt16, TypeUint32, TypeInt32, TypeFloat32:
		return true
	default:
		return false
	}
}

// Validate returns an error if t is not one of the known variants.
func (t Type) Validate() error {
	if t == TypeUnknown || t > TypeIndex {
		return fmt.Errorf("dasvalue: %w: value type %d", errUnknownType, uint8(t))
	}

	return nil
}

var errUnknownType = fmt.Errorf("unrecognized value type")
