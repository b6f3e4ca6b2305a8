package variable

import (
	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/endian"
	"github.com/arloliu/das2/units"
)

// defaultEngine is the byte order used when a variable needs to round-trip
// a value through an array element buffer internally (e.g. Sequence.Subset
// materializing a dense Array). Stream-level encodings pick their own
// engine; this one only ever touches in-memory scratch buffers.
var defaultEngine = endian.GetLittleEndianEngine()

// encodeNumeric builds a Datum of type vt holding v (a float64), used by
// Sequence and BinaryOp to pack their computed value back into the
// variable's declared storage type.
func encodeNumeric(vt dasvalue.Type, v float64, u string) dasvalue.Datum {
	return dasvalue.NewNumeric(vt, v, u)
}

// timeToJD and jdToTime wrap the units package's Julian-day algorithm for
// BinaryOp's time arithmetic (§4.2.1 "time ± duration", "time − time").
func timeToJD(t dasvalue.Time) float64   { return units.ToJulian(t) }
func jdToTime(jd float64) dasvalue.Time  { return units.FromJulian(jd) }
