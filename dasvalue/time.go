package dasvalue

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Time is the broken-down UTC time representation used throughout das2:
// year/month/day-of-month/day-of-year/hour/minute/fractional-second, per
// §3 "Datum". It is deliberately not time.Time: stream data carries
// fractional leap-second-naive UTC fields directly, and round-tripping
// through time.Time would force a timezone/monotonic decision the wire
// format does not make.
type Time struct {
	Year       int16
	Month      int8 // 1-12
	DayOfMonth int8 // 1-31
	DayOfYear  int16
	Hour       int8
	Minute     int8
	Second     float64 // 0 <= Second < 60, fractional
}

// timeSize is the packed on-wire/in-buffer size of a Time: 2+1+1+2+1+1+8,
// rounded to the natural 16-byte alignment used by Datum's inline buffer.
const timeSize = 16

// Fill returns the canonical "no value" Time: year 0 with a NaN second,
// mirroring g_timeFill in the original das2C value.c.
func Fill() Time {
	return Time{Second: math.NaN()}
}

// IsFill reports whether t is the canonical fill Time.
func (t Time) IsFill() bool {
	return math.IsNaN(t.Second) && t.Year == 0
}

func (t Time) bytes() []byte {
	var b [timeSize]byte
	binary.LittleEndian.PutUint16(b[0:2], uint16(t.Year))
	b[2] = byte(t.Month)
	b[3] = byte(t.DayOfMonth)
	binary.LittleEndian.PutUint16(b[4:6], uint16(t.DayOfYear))
	b[6] = byte(t.Hour)
	b[7] = byte(t.Minute)
	binary.LittleEndian.PutUint64(b[8:16], math.Float64bits(t.Second))

	return b[:]
}

func timeFromBytes(b []byte) Time {
	return Time{
		Year:       int16(binary.LittleEndian.Uint16(b[0:2])),
		Month:      int8(b[2]),
		DayOfMonth: int8(b[3]),
		DayOfYear:  int16(binary.LittleEndian.Uint16(b[4:6])),
		Hour:       int8(b[6]),
		Minute:     int8(b[7]),
		Second:     math.Float64frombits(binary.LittleEndian.Uint64(b[8:16])),
	}
}

// Compare orders two Times: year, then day-of-year (so Feb-29 quirks in
// Month/DayOfMonth never matter for ordering), then hour, minute, second.
// Fill values sort before all valid times.
func (t Time) Compare(o Time) int {
	if t.IsFill() && o.IsFill() {
		return 0
	}
	if t.IsFill() {
		return -1
	}
	if o.IsFill() {
		return 1
	}

	if t.Year != o.Year {
		return cmpInt(int(t.Year), int(o.Year))
	}
	if t.DayOfYear != o.DayOfYear {
		return cmpInt(int(t.DayOfYear), int(o.DayOfYear))
	}
	if t.Hour != o.Hour {
		return cmpInt(int(t.Hour), int(o.Hour))
	}
	if t.Minute != o.Minute {
		return cmpInt(int(t.Minute), int(o.Minute))
	}

	switch {
	case t.Second < o.Second:
		return -1
	case t.Second > o.Second:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String formats an ISO-8601 timestamp, e.g. "2020-01-02T03:04:05.678000Z".
func (t Time) String() string {
	if t.IsFill() {
		return "fill"
	}

	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%09.6fZ",
		t.Year, t.Month, t.DayOfMonth, t.Hour, t.Minute, t.Second)
}

// MarshalText implements encoding.TextMarshaler so a Time can be written
// directly as an XML attribute value by the stream descriptor layer.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
