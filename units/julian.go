package units

import (
	"math"

	"github.com/arloliu/das2/dasvalue"
)

// Julian day conversion, per §4.4 ("Time datums ... are converted via a
// Julian-day algorithm to and from any epoch") and DESIGN NOTES §9's
// direction to resolve this from original_source rather than invent it.
//
// The civil<->JD algorithm is the standard Fliegel & Van Flandern (1968)
// integer form, valid over the entire proleptic Gregorian calendar; time
// of day is handled separately as a fraction of a day.

// jdY2000 is the Julian day number of 2000-01-01T00:00:00Z.
const jdY2000 = 2451544.5

// jdY1970 is the Julian day number of 1970-01-01T00:00:00Z.
const jdY1970 = 2440587.5

// jdMJ1958 is the Julian day number of 1958-01-01T00:00:00Z (MJD 36204).
const jdMJ1958 = 2436204.5

// ToJulian converts a broken-down Time to a Julian day number (fractional,
// UT). Fill times map to NaN.
func ToJulian(t dasvalue.Time) float64 {
	if t.IsFill() {
		return math.NaN()
	}

	y, m, d := int(t.Year), int(t.Month), int(t.DayOfMonth)

	// Fliegel & Van Flandern integer Julian day number for the date part.
	a := (14 - m) / 12
	yy := y + 4800 - a
	mm := m + 12*a - 3

	jdn := d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045

	dayFrac := (float64(t.Hour)*3600 + float64(t.Minute)*60 + t.Second) / 86400.0

	return float64(jdn) - 0.5 + dayFrac
}

// FromJulian converts a Julian day number back to a broken-down Time.
func FromJulian(jd float64) dasvalue.Time {
	if math.IsNaN(jd) {
		return dasvalue.Fill()
	}

	jdn := jd + 0.5
	z := int64(jdn)
	dayFrac := jdn - float64(z)

	a := z + 32044
	b := (4*a + 3) / 146097
	c := a - (146097*b)/4

	d := (4*c + 3) / 1461
	e := c - (1461*d)/4
	mnum := (5*e + 2) / 153

	day := e - (153*mnum+2)/5 + 1
	month := mnum + 3 - 12*(mnum/10)
	year := 100*b + d - 4800 + mnum/10

	secOfDay := dayFrac * 86400.0
	hour := int64(secOfDay / 3600)
	secOfDay -= float64(hour) * 3600
	minute := int64(secOfDay / 60)
	secOfDay -= float64(minute) * 60

	t := dasvalue.Time{
		Year:       int16(year),
		Month:      int8(month),
		DayOfMonth: int8(day),
		Hour:       int8(hour),
		Minute:     int8(minute),
		Second:     secOfDay,
	}
	t.DayOfYear = int16(dayOfYearFromJD(year, jdn))

	return t
}

// dayOfYearFromJD computes the day-of-year for a given calendar year by
// re-deriving the Julian day of that year's January 1st and differencing.
func dayOfYearFromJD(year int64, jdn float64) int64 {
	jan1 := ToJulian(dasvalue.Time{Year: int16(year), Month: 1, DayOfMonth: 1})

	return int64(jdn) - int64(jan1+0.5) + 1
}

