package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/das2/dasvalue"
	"github.com/arloliu/das2/units"
)

func TestFromString_Interning(t *testing.T) {
	a := units.FromString("km")
	b := units.FromString("km")
	assert.Equal(t, a, b)
	assert.Equal(t, "km", a.String())
}

// TestConvertTo_Identity checks §8's "convertTo(u, 1, u) == 1 for every
// unit u" property.
func TestConvertTo_Identity(t *testing.T) {
	for _, u := range []units.Unit{units.Meters, units.Kilometers, units.Seconds, units.Hours, units.US2000, units.T2000} {
		got, err := units.ConvertTo(u, 1, u)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got, 1e-9, "unit %s", u)
	}
}

// TestConvertTo_Transitive checks §8's "convertTo(v, convertTo(u, x, w), v)
// == convertTo(v, x, w) when canConvert(w,v)" property.
func TestConvertTo_Transitive(t *testing.T) {
	w, u, v := units.Kilometers, units.Meters, units.Kilometers
	x := 3.5

	require.True(t, units.CanConvert(w, v))

	direct, err := units.ConvertTo(v, x, w)
	require.NoError(t, err)

	viaU, err := units.ConvertTo(u, x, w)
	require.NoError(t, err)
	indirect, err := units.ConvertTo(v, viaU, u)
	require.NoError(t, err)

	assert.InDelta(t, direct, indirect, 1e-9)
}

func TestCanConvert_Dimensional(t *testing.T) {
	assert.True(t, units.CanConvert(units.Kilometers, units.Meters))
	assert.True(t, units.CanConvert(units.Hours, units.Seconds))
	assert.False(t, units.CanConvert(units.Kilometers, units.Seconds))
}

func TestCanConvert_Epochs(t *testing.T) {
	assert.True(t, units.CanConvert(units.US2000, units.T2000))
	assert.True(t, units.CanConvert(units.US2000, units.T1970))
	assert.False(t, units.CanConvert(units.US2000, units.Meters))
}

func TestConvertTo_KilometersToMeters(t *testing.T) {
	got, err := units.ConvertTo(units.Meters, 1, units.Kilometers)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, got, 1e-9)
}

func TestHaveCalRep(t *testing.T) {
	assert.True(t, units.HaveCalRep(units.US2000))
	assert.True(t, units.HaveCalRep(units.UTC))
	assert.False(t, units.HaveCalRep(units.Meters))
}

func TestInterval(t *testing.T) {
	assert.Equal(t, units.Microseconds, units.Interval(units.US2000))
	assert.Equal(t, units.Seconds, units.Interval(units.T2000))
	assert.Equal(t, units.Days, units.Interval(units.MJ1958))
	assert.Equal(t, units.Meters, units.Interval(units.Meters))
}

func TestMultiplyDivide(t *testing.T) {
	perSecond := units.Divide(units.Dimensionless, units.Seconds)
	assert.Equal(t, "s**-1", perSecond.String())

	back := units.Multiply(perSecond, units.Seconds)
	assert.Equal(t, units.Dimensionless, back)
}

func TestPowerRoot(t *testing.T) {
	sq := units.Power(units.Meters, 2)
	assert.Equal(t, "m**2", sq.String())

	root, err := units.Root(sq, 2)
	require.NoError(t, err)
	assert.Equal(t, units.Meters, root)
}

func TestJulianRoundTrip(t *testing.T) {
	tm := dasvalue.Time{Year: 2015, Month: 3, DayOfMonth: 18, Hour: 12, Minute: 30, Second: 15.5}
	jd := units.ToJulian(tm)
	back := units.FromJulian(jd)

	assert.Equal(t, tm.Year, back.Year)
	assert.Equal(t, tm.Month, back.Month)
	assert.Equal(t, tm.DayOfMonth, back.DayOfMonth)
	assert.Equal(t, tm.Hour, back.Hour)
	assert.Equal(t, tm.Minute, back.Minute)
	// A float64 Julian day near JD 2.46e6 is spaced 2^-31 day (about 40us)
	// apart, so the second field comes back within half that step.
	assert.InDelta(t, tm.Second, back.Second, 2.5e-5)
}
