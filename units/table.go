package units

import (
	"sync"

	"github.com/arloliu/das2/internal/hash"
)

// Unit is an interned unit handle: a comparable value naming an entry in
// the process-global unit table. The zero Unit is invalid; use Dimensionless
// or FromString to obtain one.
type Unit struct {
	id uint64
}

// table is the process-global singleton string interning table, protected
// by a RWMutex since lookups vastly outnumber insertions once a program's
// working set of units has stabilized — the same access pattern the
// teacher's indexMaps assumes for its byID/byName maps.
type table struct {
	mu   sync.RWMutex
	byID map[uint64]string
}

var globalTable = &table{byID: make(map[uint64]string)}

// FromString interns s and returns its Unit handle. Calling FromString
// twice with the same string always returns a Unit that compares equal.
func FromString(s string) Unit {
	id := hash.ID(s)

	globalTable.mu.RLock()
	_, ok := globalTable.byID[id]
	globalTable.mu.RUnlock()

	if !ok {
		globalTable.mu.Lock()
		globalTable.byID[id] = s
		globalTable.mu.Unlock()
	}

	return Unit{id: id}
}

// String returns the canonical string representation of u.
func (u Unit) String() string {
	globalTable.mu.RLock()
	defer globalTable.mu.RUnlock()

	return globalTable.byID[u.id]
}

// IsZero reports whether u is the invalid zero Unit.
func (u Unit) IsZero() bool {
	return u.id == 0 && u.String() == ""
}

// Well-known units, interned at package init, mirroring das2C's UNIT_*
// globals in units.h.
var (
	US2000          = FromString("us2000")
	MJ1958          = FromString("mj1958")
	T2000           = FromString("t2000")
	T1970           = FromString("t1970")
	UTC             = FromString("UTC")
	Seconds         = FromString("s")
	Hours           = FromString("hr")
	Days            = FromString("day")
	Milliseconds    = FromString("ms")
	Microseconds    = FromString("us")
	Hertz           = FromString("Hz")
	KiloHertz       = FromString("kHz")
	MegaHertz       = FromString("MHz")
	Kilometers      = FromString("km")
	Meters          = FromString("m")
	Degrees         = FromString("deg")
	Dimensionless   = FromString("")
	NumberDensity   = FromString("cm**-3")
	Decibels        = FromString("dB")
	NanoTesla       = FromString("nT")
)

// epochInfo describes one recognized epoch unit (§4.4) in the epochs
// table: its Julian-day offset from JD 0 and its natural step (the multiplier
// that converts one unit of the epoch's value into seconds) and the
// Interval unit it reduces to.
type epochInfo struct {
	julianOffset float64 // JD of the epoch's zero point
	secondsPerLSB float64 // seconds represented by one unit of value
	interval     Unit
}

var epochs = map[Unit]epochInfo{
	US2000: {julianOffset: jdY2000, secondsPerLSB: 1e-6, interval: Microseconds},
	T2000:  {julianOffset: jdY2000, secondsPerLSB: 1, interval: Seconds},
	T1970:  {julianOffset: jdY1970, secondsPerLSB: 1, interval: Seconds},
	MJ1958: {julianOffset: jdMJ1958, secondsPerLSB: 86400, interval: Days},
}

// HaveCalRep reports whether u is a recognized epoch unit (including UTC,
// which has a calendar representation but no fixed secondsPerLSB since its
// Datum carries a broken-down Time rather than a numeric offset).
func HaveCalRep(u Unit) bool {
	if u == UTC {
		return true
	}
	_, ok := epochs[u]

	return ok
}
