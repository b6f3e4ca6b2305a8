// Package units implements the das2 physical-units algebra: a
// process-global, singleton-interned string table of unit names plus a
// small algebra over them (Multiply, Divide, Power, Root, Interval,
// CanConvert, ConvertTo) and a recognized set of epoch units whose Interval
// yields a pure duration unit.
//
// The interning table is grounded on the teacher module's indexMaps
// generic lookup pattern (blob/blob.go): a map keyed by a hash of the unit
// string, guarded by a mutex, handing back a small comparable handle (Unit)
// instead of repeatedly comparing strings. Unit names are hashed with
// xxhash, the same hash the teacher uses for metric name interning
// (internal/hash.ID), so two units package values are equal iff their
// underlying strings are equal — the das2C library relies on *pointer*
// equality of interned C strings for the same property; Unit plays that
// role here.
package units
