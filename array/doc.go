// Package array implements the das2 ragged multi-dimensional array: a
// dynamic container storing elements of one dasvalue.Type in a single
// contiguous element buffer, with one additional (offset, count)
// "index-info" buffer per dimension above the fastest-varying one.
//
// The design mirrors the teacher module's section package — a fixed-size,
// explicitly laid-out record (there, NumericIndexEntry; here, IndexCell)
// grown with doubling and indexed by plain integer offsets rather than a
// pointer graph (DESIGN NOTES §9, "avoid pointer graphs by indexing into
// sibling vectors"). Where the teacher has one index-entry buffer per blob
// (one level), an Array generalizes it to one index-info buffer per
// dimension above the root, chained together by offset/count.
package array
