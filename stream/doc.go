// Package stream implements the das2 streaming I/O layer (§4.5/§6): a
// framed packet protocol over a file, pipe, or network connection, with a
// callback-driven read loop and a symmetric write loop, optional deflate
// compression, and progress/comment/exception signalling carried in-band
// as out-of-band (OOB) packets.
//
// The read/write loops mirror the teacher module's encoder/decoder split
// (blob.NumericEncoder / blob.NumericDecoder): one type per direction,
// built around a registered table of per-packet-id handlers instead of a
// single monolithic switch, the same dispatch shape the teacher uses for
// its per-metric index lookups.
package stream
