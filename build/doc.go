// Package build provides the payload-side processors used when
// assembling a new package: independent size and digest accumulators
// over the raw (uncompressed) and compressed payload streams, and the
// payload coding writers that feed them.
//
// The format records both an uncompressed and a compressed size and
// digest as separate header entries, so every processor tracks the two
// streams independently.
package build
