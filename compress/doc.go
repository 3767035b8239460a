// Package compress provides the payload codecs of the tunetrace archive.
//
// Timestamp and value columns are stored as packed float64 words and compressed
// as a whole, one payload per column kind. Four algorithms are available:
//   - None: payload stored as is
//   - Zstd: best ratio; pure Go (klauspost/compress) by default, cgo-backed
//     gozstd when built with the gozstd tag
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//
// The decoded size of every payload is known from the archive index, so
// Decompress takes it as a hint and rejects output of any other length.
//
// All codecs are stateless values and safe for concurrent use.
package compress
