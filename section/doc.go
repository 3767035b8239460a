// Package section defines the fixed-size sections of a tunetrace archive and their
// binary layout.
//
// An archive is laid out as:
//
//	+------------------+  0
//	| Header (32 B)    |
//	+------------------+  32
//	| Index            |  ChannelCount x 12 B: channel ID, point count
//	+------------------+
//	| Names payload    |  per channel: uint8 length + UTF-8 bytes
//	+------------------+  TimestampPayloadOffset
//	| Timestamp payload|  float64 words, compressed
//	+------------------+  ValuePayloadOffset
//	| Value payload    |  float64 words, compressed
//	+------------------+
//
// Header layout (byte offsets):
//
//	0-1    Options: bit 1 endianness, bit 2 hash collision, bits 4-15 magic
//	2      Version
//	3      Compression: bits 0-3 timestamps, bits 4-7 values
//	4-11   Origin (float64, clock milliseconds)
//	12-19  Unit (float64, clock milliseconds per display unit)
//	20-21  ChannelCount
//	22-23  Estimate (samples per update, 0 when undefined)
//	24-27  TimestampPayloadOffset
//	28-31  ValuePayloadOffset
//
// The Options field is always little-endian; every other multi-byte field uses the
// byte order selected by the endianness bit.
package section
