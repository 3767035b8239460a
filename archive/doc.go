// Package archive stores the channels of an analysis bundle in a compact binary
// file and reads them back.
//
// The layout is described in package section. Channel IDs are the xxHash64 of
// the channel names; the names themselves are always stored, so lookups by name
// work even when two names hash to the same ID. Timestamps and values are packed
// as float64 words into two payloads, each compressed with its own codec.
//
// Encoding a bundle:
//
//	data, err := archive.EncodeBundle(bundle, archive.WithCompression(format.CompressionS2))
//
// Reading it back:
//
//	a, err := archive.Decode(data)
//	cte, err := a.Channel(telemetry.ChannelCTE)
package archive
