package archive

import (
	"fmt"

	"github.com/arloliu/tunetrace/compress"
	"github.com/arloliu/tunetrace/correspondence"
	"github.com/arloliu/tunetrace/endian"
	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/format"
	"github.com/arloliu/tunetrace/internal/encoding"
	"github.com/arloliu/tunetrace/internal/hash"
	"github.com/arloliu/tunetrace/pipeline"
	"github.com/arloliu/tunetrace/section"
)

// maxPoints bounds the decoded payload size to what an archive offset can address.
const maxPoints = section.MaxPayloadOffset / section.WordSize

// Archive is a decoded archive. It is read-only and safe for concurrent use.
type Archive struct {
	header   section.Header
	channels []pipeline.Channel
	ids      []uint64

	byName map[string]int
	// byID omits IDs shared by more than one channel.
	byID map[uint64]int

	tsStats  compress.Stats
	valStats compress.Stats
}

// Decode parses and fully decompresses data.
func Decode(data []byte) (*Archive, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	namesOffset := header.NamesOffset()
	tsOffset := int(header.TimestampPayloadOffset)
	valOffset := int(header.ValuePayloadOffset)
	if namesOffset > tsOffset || tsOffset > valOffset || valOffset > len(data) {
		return nil, fmt.Errorf("%w: offsets %d/%d/%d beyond %d bytes",
			errs.ErrTruncatedPayload, namesOffset, tsOffset, valOffset, len(data))
	}

	engine := header.Flag.GetEndianEngine()
	count := int(header.ChannelCount)
	entries := make([]section.IndexEntry, count)
	ids := make([]uint64, count)
	points := 0
	for i := range entries {
		start := section.IndexOffset + i*section.IndexEntrySize
		entry, err := section.ParseIndexEntry(data[start:start+section.IndexEntrySize], engine)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
		ids[i] = entry.ID
		points += int(entry.Count)
	}

	names, consumed, err := encoding.DecodeNames(data[namesOffset:tsOffset], count)
	if err != nil {
		return nil, err
	}
	if namesOffset+consumed != tsOffset {
		return nil, fmt.Errorf("%w: names payload ends at %d, timestamps start at %d",
			errs.ErrInvalidIndexEntry, namesOffset+consumed, tsOffset)
	}
	if err := encoding.VerifyNames(names, ids, hash.ID); err != nil {
		return nil, err
	}

	if points > maxPoints {
		return nil, fmt.Errorf("%w: %d points", errs.ErrArchiveTooLarge, points)
	}
	size := points * section.WordSize
	tsPayload, tsStats, err := decompress(header.Flag.TimestampCompression(), data[tsOffset:valOffset], size)
	if err != nil {
		return nil, fmt.Errorf("timestamp payload: %w", err)
	}
	valPayload, valStats, err := decompress(header.Flag.ValueCompression(), data[valOffset:], size)
	if err != nil {
		return nil, fmt.Errorf("value payload: %w", err)
	}

	a := &Archive{
		header:   header,
		channels: make([]pipeline.Channel, count),
		ids:      ids,
		byName:   make(map[string]int, count),
		byID:     make(map[uint64]int, count),
		tsStats:  tsStats,
		valStats: valStats,
	}

	offset := 0
	ambiguous := make(map[uint64]struct{})
	for i, entry := range entries {
		n := int(entry.Count)
		ts, err := encoding.DecodeFloat64s(engine, tsPayload[offset:], n)
		if err != nil {
			return nil, err
		}
		vals, err := encoding.DecodeFloat64s(engine, valPayload[offset:], n)
		if err != nil {
			return nil, err
		}
		offset += entry.PayloadLength()

		a.channels[i] = pipeline.Channel{Name: names[i], Timestamps: ts, Values: vals}
		if _, dup := a.byName[names[i]]; dup {
			return nil, fmt.Errorf("%w: %s", errs.ErrDuplicateChannel, names[i])
		}
		a.byName[names[i]] = i
		if _, dup := a.byID[entry.ID]; dup {
			ambiguous[entry.ID] = struct{}{}
		}
		a.byID[entry.ID] = i
	}
	for id := range ambiguous {
		delete(a.byID, id)
	}

	return a, nil
}

func decompress(comp format.CompressionType, data []byte, size int) ([]byte, compress.Stats, error) {
	stats := compress.Stats{
		Algorithm:      comp,
		OriginalSize:   int64(size),
		CompressedSize: int64(len(data)),
	}

	codec, err := compress.GetCodec(comp)
	if err != nil {
		return nil, stats, err
	}
	out, err := codec.Decompress(data, size)
	if err != nil {
		return nil, stats, err
	}

	return out, stats, nil
}

// Origin returns the common time origin in clock milliseconds.
func (a *Archive) Origin() float64 {
	return a.header.Origin
}

// Unit returns the number of clock milliseconds per display unit.
func (a *Archive) Unit() float64 {
	return a.header.Unit
}

// Estimate returns the stored samples-per-update estimate.
func (a *Archive) Estimate() correspondence.Estimate {
	if a.header.Estimate == 0 {
		return correspondence.Undefined
	}

	return correspondence.Estimate{Samples: int(a.header.Estimate), Defined: true}
}

// Meta returns the header information.
func (a *Archive) Meta() Meta {
	return Meta{Origin: a.Origin(), Unit: a.Unit(), Estimate: a.Estimate()}
}

// ByteOrder returns the byte order the archive was written in.
func (a *Archive) ByteOrder() endian.EndianEngine {
	return a.header.Flag.GetEndianEngine()
}

// HasCollision reports whether two channel names share an ID.
func (a *Archive) HasCollision() bool {
	return a.header.Flag.HasCollision()
}

// Len returns the number of channels.
func (a *Archive) Len() int {
	return len(a.channels)
}

// Channels returns every channel in stored order.
func (a *Archive) Channels() []pipeline.Channel {
	return a.channels
}

// ID returns the ID of the i-th channel.
func (a *Archive) ID(i int) uint64 {
	return a.ids[i]
}

// Channel returns the channel called name.
func (a *Archive) Channel(name string) (pipeline.Channel, error) {
	i, ok := a.byName[name]
	if !ok {
		return pipeline.Channel{}, fmt.Errorf("%w: %s", errs.ErrChannelNotFound, name)
	}

	return a.channels[i], nil
}

// ChannelByID returns the channel with the given ID. IDs shared by several
// channels fail with errs.ErrHashCollision; look those up by name.
func (a *Archive) ChannelByID(id uint64) (pipeline.Channel, error) {
	if i, ok := a.byID[id]; ok {
		return a.channels[i], nil
	}
	for _, other := range a.ids {
		if other == id {
			return pipeline.Channel{}, fmt.Errorf("%w: 0x%016x", errs.ErrHashCollision, id)
		}
	}

	return pipeline.Channel{}, fmt.Errorf("%w: 0x%016x", errs.ErrChannelNotFound, id)
}

// Stats returns the compression statistics of the timestamp and value payloads.
func (a *Archive) Stats() (timestamps, values compress.Stats) {
	return a.tsStats, a.valStats
}
