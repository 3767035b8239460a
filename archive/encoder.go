package archive

import (
	"fmt"

	"github.com/arloliu/tunetrace/compress"
	"github.com/arloliu/tunetrace/correspondence"
	"github.com/arloliu/tunetrace/endian"
	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/format"
	"github.com/arloliu/tunetrace/internal/collision"
	"github.com/arloliu/tunetrace/internal/encoding"
	"github.com/arloliu/tunetrace/internal/hash"
	"github.com/arloliu/tunetrace/internal/options"
	"github.com/arloliu/tunetrace/internal/pool"
	"github.com/arloliu/tunetrace/pipeline"
	"github.com/arloliu/tunetrace/section"
)

// Meta is the run-level information stored in the archive header.
type Meta struct {
	// Origin is the common time origin in clock milliseconds.
	Origin float64
	// Unit is the number of clock milliseconds per display unit.
	Unit float64
	// Estimate is the telemetry samples per parameter update.
	Estimate correspondence.Estimate
}

// MetaOf returns the header information of a bundle.
func MetaOf(b *pipeline.Bundle) Meta {
	return Meta{Origin: b.Origin, Unit: b.Unit, Estimate: b.Estimate()}
}

// Encoder writes archives. Its configuration is fixed at construction, so one
// Encoder may be used for many archives, also concurrently.
type Encoder struct {
	flag section.Flag
}

// Option configures an Encoder.
type Option = options.Option[*Encoder]

// WithCompression sets the codec of both payloads.
func WithCompression(comp format.CompressionType) Option {
	return options.New(func(e *Encoder) error {
		if err := validCompression("archive", comp); err != nil {
			return err
		}
		e.flag.SetTimestampCompression(comp)
		e.flag.SetValueCompression(comp)

		return nil
	})
}

// WithTimestampCompression sets the codec of the timestamp payload.
func WithTimestampCompression(comp format.CompressionType) Option {
	return options.New(func(e *Encoder) error {
		if err := validCompression("timestamp", comp); err != nil {
			return err
		}
		e.flag.SetTimestampCompression(comp)

		return nil
	})
}

// WithValueCompression sets the codec of the value payload.
func WithValueCompression(comp format.CompressionType) Option {
	return options.New(func(e *Encoder) error {
		if err := validCompression("value", comp); err != nil {
			return err
		}
		e.flag.SetValueCompression(comp)

		return nil
	})
}

// WithLittleEndian selects little-endian byte order, the default.
func WithLittleEndian() Option {
	return options.NoError(func(e *Encoder) {
		e.flag.WithLittleEndian()
	})
}

// WithBigEndian selects big-endian byte order.
func WithBigEndian() Option {
	return options.NoError(func(e *Encoder) {
		e.flag.WithBigEndian()
	})
}

// WithByteOrder selects the byte order of engine.
func WithByteOrder(engine endian.EndianEngine) Option {
	return options.NoError(func(e *Encoder) {
		if engine == endian.GetBigEndianEngine() {
			e.flag.WithBigEndian()
		} else {
			e.flag.WithLittleEndian()
		}
	})
}

func validCompression(target string, comp format.CompressionType) error {
	if _, err := compress.GetCodec(comp); err != nil {
		return fmt.Errorf("invalid %s compression: %w", target, err)
	}

	return nil
}

// NewEncoder creates an encoder. Defaults: little-endian, zstd for both payloads.
func NewEncoder(opts ...Option) (*Encoder, error) {
	e := &Encoder{flag: section.NewFlag()}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Encode is a shorthand for NewEncoder(opts...) followed by Encode.
func Encode(meta Meta, channels []pipeline.Channel, opts ...Option) ([]byte, error) {
	e, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return e.Encode(meta, channels)
}

// EncodeBundle encodes every channel of b.
func EncodeBundle(b *pipeline.Bundle, opts ...Option) ([]byte, error) {
	return Encode(MetaOf(b), b.Channels(), opts...)
}

// Encode writes meta and channels, in order, as one archive.
//
// Every channel needs a unique, non-empty name of at most 255 bytes and as many
// values as timestamps.
func (e *Encoder) Encode(meta Meta, channels []pipeline.Channel) ([]byte, error) {
	if len(channels) > section.MaxChannelCount {
		return nil, fmt.Errorf("%w: %d channels, max %d", errs.ErrTooManyChannels, len(channels), section.MaxChannelCount)
	}

	header := section.NewHeader(meta.Origin, meta.Unit)
	header.Flag = e.flag
	if n, ok := meta.Estimate.Get(); ok {
		if n <= 0 || n > section.MaxEstimate {
			return nil, fmt.Errorf("%w: %d", errs.ErrEstimateOutOfRange, n)
		}
		header.Estimate = uint16(n)
	}

	tracker := collision.NewTracker()
	entries := make([]section.IndexEntry, 0, len(channels))
	points := 0
	for _, ch := range channels {
		if len(ch.Timestamps) != len(ch.Values) {
			return nil, fmt.Errorf("channel %s: %d timestamps, %d values: %w",
				ch.Name, len(ch.Timestamps), len(ch.Values), errs.ErrPointCountMismatch)
		}
		id := hash.ID(ch.Name)
		if err := tracker.Track(ch.Name, id); err != nil {
			return nil, err
		}
		entries = append(entries, section.NewIndexEntry(id, uint32(len(ch.Timestamps)))) //nolint: gosec
		points += len(ch.Timestamps)
	}
	header.ChannelCount = uint16(len(channels)) //nolint: gosec
	header.Flag.SetCollision(tracker.HasCollision())

	engine := header.Flag.GetEndianEngine()
	buf := make([]byte, section.HeaderSize, header.NamesOffset()+2*points*section.WordSize)
	for _, entry := range entries {
		buf = entry.AppendTo(engine, buf)
	}
	buf, err := encoding.AppendNames(buf, tracker.Names())
	if err != nil {
		return nil, err
	}

	tsOffset := len(buf)
	buf, err = appendPayload(buf, header.Flag.TimestampCompression(), engine, channels,
		func(ch pipeline.Channel) []float64 { return ch.Timestamps })
	if err != nil {
		return nil, fmt.Errorf("timestamp payload: %w", err)
	}

	valOffset := len(buf)
	buf, err = appendPayload(buf, header.Flag.ValueCompression(), engine, channels,
		func(ch pipeline.Channel) []float64 { return ch.Values })
	if err != nil {
		return nil, fmt.Errorf("value payload: %w", err)
	}

	if valOffset > section.MaxPayloadOffset {
		return nil, errs.ErrArchiveTooLarge
	}
	header.TimestampPayloadOffset = uint32(tsOffset) //nolint: gosec
	header.ValuePayloadOffset = uint32(valOffset)    //nolint: gosec
	copy(buf[:section.HeaderSize], header.Bytes())

	return buf, nil
}

// appendPayload packs one column of every channel into a pooled scratch buffer,
// compresses it and appends the result to buf.
func appendPayload(
	buf []byte,
	comp format.CompressionType,
	engine endian.EndianEngine,
	channels []pipeline.Channel,
	column func(pipeline.Channel) []float64,
) ([]byte, error) {
	codec, err := compress.GetCodec(comp)
	if err != nil {
		return nil, err
	}

	scratch := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(scratch)

	for _, ch := range channels {
		col := column(ch)
		scratch.Grow(len(col) * encoding.WordSize)
		scratch.B = encoding.AppendFloat64s(engine, scratch.B, col)
	}

	// The no-op codec returns scratch itself, so copy before scratch goes back.
	compressed, err := codec.Compress(scratch.Bytes())
	if err != nil {
		return nil, err
	}

	return append(buf, compressed...), nil
}
