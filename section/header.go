package section

import (
	"math"

	"github.com/arloliu/tunetrace/errs"
)

// Header is the fixed-size section at the start of an archive.
type Header struct {
	Flag Flag // byte offset 0-3

	// Origin is the common time origin of all channels, in clock milliseconds.
	Origin float64 // byte offset 4-11
	// Unit is the number of clock milliseconds per display unit.
	Unit float64 // byte offset 12-19
	// ChannelCount is the number of channels, and of index entries.
	ChannelCount uint16 // byte offset 20-21
	// Estimate is the number of telemetry samples per parameter update, 0 when undefined.
	Estimate uint16 // byte offset 22-23
	// TimestampPayloadOffset is the byte offset of the compressed timestamp payload,
	// right after the names payload.
	TimestampPayloadOffset uint32 // byte offset 24-27
	// ValuePayloadOffset is the byte offset of the compressed value payload, right
	// after the timestamp payload. The value payload runs to the end of the archive.
	ValuePayloadOffset uint32 // byte offset 28-31
}

// NewHeader creates a header with the default flag. Counts and offsets are set by
// the encoder.
func NewHeader(origin, unit float64) *Header {
	return &Header{
		Flag:   NewFlag(),
		Origin: origin,
		Unit:   unit,
	}
}

// Parse parses the header from exactly HeaderSize bytes and validates its flag.
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.Version = data[2]
	h.Flag.CompressionType = data[3]
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.Origin = math.Float64frombits(engine.Uint64(data[4:12]))
	h.Unit = math.Float64frombits(engine.Uint64(data[12:20]))
	h.ChannelCount = engine.Uint16(data[20:22])
	h.Estimate = engine.Uint16(data[22:24])
	h.TimestampPayloadOffset = engine.Uint32(data[24:28])
	h.ValuePayloadOffset = engine.Uint32(data[28:32])

	return nil
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.Version
	b[3] = h.Flag.CompressionType

	engine := h.Flag.GetEndianEngine()
	engine.PutUint64(b[4:12], math.Float64bits(h.Origin))
	engine.PutUint64(b[12:20], math.Float64bits(h.Unit))
	engine.PutUint16(b[20:22], h.ChannelCount)
	engine.PutUint16(b[22:24], h.Estimate)
	engine.PutUint32(b[24:28], h.TimestampPayloadOffset)
	engine.PutUint32(b[28:32], h.ValuePayloadOffset)

	return b
}

// NamesOffset returns the byte offset of the names payload.
func (h *Header) NamesOffset() int {
	return IndexOffset + int(h.ChannelCount)*IndexEntrySize
}

// ParseHeader parses a Header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
