package section

import (
	"github.com/arloliu/tunetrace/endian"
	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/format"
)

// Flag is the packed first word of the header.
type Flag struct {
	// Options packs the endianness and collision bits with the magic number.
	Options uint16
	// Version is the archive layout version.
	Version uint8
	// CompressionType holds the timestamp codec in bits 0-3 and the value codec in bits 4-7.
	CompressionType uint8
}

var validCompressions = map[format.CompressionType]struct{}{
	format.CompressionNone: {},
	format.CompressionZstd: {},
	format.CompressionS2:   {},
	format.CompressionLZ4:  {},
}

// NewFlag creates a little-endian v1 flag with zstd-compressed payloads.
func NewFlag() Flag {
	flag := Flag{
		Options: MagicArchiveV1,
		Version: Version1,
	}
	flag.SetTimestampCompression(format.CompressionZstd)
	flag.SetValueCompression(format.CompressionZstd)

	return flag
}

// IsLittleEndian returns whether the archive body is little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// WithLittleEndian selects little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian selects big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// HasCollision reports whether two channel names share an ID. Lookups by ID are
// then ambiguous and readers must go by name.
func (f Flag) HasCollision() bool {
	return (f.Options & CollisionMask) != 0
}

// SetCollision records whether the archive contains colliding channel IDs.
func (f *Flag) SetCollision(collision bool) {
	if collision {
		f.Options |= CollisionMask
	} else {
		f.Options &^= CollisionMask
	}
}

// MagicNumber returns the magic number bits of Options.
func (f Flag) MagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// TimestampCompression returns the timestamp payload codec.
func (f Flag) TimestampCompression() format.CompressionType {
	return format.CompressionType(f.CompressionType & 0x0F)
}

// SetTimestampCompression sets the timestamp payload codec.
func (f *Flag) SetTimestampCompression(compression format.CompressionType) {
	f.CompressionType &^= 0x0F
	f.CompressionType |= uint8(compression) & 0x0F
}

// ValueCompression returns the value payload codec.
func (f Flag) ValueCompression() format.CompressionType {
	return format.CompressionType((f.CompressionType >> 4) & 0x0F)
}

// SetValueCompression sets the value payload codec.
func (f *Flag) SetValueCompression(compression format.CompressionType) {
	f.CompressionType &^= 0xF0
	f.CompressionType |= (uint8(compression) & 0x0F) << 4
}

// Validate checks the magic number, version, reserved bits and codecs.
func (f Flag) Validate() error {
	if f.MagicNumber() != MagicArchiveV1 {
		return errs.ErrInvalidMagicNumber
	}
	if f.Version != Version1 || f.Options&ReservedBitsMask != 0 {
		return errs.ErrInvalidHeaderFlags
	}
	if _, ok := validCompressions[f.TimestampCompression()]; !ok {
		return errs.ErrInvalidHeaderFlags
	}
	if _, ok := validCompressions[f.ValueCompression()]; !ok {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// GetEndianEngine returns the byte order selected by the flag.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
