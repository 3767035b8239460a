package section

import "math"

const (
	ReservedBitsMask = 0x0009 // Mask for reserved bits 0 and 3
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	CollisionMask    = 0x0004 // Mask for hash collision bit (bit 2)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	MagicArchiveV1 = 0x7A10 // MagicArchiveV1 identifies version 1 of the archive format.

	Version1 = 1
)

const (
	HeaderSize       = 32         // fixed header size in bytes
	IndexEntrySize   = 12         // fixed index entry size in bytes
	IndexOffset      = HeaderSize // byte offset where the index section starts
	WordSize         = 8          // encoded size of one timestamp or value
	MaxChannelCount  = math.MaxUint16
	MaxEstimate      = math.MaxUint16
	MaxPayloadOffset = math.MaxUint32
)
