// Package endian provides the byte order engines used by the archive codec.
//
// EndianEngine merges binary.ByteOrder and binary.AppendByteOrder so a single
// value can both patch fixed-size fields in place and append to a growing
// buffer:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint64(buf, math.Float64bits(v))
//
// All engines are stateless and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"strings"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness returns the host's byte order.
func CheckEndianness() EndianEngine {
	// 0x0100 has its MSB first on big-endian hosts.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ParseEngine maps "little", "big" or "native" (case-insensitive) to an engine.
func ParseEngine(name string) (EndianEngine, bool) {
	switch strings.ToLower(name) {
	case "little", "le":
		return GetLittleEndianEngine(), true
	case "big", "be":
		return GetBigEndianEngine(), true
	case "native":
		return CheckEndianness(), true
	default:
		return nil, false
	}
}

// Name returns "little" or "big" for engine.
func Name(engine EndianEngine) string {
	if engine == GetBigEndianEngine() {
		return "big"
	}

	return "little"
}
