package encoding

import (
	"fmt"

	"github.com/arloliu/tunetrace/errs"
)

// MaxNameLength is the longest name a uint8 length prefix can describe.
const MaxNameLength = 255

// AppendNames appends every name as [len: uint8][bytes].
//
// The name count is not stored; it is the channel count of the header.
func AppendNames(buf []byte, names []string) ([]byte, error) {
	size := 0
	for _, name := range names {
		if name == "" || len(name) > MaxNameLength {
			return nil, fmt.Errorf("%w: %q", errs.ErrInvalidChannelName, name)
		}
		size += 1 + len(name)
	}

	buf = grow(buf, size)
	for _, name := range names {
		buf = append(buf, byte(len(name)))
		buf = append(buf, name...)
	}

	return buf, nil
}

// DecodeNames decodes count names from the start of data and returns them with
// the number of bytes consumed.
func DecodeNames(data []byte, count int) ([]string, int, error) {
	names := make([]string, count)
	offset := 0
	for i := range names {
		if offset >= len(data) {
			return nil, 0, fmt.Errorf("%w: name %d length at offset %d", errs.ErrTruncatedPayload, i, offset)
		}
		n := int(data[offset])
		offset++
		if n == 0 {
			return nil, 0, fmt.Errorf("%w: name %d is empty", errs.ErrInvalidChannelName, i)
		}
		if offset+n > len(data) {
			return nil, 0, fmt.Errorf("%w: name %d needs %d bytes at offset %d, have %d",
				errs.ErrTruncatedPayload, i, n, offset, len(data))
		}
		names[i] = string(data[offset : offset+n])
		offset += n
	}

	return names, offset, nil
}

// VerifyNames checks that hashFunc(names[i]) == ids[i] for every i.
func VerifyNames(names []string, ids []uint64, hashFunc func(string) uint64) error {
	if len(names) != len(ids) {
		return fmt.Errorf("%w: %d names for %d index entries", errs.ErrInvalidIndexEntry, len(names), len(ids))
	}

	for i, name := range names {
		if want := hashFunc(name); want != ids[i] {
			return fmt.Errorf("%w: channel %q at index %d: expected id 0x%016x, got 0x%016x",
				errs.ErrInvalidIndexEntry, name, i, want, ids[i])
		}
	}

	return nil
}
