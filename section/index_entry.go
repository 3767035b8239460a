package section

import (
	"github.com/arloliu/tunetrace/endian"
	"github.com/arloliu/tunetrace/errs"
)

// IndexEntry describes one channel. Channels are stored in index order, so the
// payload offset of a channel is the sum of the counts before it times WordSize.
type IndexEntry struct {
	// ID is the xxHash64 of the channel name.
	//
	// Offset: 0, Size: 8 bytes
	ID uint64
	// Count is the number of points.
	//
	// Offset: 8, Size: 4 bytes
	Count uint32
}

// NewIndexEntry creates an index entry.
func NewIndexEntry(id uint64, count uint32) IndexEntry {
	return IndexEntry{ID: id, Count: count}
}

// PayloadLength returns the byte length of the channel in one decoded payload.
func (e IndexEntry) PayloadLength() int {
	return int(e.Count) * WordSize
}

// AppendTo appends the encoded entry to buf.
func (e IndexEntry) AppendTo(engine endian.EndianEngine, buf []byte) []byte {
	buf = engine.AppendUint64(buf, e.ID)
	buf = engine.AppendUint32(buf, e.Count)

	return buf
}

// ParseIndexEntry parses an entry from exactly IndexEntrySize bytes.
func ParseIndexEntry(data []byte, engine endian.EndianEngine) (IndexEntry, error) {
	if len(data) != IndexEntrySize {
		return IndexEntry{}, errs.ErrInvalidIndexEntry
	}

	return IndexEntry{
		ID:    engine.Uint64(data[0:8]),
		Count: engine.Uint32(data[8:12]),
	}, nil
}
