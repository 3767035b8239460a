// Package hash derives the channel IDs stored in the archive index.
package hash

import "github.com/cespare/xxhash/v2"

// ID returns the xxHash64 of a channel name.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// IDs returns the ID of every name, in order.
func IDs(names []string) []uint64 {
	ids := make([]uint64, len(names))
	for i, name := range names {
		ids[i] = ID(name)
	}

	return ids
}
