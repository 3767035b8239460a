package compress

// ZstdCompressor provides Zstandard compression, the best ratio of the built-in
// codecs. The backing implementation is chosen at build time.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstandard codec with the default level.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
