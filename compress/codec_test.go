package compress

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// floatPayload packs a slowly drifting float64 column, like a normalized timestamp column.
func floatPayload(n int) []byte {
	buf := make([]byte, 0, n*8)
	for i := range n {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(float64(i)*0.049))
	}

	return buf
}

func randomPayload(n int) []byte {
	r := rand.New(rand.NewPCG(1, 2))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(r.IntN(256))
	}

	return buf
}

func allCodecs() map[format.CompressionType]Codec {
	return map[format.CompressionType]Codec{
		format.CompressionNone: NewNoOpCompressor(),
		format.CompressionZstd: NewZstdCompressor(),
		format.CompressionS2:   NewS2Compressor(),
		format.CompressionLZ4:  NewLZ4Compressor(),
	}
}

func TestGetCodec(t *testing.T) {
	for ct := range allCodecs() {
		codec, err := GetCodec(ct)
		require.NoError(t, err, ct.String())
		assert.NotNil(t, codec)
	}

	_, err := GetCodec(format.CompressionType(0x9))
	require.Error(t, err)
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":        nil,
		"one_word":     floatPayload(1),
		"float_column": floatPayload(4096),
		"random":       randomPayload(3000),
	}

	for ct, codec := range allCodecs() {
		for name, data := range payloads {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				out, err := codec.Decompress(compressed, len(data))
				require.NoError(t, err)
				assert.Len(t, out, len(data))
				if len(data) > 0 {
					assert.Equal(t, data, out)
				}
			})
		}
	}
}

func TestAllCodecs_CompressFloatColumn(t *testing.T) {
	data := floatPayload(8192)
	for ct, codec := range allCodecs() {
		if ct == format.CompressionNone {
			continue
		}
		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(data), ct.String())
	}
}

func TestAllCodecs_SizeMismatch(t *testing.T) {
	data := floatPayload(64)
	for ct, codec := range allCodecs() {
		t.Run(ct.String(), func(t *testing.T) {
			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			_, err = codec.Decompress(compressed, len(data)+8)
			require.Error(t, err)
		})
	}

	_, err := NewNoOpCompressor().Decompress(data, len(data)-8)
	require.ErrorIs(t, err, errs.ErrTruncatedPayload)
}

func TestAllCodecs_EmptyPayloadWithNonZeroSize(t *testing.T) {
	for ct, codec := range allCodecs() {
		_, err := codec.Decompress(nil, 16)
		require.ErrorIs(t, err, errs.ErrTruncatedPayload, ct.String())
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8}
	for ct, codec := range allCodecs() {
		if ct == format.CompressionNone {
			continue
		}
		_, err := codec.Decompress(garbage, 64)
		assert.Error(t, err, ct.String())
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	data := floatPayload(1024)
	for ct, codec := range allCodecs() {
		t.Run(ct.String(), func(t *testing.T) {
			var wg sync.WaitGroup
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range 20 {
						compressed, err := codec.Compress(data)
						if !assert.NoError(t, err) {
							return
						}
						out, err := codec.Decompress(compressed, len(data))
						if !assert.NoError(t, err) {
							return
						}
						assert.Equal(t, data, out)
					}
				}()
			}
			wg.Wait()
		})
	}
}

func TestStats(t *testing.T) {
	s := Stats{Algorithm: format.CompressionZstd, OriginalSize: 1000, CompressedSize: 250}
	assert.InDelta(t, 0.25, s.Ratio(), 1e-12)
	assert.InDelta(t, 75.0, s.SpaceSavings(), 1e-12)

	empty := Stats{}
	assert.Equal(t, 0.0, empty.Ratio())
	assert.Equal(t, 0.0, empty.SpaceSavings())
}

func BenchmarkAllCodecs_RoundTrip(b *testing.B) {
	data := floatPayload(16384)
	for ct, codec := range allCodecs() {
		b.Run(ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				compressed, _ := codec.Compress(data)
				_, _ = codec.Decompress(compressed, len(data))
			}
		})
	}
}
