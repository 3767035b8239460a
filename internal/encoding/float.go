package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/tunetrace/endian"
	"github.com/arloliu/tunetrace/errs"
)

// WordSize is the encoded size of one float64.
const WordSize = 8

// AppendFloat64s appends every value as its IEEE 754 bits.
func AppendFloat64s(engine endian.EndianEngine, buf []byte, values []float64) []byte {
	buf = grow(buf, len(values)*WordSize)
	for _, v := range values {
		buf = engine.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}

// DecodeFloat64s decodes count words from the start of data.
func DecodeFloat64s(engine endian.EndianEngine, data []byte, count int) ([]float64, error) {
	if len(data) < count*WordSize {
		return nil, fmt.Errorf("%w: need %d words, have %d bytes", errs.ErrTruncatedPayload, count, len(data))
	}

	values := make([]float64, count)
	for i := range values {
		values[i] = math.Float64frombits(engine.Uint64(data[i*WordSize:]))
	}

	return values, nil
}

func grow(buf []byte, n int) []byte {
	if cap(buf)-len(buf) >= n {
		return buf
	}
	out := make([]byte, len(buf), len(buf)+n)
	copy(out, buf)

	return out
}
