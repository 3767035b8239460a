package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.B = append(bb.B, 1, 2)

	bb.Grow(2)
	require.Equal(t, 4, cap(bb.B))

	bb.Grow(10)
	require.GreaterOrEqual(t, cap(bb.B)-bb.Len(), 10)
	require.Equal(t, []byte{1, 2}, bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.B = append(bb.B, 1, 2, 3)
	bb.Reset()

	require.Equal(t, 0, bb.Len())
	require.Equal(t, 8, cap(bb.B))
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), 16)

	bb.B = append(bb.B, 1, 2, 3)
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len())

	// Oversized buffers are dropped rather than pooled; Put must not panic.
	big := NewByteBuffer(128)
	p.Put(big)
	p.Put(nil)
}

func TestPayloadBuffer(t *testing.T) {
	bb := GetPayloadBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())
	bb.B = append(bb.B, 0xFF)
	PutPayloadBuffer(bb)
}
