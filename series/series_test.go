package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_AppendAndIterate(t *testing.T) {
	s := New[float64]("mae")
	require.True(t, s.Empty())

	_, _, ok := s.Last()
	require.False(t, ok)

	s.Append(10, 1.5)
	s.Append(20, 2.5)

	require.Equal(t, "mae", s.Name())
	require.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{10, 20}, s.Timestamps())
	assert.Equal(t, []float64{1.5, 2.5}, s.Values())

	ts, v, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 20.0, ts)
	assert.Equal(t, 2.5, v)

	var seen []float64
	for ts, v := range s.All() {
		seen = append(seen, ts, v)
	}
	assert.Equal(t, []float64{10, 1.5, 20, 2.5}, seen)
}

func TestSeries_AllStopsEarly(t *testing.T) {
	s := New[int]("idx")
	for i := range 5 {
		s.Append(float64(i), i)
	}

	count := 0
	for range s.All() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestMap_DoesNotAliasTimestamps(t *testing.T) {
	s := New[Vector]("p")
	s.Append(100, Vector{Components: []float64{1, 2, 3}, ParamIndex: -1})
	s.Append(200, Vector{Components: []float64{4, 5, 6}, ParamIndex: 1})

	sums := Map(s, "p.sum", Vector.Sum)
	require.Equal(t, "p.sum", sums.Name())
	assert.Equal(t, []float64{6, 15}, sums.Values())

	sums.Timestamps()[0] = -1
	assert.Equal(t, 100.0, s.Timestamps()[0])
}

func TestVector_Component(t *testing.T) {
	v := Vector{Components: []float64{0.5, -1.25}}
	assert.Equal(t, -1.25, v.Component(1))
	assert.Equal(t, -0.75, v.Sum())
}
