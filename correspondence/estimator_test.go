package correspondence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(from, to, step float64) []float64 {
	var out []float64
	for v := from; v <= to; v += step {
		out = append(out, v)
	}

	return out
}

func TestInfer_ModalStep(t *testing.T) {
	res := Infer([]float64{0, 50, 100}, ramp(0, 100, 10))

	assert.Equal(t, []int{0, 5, 10}, res.Indices)
	assert.Equal(t, []int{5, 5}, res.Differences)
	n, ok := res.Estimate.Get()
	require.True(t, ok)
	assert.Equal(t, 5, n)
	assert.Equal(t, 2, res.Support)
	assert.Equal(t, "5", res.Estimate.String())
}

func TestInfer_NoUpdates(t *testing.T) {
	res := Infer(nil, ramp(0, 100, 10))
	assert.False(t, res.Estimate.Defined)
	assert.Equal(t, "undefined", res.Estimate.String())
	assert.Empty(t, res.Indices)

	res = Infer([]float64{1, 2}, nil)
	assert.Equal(t, Undefined, res.Estimate)
}

func TestInfer_NoNonzeroDifference(t *testing.T) {
	// Every update lands on the last sample.
	res := Infer([]float64{500, 600, 700}, ramp(0, 100, 10))
	assert.Equal(t, []int{10, 10, 10}, res.Indices)
	assert.Empty(t, res.Differences)
	assert.False(t, res.Estimate.Defined)

	res = Infer([]float64{42}, ramp(0, 100, 10))
	assert.Equal(t, []int{4}, res.Indices)
	assert.False(t, res.Estimate.Defined)
}

func TestInfer_DropsZeroDifferences(t *testing.T) {
	// Duplicate update timestamps match the same sample.
	res := Infer([]float64{0, 30, 30, 60, 90, 100}, ramp(0, 100, 10))
	assert.Equal(t, []int{0, 3, 3, 6, 9, 10}, res.Indices)
	assert.Equal(t, []int{3, 3, 3, 1}, res.Differences)
	assert.Equal(t, Estimate{Samples: 3, Defined: true}, res.Estimate)
	assert.Equal(t, 3, res.Support)
}

func TestInfer_MonotonicSuffix(t *testing.T) {
	// The second update is earlier than the first match; the search never goes back.
	res := Infer([]float64{50, 0, 100}, ramp(0, 100, 10))
	assert.Equal(t, []int{5, 5, 10}, res.Indices)
	assert.Equal(t, []int{5}, res.Differences)
}

func TestInfer_TieBreaks(t *testing.T) {
	// 15 is equidistant from 10 and 20: the earlier sample wins.
	res := Infer([]float64{0, 15}, []float64{0, 10, 20})
	assert.Equal(t, []int{0, 1}, res.Indices)

	// Differences 2,3,3,2: both occur twice and 2 comes first.
	samples := ramp(0, 100, 1)
	res = Infer([]float64{0, 2, 5, 8, 10}, samples)
	assert.Equal(t, []int{2, 3, 3, 2}, res.Differences)
	assert.Equal(t, 2, res.Estimate.Samples)
}

func TestInfer_Deterministic(t *testing.T) {
	updates := []float64{3, 48, 97, 151, 198, 260, 301}
	samples := ramp(0, 320, 7)
	first := Infer(updates, samples)
	for range 10 {
		assert.Equal(t, first, Infer(updates, samples))
	}
	assert.Contains(t, first.String(), "Updates: 7")
}

func TestFirstMode(t *testing.T) {
	mode, support := firstMode(nil)
	assert.Zero(t, mode)
	assert.Zero(t, support)

	mode, support = firstMode([]int{4, 1, 1, 4, 7})
	assert.Equal(t, 4, mode)
	assert.Equal(t, 2, support)
}

func BenchmarkInfer(b *testing.B) {
	updates := ramp(0, 1_000_000, 1600*49)
	samples := ramp(0, 1_000_000, 49)
	b.ResetTimer()
	for b.Loop() {
		Infer(updates, samples)
	}
}
