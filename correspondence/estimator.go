// Package correspondence infers how many telemetry samples elapse between two
// consecutive parameter updates.
//
// Neither the tuning log nor the telemetry recording states this number. It is
// recovered by matching every update timestamp to its nearest telemetry sample and
// taking the most frequent step between consecutive matches.
//
// # Algorithm
//
//  1. Keep a cursor into the telemetry timestamps, starting at 0.
//  2. For each update timestamp in order, search only telemetry[cursor:] for the
//     sample with the smallest absolute time difference (first minimum wins),
//     advance the cursor to it and record its index.
//  3. Take successive differences of the recorded indices and drop zeros: those
//     are updates that did not advance the telemetry.
//  4. The estimate is the mode of the remaining differences, ties going to the
//     value encountered first.
//
// Empty inputs, or inputs without a nonzero difference, give an undefined
// estimate rather than an error.
package correspondence

import (
	"fmt"
	"math"
	"strconv"
)

// Estimate is the inferred number of telemetry samples per parameter update.
type Estimate struct {
	// Samples is the estimate; meaningful only when Defined is true.
	Samples int
	// Defined is false when there was not enough data to infer a value.
	Defined bool
}

// Undefined is the sentinel estimate.
var Undefined = Estimate{}

// String returns the sample count, or "undefined".
func (e Estimate) String() string {
	if !e.Defined {
		return "undefined"
	}

	return strconv.Itoa(e.Samples)
}

// Get returns the sample count and whether it is defined.
func (e Estimate) Get() (int, bool) {
	return e.Samples, e.Defined
}

// Result is the outcome of one estimation, with the intermediate data kept for
// diagnostics.
type Result struct {
	// Estimate is the modal difference, or Undefined.
	Estimate Estimate
	// Indices holds the matched telemetry index for every update timestamp.
	Indices []int
	// Differences holds the nonzero successive differences of Indices.
	Differences []int
	// Support is how many times the modal difference occurred.
	Support int
}

// String returns a short human-readable summary.
func (r Result) String() string {
	return fmt.Sprintf("Result{Estimate: %s, Updates: %d, Steps: %d, Support: %d}",
		r.Estimate, len(r.Indices), len(r.Differences), r.Support)
}

// Estimator infers the sampling correspondence between two clocks.
//
// Both inputs must be in chronological order. The estimator is stateless and a
// zero value is ready to use.
type Estimator struct{}

// Infer is a shorthand for Estimator{}.Estimate.
func Infer(updates, samples []float64) Result {
	return Estimator{}.Estimate(updates, samples)
}

// Estimate matches every update timestamp to a telemetry sample and returns the
// modal index step. It never fails; insufficient data yields Undefined.
func (Estimator) Estimate(updates, samples []float64) Result {
	if len(updates) == 0 || len(samples) == 0 {
		return Result{Estimate: Undefined}
	}

	indices := matchIndices(updates, samples)
	diffs := nonzeroDifferences(indices)
	mode, support := firstMode(diffs)
	if support == 0 {
		return Result{Estimate: Undefined, Indices: indices, Differences: diffs}
	}

	return Result{
		Estimate:    Estimate{Samples: mode, Defined: true},
		Indices:     indices,
		Differences: diffs,
		Support:     support,
	}
}

// matchIndices returns, for each update, the index of the nearest sample at or
// after the previous match.
func matchIndices(updates, samples []float64) []int {
	indices := make([]int, 0, len(updates))
	cursor := 0
	for _, u := range updates {
		cursor += nearest(samples[cursor:], u)
		indices = append(indices, cursor)
	}

	return indices
}

// nearest returns the offset in window of the value closest to target, preferring
// the earliest on ties. window must not be empty.
func nearest(window []float64, target float64) int {
	best := 0
	bestDist := math.Abs(window[0] - target)
	for i := 1; i < len(window); i++ {
		d := math.Abs(window[i] - target)
		if d < bestDist {
			best, bestDist = i, d
		}
		// window is sorted: once samples pass the target the distance only grows.
		if window[i] > target && d > bestDist {
			break
		}
	}

	return best
}

func nonzeroDifferences(indices []int) []int {
	var diffs []int
	for i := 1; i < len(indices); i++ {
		if d := indices[i] - indices[i-1]; d != 0 {
			diffs = append(diffs, d)
		}
	}

	return diffs
}

// firstMode returns the most frequent value and its count. Ties go to the value
// whose first occurrence comes earliest. An empty input returns a zero count.
func firstMode(values []int) (int, int) {
	counts := make(map[int]int, len(values))
	order := make([]int, 0, len(values))
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	mode, support := 0, 0
	for _, v := range order {
		if counts[v] > support {
			mode, support = v, counts[v]
		}
	}

	return mode, support
}
