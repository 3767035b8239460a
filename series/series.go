// Package series provides the columnar, append-only channels produced by the log
// and telemetry parsers.
//
// A Series keeps timestamps and values in two parallel slices. Timestamps are
// stored as float64 so that they can be rebased in place from integer clock
// milliseconds into display units; integer milliseconds since the Unix epoch are
// exactly representable.
package series

import "iter"

// Series is an ordered, append-only sequence of timestamped values for one channel.
//
// Insertion order is chronological order within a single source. Series from
// different sources do not share a clock until they are normalized together.
type Series[T any] struct {
	name string
	ts   []float64
	vals []T
}

// New creates an empty series with the given channel name.
func New[T any](name string) *Series[T] {
	return &Series[T]{name: name}
}

// Name returns the channel name.
func (s *Series[T]) Name() string {
	return s.name
}

// Append adds one point at the end of the series.
func (s *Series[T]) Append(ts float64, v T) {
	s.ts = append(s.ts, ts)
	s.vals = append(s.vals, v)
}

// Len returns the number of points.
func (s *Series[T]) Len() int {
	return len(s.ts)
}

// Empty reports whether the series has no points.
func (s *Series[T]) Empty() bool {
	return len(s.ts) == 0
}

// Timestamps returns the backing timestamp column.
//
// The slice is shared with the series: the time normalizer rewrites it in place.
// Other callers must treat it as read-only.
func (s *Series[T]) Timestamps() []float64 {
	return s.ts
}

// Values returns the backing value column. Callers must treat it as read-only.
func (s *Series[T]) Values() []T {
	return s.vals
}

// At returns the i-th point.
func (s *Series[T]) At(i int) (float64, T) {
	return s.ts[i], s.vals[i]
}

// Last returns the most recently appended point.
func (s *Series[T]) Last() (float64, T, bool) {
	if len(s.ts) == 0 {
		var zero T
		return 0, zero, false
	}

	n := len(s.ts) - 1

	return s.ts[n], s.vals[n], true
}

// All returns an iterator over (timestamp, value) pairs in insertion order.
func (s *Series[T]) All() iter.Seq2[float64, T] {
	return func(yield func(float64, T) bool) {
		for i := range s.ts {
			if !yield(s.ts[i], s.vals[i]) {
				return
			}
		}
	}
}

// Map derives a new series by applying fn to every value.
//
// The timestamp column is copied, so the derived series never aliases the source.
func Map[T, U any](s *Series[T], name string, fn func(T) U) *Series[U] {
	out := &Series[U]{
		name: name,
		ts:   make([]float64, len(s.ts)),
		vals: make([]U, len(s.vals)),
	}
	copy(out.ts, s.ts)
	for i, v := range s.vals {
		out.vals[i] = fn(v)
	}

	return out
}

// Marker is the empty payload of bare timestamped events.
type Marker struct{}

// Vector is a fixed-arity parameter vector (or parameter delta) taken from the log.
type Vector struct {
	// Components holds the parsed literal values in log order.
	Components []float64
	// ParamIndex is the index of the parameter being perturbed when the vector was
	// logged, or -1 when no index marker had been seen yet.
	ParamIndex int
}

// Sum returns the sum of all components.
func (v Vector) Sum() float64 {
	var sum float64
	for _, c := range v.Components {
		sum += c
	}

	return sum
}

// Component returns the i-th component.
func (v Vector) Component(i int) float64 {
	return v.Components[i]
}

// Acceptance records a parameter vector that a later success marker accepted.
type Acceptance struct {
	// Index is the position of the accepted vector in the parameter vector series.
	Index int
	// Components is a copy of the accepted vector's values.
	Components []float64
}
