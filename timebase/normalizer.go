// Package timebase rebases timestamp columns from different sources onto a shared
// origin and display unit.
//
// Rebasing rewrites columns in place: t' = (t - origin) / unit. Applying it twice
// corrupts the data, so Normalizer refuses a second call. Origin and Rebase are the
// unguarded building blocks and must be used at most once per column.
package timebase

import (
	"math"

	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/internal/options"
)

// Unit scales from source clock milliseconds.
const (
	MillisPerSecond = 1000.0
	MillisPerMinute = 60 * MillisPerSecond
)

// Origin returns the smallest timestamp across all non-empty columns.
// It fails with errs.ErrNoTimestampedData when every column is empty.
func Origin(columns ...[]float64) (float64, error) {
	origin := math.Inf(1)
	found := false
	for _, col := range columns {
		for _, t := range col {
			if t < origin {
				origin = t
			}
			found = true
		}
	}
	if !found {
		return 0, errs.ErrNoTimestampedData
	}

	return origin, nil
}

// Rebase rewrites every timestamp in columns as (t - origin) / unit.
//
// Columns must not alias each other, or the shared part is rebased twice.
func Rebase(origin, unit float64, columns ...[]float64) {
	for _, col := range columns {
		for i, t := range col {
			col[i] = (t - origin) / unit
		}
	}
}

// Normalizer performs a single origin-and-unit rebase over a set of columns.
type Normalizer struct {
	unit   float64
	origin float64
	done   bool
}

// Option configures a Normalizer.
type Option = options.Option[*Normalizer]

// WithUnit sets how many source clock units make one display unit.
func WithUnit(scale float64) Option {
	return options.New(func(n *Normalizer) error {
		if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
			return errs.ErrInvalidUnit
		}
		n.unit = scale

		return nil
	})
}

// NewNormalizer creates a normalizer converting milliseconds to minutes by default.
func NewNormalizer(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{unit: MillisPerMinute}
	if err := options.Apply(n, opts...); err != nil {
		return nil, err
	}

	return n, nil
}

// Normalize computes the common origin of columns and rebases all of them in place.
//
// It returns errs.ErrNoTimestampedData when every column is empty, and
// errs.ErrAlreadyNormalized when called a second time.
func (n *Normalizer) Normalize(columns ...[]float64) error {
	if n.done {
		return errs.ErrAlreadyNormalized
	}

	origin, err := Origin(columns...)
	if err != nil {
		return err
	}
	Rebase(origin, n.unit, columns...)
	n.origin = origin
	n.done = true

	return nil
}

// Origin returns the origin used by the last successful Normalize, in source units.
func (n *Normalizer) Origin() float64 {
	return n.origin
}

// Unit returns the configured unit scale.
func (n *Normalizer) Unit() float64 {
	return n.unit
}

// Done reports whether Normalize has already run.
func (n *Normalizer) Done() bool {
	return n.done
}
