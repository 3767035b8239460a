// Package event classifies raw twiddle log lines into typed events.
//
// A log line optionally starts with "<integer-timestamp>|". The remainder is
// matched against an ordered list of substring triggers; the first trigger found
// decides the event kind:
//
//  1. "succeed"              -> format.EventSuccess
//  2. "dp ="                 -> format.EventParameterDelta
//  3. "p ="                  -> format.EventParameterVector
//  4. "mean absolute error"  -> format.EventScalar (MeanAbsoluteError), case-insensitive
//  5. "stdd error"           -> format.EventScalar (StdError), case-insensitive
//  6. "objective ="          -> format.EventScalar (Objective)
//  7. "Twiddle iteration"    -> format.EventCycle
//  8. "i="                   -> format.EventParamIndex
//
// Lines that match no trigger, or whose payload does not parse, classify as
// format.EventNone. Vector payloads whose arity differs from the configured
// parameter count are dropped the same way.
package event

import "github.com/arloliu/tunetrace/format"

// Event is the result of classifying one log line.
type Event struct {
	// Kind is the event type; format.EventNone when the line is ignored.
	Kind format.EventKind
	// Timestamp is the clock value from the line prefix in milliseconds.
	// It is meaningful only when HasTimestamp is true.
	Timestamp int64
	// HasTimestamp reports whether the line carried a parseable "<int>|" prefix.
	HasTimestamp bool
	// Scalar identifies the metric for format.EventScalar events.
	Scalar format.ScalarKind
	// Value is the metric value for format.EventScalar events.
	Value float64
	// Vector holds the components for parameter vector and delta events.
	Vector []float64
	// ParamIndex is the new cursor value for format.EventParamIndex events.
	ParamIndex int
}

// Matched reports whether the line produced an event.
func (e Event) Matched() bool {
	return e.Kind != format.EventNone
}
