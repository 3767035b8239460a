// Package stream accumulates classified log events into per-channel series.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"

	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/event"
	"github.com/arloliu/tunetrace/format"
	"github.com/arloliu/tunetrace/internal/options"
	"github.com/arloliu/tunetrace/series"
	"go.uber.org/zap"
)

// MaxLineLength is the longest log line Consume classifies. Longer lines are
// skipped and counted as ignored.
const MaxLineLength = 1 << 20

// Stats counts how the lines of a log were handled.
type Stats struct {
	Lines         int
	Untimestamped int
	Ignored       int
	Events        map[format.EventKind]int
}

// Builder consumes events from one log and owns the resulting Streams.
//
// The parameter-index cursor lives in the builder, so independent builders can
// process different logs concurrently. A single Builder is not safe for
// concurrent use.
type Builder struct {
	classifier *event.Classifier
	paramCount int
	logger     *zap.Logger

	streams *Streams
	stats   Stats
	cursor  int
}

// Option configures a Builder.
type Option = options.Option[*Builder]

// WithParamCount sets the expected parameter vector arity.
func WithParamCount(n int) Option {
	return options.New(func(b *Builder) error {
		if n <= 0 {
			return errs.ErrInvalidParamCount
		}
		b.paramCount = n

		return nil
	})
}

// WithLogger sets the logger used for progress and summary messages.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	})
}

// NewBuilder creates a builder with empty streams.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		paramCount: event.DefaultParamCount,
		logger:     zap.NewNop(),
		streams:    newStreams(),
		stats:      Stats{Events: make(map[format.EventKind]int)},
		cursor:     -1,
	}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	classifier, err := event.NewClassifier(event.WithParamCount(b.paramCount))
	if err != nil {
		return nil, err
	}
	b.classifier = classifier

	return b, nil
}

// Consume reads r line by line, classifying and applying every line.
//
// Errors are wrapped with the 1-based line number of the offending line.
func (b *Builder) Consume(r io.Reader) error {
	reader := bufio.NewReaderSize(r, 64*1024)

	lineNo := 0
	for {
		line, tooLong, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read log: %w", err)
		}

		lineNo++
		b.stats.Lines++
		if tooLong {
			b.stats.Ignored++
			b.logger.Debug("skipping oversize log line", zap.Int("line", lineNo))

			continue
		}
		if err := b.Apply(b.classifier.Classify(line)); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	b.logger.Debug("log consumed",
		zap.Int("lines", b.stats.Lines),
		zap.Int("untimestamped", b.stats.Untimestamped),
		zap.Int("ignored", b.stats.Ignored),
		zap.Int("parameters", b.streams.Parameters.Len()),
		zap.Int("accepted", b.streams.Accepted.Len()),
	)

	return nil
}

// Apply adds one event to the streams.
//
// Events without a timestamp cannot be aligned and are dropped, including index
// markers. A success marker seen before any parameter vector returns an error
// wrapping errs.ErrOutOfOrderEvent.
func (b *Builder) Apply(ev event.Event) error {
	if !ev.HasTimestamp {
		b.stats.Untimestamped++
		return nil
	}
	if !ev.Matched() {
		b.stats.Ignored++
		return nil
	}

	ts := float64(ev.Timestamp)
	switch ev.Kind { //nolint: exhaustive
	case format.EventSuccess:
		if err := b.accept(ts); err != nil {
			return err
		}
	case format.EventParameterDelta:
		b.streams.Deltas.Append(ts, series.Vector{Components: ev.Vector, ParamIndex: b.cursor})
	case format.EventParameterVector:
		b.streams.Parameters.Append(ts, series.Vector{Components: ev.Vector, ParamIndex: b.cursor})
	case format.EventScalar:
		target := b.streams.Scalar(ev.Scalar)
		if target == nil {
			b.stats.Ignored++
			return nil
		}
		target.Append(ts, ev.Value)
	case format.EventCycle:
		b.streams.Cycles.Append(ts, series.Marker{})
	case format.EventParamIndex:
		b.cursor = ev.ParamIndex
		b.streams.ParamIndex.Append(ts, ev.ParamIndex)
	default:
		b.stats.Ignored++
		return nil
	}
	b.stats.Events[ev.Kind]++

	return nil
}

func (b *Builder) accept(ts float64) error {
	_, last, ok := b.streams.Parameters.Last()
	if !ok {
		return fmt.Errorf("success at %d: %w", int64(ts), errs.ErrOutOfOrderEvent)
	}

	b.streams.Successes.Append(ts, series.Marker{})

	// A vector is accepted at most once; repeated success markers without a new
	// vector in between only add to the success channel.
	index := b.streams.Parameters.Len() - 1
	if _, prev, ok := b.streams.Accepted.Last(); ok && prev.Index == index {
		return nil
	}

	components := make([]float64, len(last.Components))
	copy(components, last.Components)
	b.streams.Accepted.Append(ts, series.Acceptance{
		Index:      index,
		Components: components,
	})

	return nil
}

// Cursor returns the index of the parameter currently being perturbed, or -1.
func (b *Builder) Cursor() int {
	return b.cursor
}

// Streams returns the accumulated channels.
func (b *Builder) Streams() *Streams {
	return b.streams
}

// Stats returns a snapshot of the line and event counters.
func (b *Builder) Stats() Stats {
	stats := b.stats
	stats.Events = maps.Clone(b.stats.Events)

	return stats
}

// readLine returns the next line without its terminator. A line longer than
// MaxLineLength is consumed to its end and reported as tooLong. io.EOF is
// returned only when no bytes remain.
func readLine(r *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong) {
				break
			}

			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > MaxLineLength {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}

	return string(buf), tooLong, nil
}
