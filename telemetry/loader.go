// Package telemetry loads the controller's CTE recording into time-indexed series.
package telemetry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/internal/options"
	"github.com/arloliu/tunetrace/series"
	"go.uber.org/zap"
)

// DefaultDiscardWindow is the warm-up period the CLI drops by default.
const DefaultDiscardWindow = 4800 * time.Millisecond

// Loader parses telemetry CSV records.
type Loader struct {
	discard bool
	window  time.Duration
	logger  *zap.Logger
}

// Option configures a Loader.
type Option = options.Option[*Loader]

// WithDiscardWindow enables the warm-up discard: records whose timestamp is within
// window of the first record's timestamp (inclusive) are dropped.
func WithDiscardWindow(window time.Duration) Option {
	return options.New(func(l *Loader) error {
		if window < 0 {
			return errs.ErrInvalidWindow
		}
		l.discard = true
		l.window = window

		return nil
	})
}

// WithoutDiscard keeps every record.
func WithoutDiscard() Option {
	return options.NoError(func(l *Loader) {
		l.discard = false
		l.window = 0
	})
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	})
}

// NewLoader creates a loader. The warm-up discard is disabled unless
// WithDiscardWindow is given.
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{logger: zap.NewNop()}
	if err := options.Apply(l, opts...); err != nil {
		return nil, err
	}

	return l, nil
}

// Load reads every record from r.
//
// A record that does not have exactly FieldCount fields, or whose fields do not
// parse, fails the whole load with an error wrapping errs.ErrMalformedRecord.
func (l *Loader) Load(r io.Reader) (*Recording, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	rec := NewRecording()
	windowMs := l.window.Milliseconds()

	var (
		t0      int64
		first   = true
		dropped int
	)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("line %d: %w: %v", parseErr.StartLine, errs.ErrMalformedRecord, parseErr.Err)
			}

			return nil, fmt.Errorf("read telemetry: %w", err)
		}
		line, _ := reader.FieldPos(0)

		sample, err := parseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if first {
			t0 = sample.Timestamp
			first = false
		}
		if l.discard && sample.Timestamp-t0 <= windowMs {
			dropped++
			continue
		}

		rec.append(sample)
	}

	l.logger.Debug("telemetry loaded",
		zap.Int("samples", rec.Len()),
		zap.Int("discarded", dropped),
		zap.Duration("discard_window", l.window),
	)

	return rec, nil
}

func parseRecord(fields []string) (Sample, error) {
	if len(fields) != FieldCount {
		return Sample{}, fmt.Errorf("%w: got %d fields, want %d", errs.ErrMalformedRecord, len(fields), FieldCount)
	}

	var s Sample
	ts, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: column %s: %v", errs.ErrMalformedRecord, Columns[0], err)
	}
	s.Timestamp = ts

	targets := []*float64{&s.CrossTrackError, &s.Speed, &s.SteeringAngle, &s.SteerCommand, &s.ThrottleCommand}
	for i, dst := range targets {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: column %s: %v", errs.ErrMalformedRecord, Columns[i+1], err)
		}
		*dst = v
	}

	return s, nil
}

// Recording holds the retained telemetry samples, one series per column.
type Recording struct {
	CTE             *series.Series[float64]
	Speed           *series.Series[float64]
	SteeringAngle   *series.Series[float64]
	SteerCommand    *series.Series[float64]
	ThrottleCommand *series.Series[float64]

	// clock keeps the raw integer timestamps for sample matching.
	clock []float64
}

// NewRecording creates an empty recording.
func NewRecording() *Recording {
	return &Recording{
		CTE:             series.New[float64](ChannelCTE),
		Speed:           series.New[float64](ChannelSpeed),
		SteeringAngle:   series.New[float64](ChannelSteeringAngle),
		SteerCommand:    series.New[float64](ChannelSteerCommand),
		ThrottleCommand: series.New[float64](ChannelThrottleCommand),
	}
}

func (r *Recording) append(s Sample) {
	ts := float64(s.Timestamp)
	r.CTE.Append(ts, s.CrossTrackError)
	r.Speed.Append(ts, s.Speed)
	r.SteeringAngle.Append(ts, s.SteeringAngle)
	r.SteerCommand.Append(ts, s.SteerCommand)
	r.ThrottleCommand.Append(ts, s.ThrottleCommand)
	r.clock = append(r.clock, ts)
}

// Len returns the number of retained samples.
func (r *Recording) Len() int {
	return len(r.clock)
}

// Timestamps returns the raw sample clock in milliseconds. It is never rebased.
func (r *Recording) Timestamps() []float64 {
	return r.clock
}

// Channels returns the per-column series in Columns order (timestamp excluded).
func (r *Recording) Channels() []*series.Series[float64] {
	return []*series.Series[float64]{r.CTE, r.Speed, r.SteeringAngle, r.SteerCommand, r.ThrottleCommand}
}

// TimestampColumns returns the backing timestamp column of every channel.
func (r *Recording) TimestampColumns() [][]float64 {
	chans := r.Channels()
	cols := make([][]float64, 0, len(chans))
	for _, c := range chans {
		cols = append(cols, c.Timestamps())
	}

	return cols
}
