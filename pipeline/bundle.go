package pipeline

import (
	"fmt"
	"slices"

	"github.com/arloliu/tunetrace/correspondence"
	"github.com/arloliu/tunetrace/series"
	"github.com/arloliu/tunetrace/stream"
	"github.com/arloliu/tunetrace/telemetry"
)

// Derived channel names.
const (
	ChannelDeltaSum   = "log.dp.sum"
	channelProjection = "log.p.%d"
	channelAccepted   = "log.accepted.%d"
)

// Channel is a flat, named float series: the form consumed by chart renderers and
// by the archive encoder.
type Channel struct {
	Name       string
	Timestamps []float64
	Values     []float64
}

// Len returns the number of points.
func (c Channel) Len() int {
	return len(c.Timestamps)
}

// Bundle is the normalized output of one analysis run.
//
// All timestamps are expressed as (clock - Origin) / Unit.
type Bundle struct {
	// Origin is the common time origin in clock milliseconds.
	Origin float64
	// Unit is the number of clock milliseconds per display unit.
	Unit float64
	// ParamCount is the parameter vector arity used while parsing.
	ParamCount int

	Log       *stream.Streams
	Telemetry *telemetry.Recording
	// Correspondence holds the samples-per-update estimate and its diagnostics.
	Correspondence correspondence.Result
	// LogStats counts how the log lines were handled.
	LogStats stream.Stats

	// DeltaSum is the sum of every parameter delta's components.
	DeltaSum *series.Series[float64]
	// Projections holds one series per parameter vector component.
	Projections []*series.Series[float64]
	// AcceptedProjections holds one series per accepted vector component.
	AcceptedProjections []*series.Series[float64]
	AbsCTE              *series.Series[float64]
	// WindowMeanCTE is empty when the estimate is undefined.
	WindowMeanCTE *series.Series[float64]
}

// Estimate returns the telemetry samples per parameter update.
func (b *Bundle) Estimate() correspondence.Estimate {
	return b.Correspondence.Estimate
}

// MinObjective returns the smallest logged objective value.
func (b *Bundle) MinObjective() (float64, bool) {
	vals := b.Log.Objective.Values()
	if len(vals) == 0 {
		return 0, false
	}

	return slices.Min(vals), true
}

// Channels flattens the bundle into named float channels in a stable order.
// Marker channels carry the value 1 at every mark.
func (b *Bundle) Channels() []Channel {
	var out []Channel
	add := func(s *series.Series[float64]) {
		out = append(out, Channel{Name: s.Name(), Timestamps: s.Timestamps(), Values: s.Values()})
	}

	add(b.Log.MAE)
	add(b.Log.STD)
	add(b.Log.Objective)
	add(b.DeltaSum)
	for _, s := range b.Projections {
		add(s)
	}
	for _, s := range b.AcceptedProjections {
		add(s)
	}
	add(series.Map(b.Log.Cycles, b.Log.Cycles.Name(), markerValue))
	add(series.Map(b.Log.Successes, b.Log.Successes.Name(), markerValue))
	add(series.Map(b.Log.ParamIndex, b.Log.ParamIndex.Name(), func(i int) float64 { return float64(i) }))
	for _, s := range b.Telemetry.Channels() {
		add(s)
	}
	add(b.AbsCTE)
	add(b.WindowMeanCTE)

	return out
}

func markerValue(series.Marker) float64 {
	return 1
}

// derive fills the derived channels from the already normalized streams.
func (b *Bundle) derive() {
	b.DeltaSum = series.Map(b.Log.Deltas, ChannelDeltaSum, series.Vector.Sum)

	b.Projections = make([]*series.Series[float64], b.ParamCount)
	b.AcceptedProjections = make([]*series.Series[float64], b.ParamCount)
	for i := range b.ParamCount {
		b.Projections[i] = series.Map(b.Log.Parameters, fmt.Sprintf(channelProjection, i),
			func(v series.Vector) float64 { return v.Component(i) })
		b.AcceptedProjections[i] = series.Map(b.Log.Accepted, fmt.Sprintf(channelAccepted, i),
			func(a series.Acceptance) float64 { return a.Components[i] })
	}

	b.AbsCTE = telemetry.AbsCTE(b.Telemetry.CTE)
	n, _ := b.Estimate().Get()
	b.WindowMeanCTE = telemetry.WindowMeanCTE(b.Telemetry.CTE, n)
}
