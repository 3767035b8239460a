// Package report renders a short human or machine readable summary of an
// analysis bundle or a decoded archive.
package report

import (
	"math"
	"slices"

	"github.com/arloliu/tunetrace/archive"
	"github.com/arloliu/tunetrace/compress"
	"github.com/arloliu/tunetrace/pipeline"
)

// ChannelSummary describes one channel.
type ChannelSummary struct {
	Name   string  `yaml:"name"`
	Points int     `yaml:"points"`
	First  float64 `yaml:"first,omitempty"`
	Last   float64 `yaml:"last,omitempty"`
	Min    float64 `yaml:"min,omitempty"`
	Max    float64 `yaml:"max,omitempty"`
}

// PayloadSummary describes one compressed archive payload.
type PayloadSummary struct {
	Algorithm      string  `yaml:"algorithm"`
	OriginalSize   int64   `yaml:"original_bytes"`
	CompressedSize int64   `yaml:"compressed_bytes"`
	Savings        float64 `yaml:"savings_percent"`
}

// RunSummary holds the log-derived figures, only available for a live bundle.
type RunSummary struct {
	Lines             int       `yaml:"lines"`
	Untimestamped     int       `yaml:"untimestamped_lines"`
	Ignored           int       `yaml:"ignored_lines"`
	ParameterVectors  int       `yaml:"parameter_vectors"`
	AcceptedVectors   int       `yaml:"accepted_vectors"`
	Successes         int       `yaml:"successes"`
	Cycles            int       `yaml:"cycles"`
	TelemetrySamples  int       `yaml:"telemetry_samples"`
	EstimateSupport   int       `yaml:"estimate_support"`
	MinObjective      *float64  `yaml:"min_objective,omitempty"`
	LastAcceptedParam []float64 `yaml:"last_accepted_parameters,omitempty"`
}

// Summary is the complete report.
type Summary struct {
	OriginMs         float64          `yaml:"origin_ms"`
	UnitMs           float64          `yaml:"unit_ms"`
	SamplesPerUpdate string           `yaml:"samples_per_update"`
	Span             float64          `yaml:"span"`
	Run              *RunSummary      `yaml:"run,omitempty"`
	Timestamps       *PayloadSummary  `yaml:"timestamp_payload,omitempty"`
	Values           *PayloadSummary  `yaml:"value_payload,omitempty"`
	Channels         []ChannelSummary `yaml:"channels"`
}

// Summarize reports on an analysis bundle.
func Summarize(b *pipeline.Bundle) Summary {
	s := FromChannels(archive.MetaOf(b), b.Channels())

	run := &RunSummary{
		Lines:            b.LogStats.Lines,
		Untimestamped:    b.LogStats.Untimestamped,
		Ignored:          b.LogStats.Ignored,
		ParameterVectors: b.Log.Parameters.Len(),
		AcceptedVectors:  b.Log.Accepted.Len(),
		Successes:        b.Log.Successes.Len(),
		Cycles:           b.Log.Cycles.Len(),
		TelemetrySamples: b.Telemetry.Len(),
		EstimateSupport:  b.Correspondence.Support,
	}
	if v, ok := b.MinObjective(); ok {
		run.MinObjective = &v
	}
	if _, last, ok := b.Log.Accepted.Last(); ok {
		run.LastAcceptedParam = slices.Clone(last.Components)
	}
	s.Run = run

	return s
}

// SummarizeArchive reports on a decoded archive, including payload compression.
func SummarizeArchive(a *archive.Archive) Summary {
	s := FromChannels(a.Meta(), a.Channels())
	ts, vals := a.Stats()
	s.Timestamps = payloadSummary(ts)
	s.Values = payloadSummary(vals)

	return s
}

// FromChannels reports on a set of flat channels.
func FromChannels(meta archive.Meta, channels []pipeline.Channel) Summary {
	s := Summary{
		OriginMs:         meta.Origin,
		UnitMs:           meta.Unit,
		SamplesPerUpdate: meta.Estimate.String(),
		Channels:         make([]ChannelSummary, 0, len(channels)),
	}

	for _, ch := range channels {
		cs := ChannelSummary{Name: ch.Name, Points: ch.Len()}
		if ch.Len() > 0 {
			cs.First = ch.Timestamps[0]
			cs.Last = ch.Timestamps[ch.Len()-1]
			cs.Min, cs.Max = math.Inf(1), math.Inf(-1)
			for _, v := range ch.Values {
				cs.Min = math.Min(cs.Min, v)
				cs.Max = math.Max(cs.Max, v)
			}
			s.Span = math.Max(s.Span, cs.Last)
		}
		s.Channels = append(s.Channels, cs)
	}

	return s
}

func payloadSummary(st compress.Stats) *PayloadSummary {
	return &PayloadSummary{
		Algorithm:      st.Algorithm.String(),
		OriginalSize:   st.OriginalSize,
		CompressedSize: st.CompressedSize,
		Savings:        st.SpaceSavings(),
	}
}
