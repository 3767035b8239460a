package stream

import (
	"github.com/arloliu/tunetrace/format"
	"github.com/arloliu/tunetrace/series"
)

// Channel names of the log-derived series.
const (
	ChannelParameters = "log.p"
	ChannelDeltas     = "log.dp"
	ChannelMAE        = "log.mae"
	ChannelSTD        = "log.std"
	ChannelObjective  = "log.objective"
	ChannelCycles     = "log.cycle"
	ChannelSuccesses  = "log.success"
	ChannelParamIndex = "log.param_index"
	ChannelAccepted   = "log.accepted"
)

// Streams holds every channel recovered from one tuning log.
type Streams struct {
	Parameters *series.Series[series.Vector]
	Deltas     *series.Series[series.Vector]
	MAE        *series.Series[float64]
	STD        *series.Series[float64]
	Objective  *series.Series[float64]
	Cycles     *series.Series[series.Marker]
	Successes  *series.Series[series.Marker]
	// ParamIndex records when the perturbed-parameter cursor moved and to which index.
	ParamIndex *series.Series[int]
	// Accepted receives the latest parameter vector at every success marker,
	// stamped with the success marker's timestamp.
	Accepted *series.Series[series.Acceptance]
}

func newStreams() *Streams {
	return &Streams{
		Parameters: series.New[series.Vector](ChannelParameters),
		Deltas:     series.New[series.Vector](ChannelDeltas),
		MAE:        series.New[float64](ChannelMAE),
		STD:        series.New[float64](ChannelSTD),
		Objective:  series.New[float64](ChannelObjective),
		Cycles:     series.New[series.Marker](ChannelCycles),
		Successes:  series.New[series.Marker](ChannelSuccesses),
		ParamIndex: series.New[int](ChannelParamIndex),
		Accepted:   series.New[series.Acceptance](ChannelAccepted),
	}
}

// Scalar returns the series holding the given scalar metric, or nil for an unknown kind.
func (s *Streams) Scalar(kind format.ScalarKind) *series.Series[float64] {
	switch kind {
	case format.ScalarMeanAbsoluteError:
		return s.MAE
	case format.ScalarStdError:
		return s.STD
	case format.ScalarObjective:
		return s.Objective
	default:
		return nil
	}
}

// TimestampColumns returns the backing timestamp column of every channel.
// Each column appears exactly once, so rebasing all of them is safe.
func (s *Streams) TimestampColumns() [][]float64 {
	return [][]float64{
		s.Parameters.Timestamps(),
		s.Deltas.Timestamps(),
		s.MAE.Timestamps(),
		s.STD.Timestamps(),
		s.Objective.Timestamps(),
		s.Cycles.Timestamps(),
		s.Successes.Timestamps(),
		s.ParamIndex.Timestamps(),
		s.Accepted.Timestamps(),
	}
}
