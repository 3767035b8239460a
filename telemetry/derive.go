package telemetry

import (
	"math"

	"github.com/arloliu/tunetrace/series"
)

// AbsCTE returns |cte| for every sample of cte, as a new series.
func AbsCTE(cte *series.Series[float64]) *series.Series[float64] {
	return series.Map(cte, ChannelAbsCTE, math.Abs)
}

// WindowMeanCTE averages cte over consecutive, non-overlapping blocks of n samples,
// the same integration the tuner performs before every parameter update. Each mean
// is stamped with the timestamp of the block's last sample; a trailing partial
// block is dropped. n <= 0 yields an empty series.
func WindowMeanCTE(cte *series.Series[float64], n int) *series.Series[float64] {
	out := series.New[float64](ChannelWindowMeanCTE)
	if n <= 0 {
		return out
	}

	ts, vals := cte.Timestamps(), cte.Values()
	for end := n; end <= len(vals); end += n {
		var sum float64
		for _, v := range vals[end-n : end] {
			sum += v
		}
		out.Append(ts[end-1], sum/float64(n))
	}

	return out
}
