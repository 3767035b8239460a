package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/stream"
	"github.com/arloliu/tunetrace/telemetry"
	"github.com/arloliu/tunetrace/timebase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runLog = `Connected!!!
1000|Twiddle iteration 0
1000|---- i=0 ----
1000|p = [1, 2, 3, ]
1000|dp = [0.1, 0.2, 0.3, ]
1500|>Mean absolute error = 0.7
1501|>Stdd error = 0.2
1502|objective = 0.9
1600|Increase succeeded!
2000|p = [2, 2, 3, ]
2000|dp = [0.11, 0.2, 0.3, ]
2100|objective = 0.4
3000|p = [2, 3, 3, ]
3100|objective = 0.6
`

// telemetryRange emits one sample every 100ms from `from` through `to`.
func telemetryRange(from, to int64) string {
	var sb strings.Builder
	for ts := from; ts <= to; ts += 100 {
		fmt.Fprintf(&sb, "%d,-0.5,30,1.5,0.1,0.3\n", ts)
	}

	return sb.String()
}

func runPipeline(t *testing.T, log, tel string, opts ...Option) *Bundle {
	t.Helper()
	p, err := New(opts...)
	require.NoError(t, err)

	var telReader io.Reader
	if tel != "" {
		telReader = strings.NewReader(tel)
	}
	bundle, err := p.Run(strings.NewReader(log), telReader)
	require.NoError(t, err)

	return bundle
}

func TestNew_Defaults(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	cfg := p.Config()
	assert.Equal(t, 3, cfg.ParamCount)
	assert.False(t, cfg.Discard)
	assert.Equal(t, timebase.MillisPerMinute, cfg.Unit)
	assert.NotNil(t, cfg.Logger)
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithParamCount(0))
	require.ErrorIs(t, err, errs.ErrInvalidParamCount)

	_, err = New(WithUnit(-1))
	require.ErrorIs(t, err, errs.ErrInvalidUnit)

	_, err = New(WithDiscardWindow(-time.Second))
	require.ErrorIs(t, err, errs.ErrInvalidWindow)
}

func TestPipeline_Run(t *testing.T) {
	b := runPipeline(t, runLog, telemetryRange(1000, 3500), WithUnit(timebase.MillisPerSecond))

	assert.Equal(t, 1000.0, b.Origin)
	assert.Equal(t, timebase.MillisPerSecond, b.Unit)

	n, ok := b.Estimate().Get()
	require.True(t, ok)
	assert.Equal(t, 10, n)
	assert.Equal(t, []int{0, 10, 20}, b.Correspondence.Indices)

	assert.InDeltaSlice(t, []float64{0, 1, 2}, b.Log.Parameters.Timestamps(), 1e-9)
	assert.InDeltaSlice(t, []float64{0.6}, b.Log.Successes.Timestamps(), 1e-9)
	assert.InDelta(t, 0.0, b.Telemetry.CTE.Timestamps()[0], 1e-9)
	assert.InDelta(t, 2.5, b.Telemetry.CTE.Timestamps()[25], 1e-9)

	// Raw clocks stay untouched for later matching.
	assert.Equal(t, 1000.0, b.Telemetry.Timestamps()[0])

	lowest, ok := b.MinObjective()
	require.True(t, ok)
	assert.Equal(t, 0.4, lowest)
}

func TestBundle_MinObjectiveEmpty(t *testing.T) {
	b := runPipeline(t, "1|p = [1, 2, 3]\n", "")

	_, ok := b.MinObjective()
	assert.False(t, ok)
}

func TestPipeline_DerivedChannels(t *testing.T) {
	b := runPipeline(t, runLog, telemetryRange(1000, 3500), WithUnit(timebase.MillisPerSecond))

	assert.InDeltaSlice(t, []float64{0.6, 0.61}, b.DeltaSum.Values(), 1e-9)
	require.Len(t, b.Projections, 3)
	assert.Equal(t, []float64{1, 2, 2}, b.Projections[0].Values())
	assert.Equal(t, []float64{2, 2, 3}, b.Projections[1].Values())
	assert.Equal(t, "log.p.2", b.Projections[2].Name())

	require.Len(t, b.AcceptedProjections, 3)
	assert.Equal(t, []float64{1}, b.AcceptedProjections[0].Values())
	assert.InDeltaSlice(t, []float64{0.6}, b.AcceptedProjections[0].Timestamps(), 1e-9)

	assert.Equal(t, 26, b.AbsCTE.Len())
	assert.Equal(t, 0.5, b.AbsCTE.Values()[0])

	require.Equal(t, 2, b.WindowMeanCTE.Len())
	assert.InDeltaSlice(t, []float64{0.9, 1.9}, b.WindowMeanCTE.Timestamps(), 1e-9)
	assert.Equal(t, []float64{-0.5, -0.5}, b.WindowMeanCTE.Values())
}

func TestPipeline_ChannelsOrderAndNoAliasing(t *testing.T) {
	b := runPipeline(t, runLog, telemetryRange(1000, 3500), WithUnit(timebase.MillisPerSecond))

	chans := b.Channels()
	require.Len(t, chans, 20)

	names := make([]string, len(chans))
	for i, c := range chans {
		names[i] = c.Name
		assert.Len(t, c.Values, c.Len(), c.Name)
	}
	assert.Equal(t, []string{
		stream.ChannelMAE, stream.ChannelSTD, stream.ChannelObjective, ChannelDeltaSum,
		"log.p.0", "log.p.1", "log.p.2",
		"log.accepted.0", "log.accepted.1", "log.accepted.2",
		stream.ChannelCycles, stream.ChannelSuccesses, stream.ChannelParamIndex,
		telemetry.ChannelCTE, telemetry.ChannelSpeed, telemetry.ChannelSteeringAngle,
		telemetry.ChannelSteerCommand, telemetry.ChannelThrottleCommand,
		telemetry.ChannelAbsCTE, telemetry.ChannelWindowMeanCTE,
	}, names)

	// Derived channels own their timestamps; each point was rebased exactly once.
	for _, c := range chans {
		for _, ts := range c.Timestamps {
			assert.GreaterOrEqual(t, ts, 0.0, c.Name)
			assert.LessOrEqual(t, ts, 2.5, c.Name)
		}
	}
}

func TestPipeline_WithoutTelemetry(t *testing.T) {
	b := runPipeline(t, runLog, "")

	_, ok := b.Estimate().Get()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Telemetry.Len())
	assert.True(t, b.WindowMeanCTE.Empty())
	assert.Equal(t, 1000.0, b.Origin)
	assert.InDeltaSlice(t, []float64{0, 1.0 / 60, 2.0 / 60}, b.Log.Parameters.Timestamps(), 1e-9)
}

func TestPipeline_DiscardWindow(t *testing.T) {
	b := runPipeline(t, runLog, telemetryRange(1000, 3500),
		WithUnit(timebase.MillisPerSecond),
		WithDiscardWindow(500*time.Millisecond),
	)

	assert.Equal(t, 20, b.Telemetry.Len())
	assert.Equal(t, 1600.0, b.Telemetry.Timestamps()[0])
	// The log still starts at 1000, so the origin is unchanged.
	assert.Equal(t, 1000.0, b.Origin)
}

func TestPipeline_Errors(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.Run(strings.NewReader("5|Increase succeeded!\n"), nil)
	require.ErrorIs(t, err, errs.ErrOutOfOrderEvent)
	assert.Contains(t, err.Error(), "log: line 1")

	_, err = p.Run(strings.NewReader(runLog), strings.NewReader("1000,0.1,2\n"))
	require.ErrorIs(t, err, errs.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "telemetry")

	_, err = p.Run(strings.NewReader("no timestamps here\n"), nil)
	require.ErrorIs(t, err, errs.ErrNoTimestampedData)
}

func TestPipeline_RunFiles(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "twiddle.log")
	telPath := filepath.Join(dir, "cte.csv")
	require.NoError(t, os.WriteFile(logPath, []byte(runLog), 0o600))
	require.NoError(t, os.WriteFile(telPath, []byte(telemetryRange(1000, 3500)), 0o600))

	p, err := New()
	require.NoError(t, err)

	b, err := p.RunFiles(logPath, telPath)
	require.NoError(t, err)
	n, ok := b.Estimate().Get()
	require.True(t, ok)
	assert.Equal(t, 10, n)

	b, err = p.RunFiles(logPath, filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)
	assert.Equal(t, 0, b.Telemetry.Len())

	_, err = p.RunFiles(filepath.Join(dir, "missing.log"), telPath)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "open log")
}
