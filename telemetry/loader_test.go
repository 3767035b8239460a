package telemetry

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arloliu/tunetrace/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvRange(from, to, step int64) string {
	var sb strings.Builder
	for ts := from; ts <= to; ts += step {
		fmt.Fprintf(&sb, "%d, %.3f,40.1,-2.5,0.12,0.3\n", ts, float64(ts)/1000)
	}

	return sb.String()
}

func load(t *testing.T, data string, opts ...Option) *Recording {
	t.Helper()
	l, err := NewLoader(opts...)
	require.NoError(t, err)
	rec, err := l.Load(strings.NewReader(data))
	require.NoError(t, err)

	return rec
}

func TestLoader_ParsesColumns(t *testing.T) {
	rec := load(t, "1546300800000, 0.7602,0.4,0,0.08,0.3\n1546300800049,0.7598,0.9,1.25,-0.02,0.31\n")

	require.Equal(t, 2, rec.Len())
	assert.Equal(t, []float64{1546300800000, 1546300800049}, rec.Timestamps())
	assert.Equal(t, []float64{0.7602, 0.7598}, rec.CTE.Values())
	assert.Equal(t, []float64{0.4, 0.9}, rec.Speed.Values())
	assert.Equal(t, []float64{0, 1.25}, rec.SteeringAngle.Values())
	assert.Equal(t, []float64{0.08, -0.02}, rec.SteerCommand.Values())
	assert.Equal(t, []float64{0.3, 0.31}, rec.ThrottleCommand.Values())
	assert.Len(t, rec.Channels(), 5)
	assert.Equal(t, ChannelSpeed, rec.Speed.Name())
}

func TestLoader_NoDiscardByDefault(t *testing.T) {
	rec := load(t, csvRange(0, 1000, 100))
	assert.Equal(t, 11, rec.Len())
	assert.Equal(t, 0.0, rec.Timestamps()[0])
}

func TestLoader_DiscardBoundary(t *testing.T) {
	rec := load(t, csvRange(0, 10000, 100), WithDiscardWindow(500*time.Millisecond))

	require.NotZero(t, rec.Len())
	first := rec.Timestamps()[0]
	assert.GreaterOrEqual(t, first, 500.0)
	assert.Equal(t, 600.0, first)
	assert.Equal(t, 95, rec.Len())
	assert.Equal(t, 600.0, rec.CTE.Timestamps()[0])
}

func TestLoader_DiscardEverything(t *testing.T) {
	rec := load(t, csvRange(0, 1000, 100), WithDiscardWindow(DefaultDiscardWindow))
	assert.Zero(t, rec.Len())
	assert.True(t, rec.CTE.Empty())
}

func TestLoader_WithoutDiscardOverrides(t *testing.T) {
	rec := load(t, csvRange(0, 1000, 100), WithDiscardWindow(time.Second), WithoutDiscard())
	assert.Equal(t, 11, rec.Len())
}

func TestLoader_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		line string
	}{
		{"too few fields", "1,2,3,4,5,6\n2,2,3,4,5\n", "line 2"},
		{"too many fields", "1,2,3,4,5,6,7\n", "line 1"},
		{"bad timestamp", "1.5,2,3,4,5,6\n", "timestamp_ms"},
		{"bad float", "1,2,x,4,5,6\n", "speed"},
		{"bare quote", "1,2,3\"x,4,5,6\n", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLoader()
			require.NoError(t, err)
			_, err = l.Load(strings.NewReader(tt.data))
			require.ErrorIs(t, err, errs.ErrMalformedRecord)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestLoader_EmptyInput(t *testing.T) {
	rec := load(t, "")
	assert.Zero(t, rec.Len())
	assert.Len(t, rec.TimestampColumns(), 5)
}

func TestNewLoader_InvalidWindow(t *testing.T) {
	_, err := NewLoader(WithDiscardWindow(-time.Second))
	require.ErrorIs(t, err, errs.ErrInvalidWindow)
}
