package event

import (
	"strconv"
	"testing"

	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClassifier(t *testing.T, opts ...Option) *Classifier {
	t.Helper()
	c, err := NewClassifier(opts...)
	require.NoError(t, err)

	return c
}

func TestNewClassifier(t *testing.T) {
	c := newClassifier(t)
	require.Equal(t, DefaultParamCount, c.ParamCount())

	c = newClassifier(t, WithParamCount(6))
	require.Equal(t, 6, c.ParamCount())

	_, err := NewClassifier(WithParamCount(0))
	require.ErrorIs(t, err, errs.ErrInvalidParamCount)
}

func TestClassify_Triggers(t *testing.T) {
	c := newClassifier(t)

	tests := []struct {
		name   string
		line   string
		kind   format.EventKind
		scalar format.ScalarKind
		value  float64
		vector []float64
		index  int
	}{
		{name: "success", line: "10|Increase succeeded!", kind: format.EventSuccess},
		{name: "delta", line: "11|dp = [0.1, 0.2, 0.3, ]", kind: format.EventParameterDelta, vector: []float64{0.1, 0.2, 0.3}},
		{name: "vector", line: "12|p = [0.512, 1.204, -0.003]", kind: format.EventParameterVector, vector: []float64{0.512, 1.204, -0.003}},
		{name: "mae with prefix", line: "13|>Mean absolute error = 0.75", kind: format.EventScalar, scalar: format.ScalarMeanAbsoluteError, value: 0.75},
		{name: "mae lower case", line: "13|mean absolute error=1.5", kind: format.EventScalar, scalar: format.ScalarMeanAbsoluteError, value: 1.5},
		{name: "std", line: "14|>Stdd error = 2e-3", kind: format.EventScalar, scalar: format.ScalarStdError, value: 0.002},
		{name: "objective", line: "15|objective = 1.25", kind: format.EventScalar, scalar: format.ScalarObjective, value: 1.25},
		{name: "cycle", line: "16|Twiddle iteration 4", kind: format.EventCycle},
		{name: "param index", line: "17|---- i=2 ----", kind: format.EventParamIndex, index: 2},
		{name: "unrecognized", line: "18|Try an increase.", kind: format.EventNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := c.Classify(tt.line)
			require.True(t, ev.HasTimestamp)
			assert.Equal(t, tt.kind, ev.Kind)
			assert.Equal(t, tt.kind != format.EventNone, ev.Matched())
			assert.Equal(t, tt.scalar, ev.Scalar)
			assert.InDelta(t, tt.value, ev.Value, 1e-12)
			assert.Equal(t, tt.vector, ev.Vector)
			assert.Equal(t, tt.index, ev.ParamIndex)
		})
	}
}

func TestClassify_Priority(t *testing.T) {
	c := newClassifier(t)

	// "succeed" outranks the vector literal on the same line.
	ev := c.Classify("1|succeed p = [1, 2, 3]")
	assert.Equal(t, format.EventSuccess, ev.Kind)

	// A delta line also contains "p ="; the delta rule must win.
	ev = c.Classify("2|dp = [1, 2, 3]")
	assert.Equal(t, format.EventParameterDelta, ev.Kind)

	// A rejected delta does not fall through to the vector rule.
	ev = c.Classify("3|dp = [1, 2]")
	assert.Equal(t, format.EventNone, ev.Kind)
}

func TestClassify_Timestamp(t *testing.T) {
	c := newClassifier(t)

	ev := c.Classify("1546300800123 | objective = 3")
	require.True(t, ev.HasTimestamp)
	assert.Equal(t, int64(1546300800123), ev.Timestamp)
	assert.Equal(t, format.EventScalar, ev.Kind)

	ev = c.Classify("objective = 3")
	assert.False(t, ev.HasTimestamp)
	assert.Equal(t, format.EventScalar, ev.Kind)

	ev = c.Classify("abc|objective = 3")
	assert.False(t, ev.HasTimestamp)

	ev = c.Classify("5|objective = 3\r\n")
	assert.Equal(t, 3.0, ev.Value)
}

func TestClassify_ArityFilter(t *testing.T) {
	c := newClassifier(t)

	for _, line := range []string{
		"5|p = [1.0, 2.0]",
		"5|p = [1.0, 2.0, 3.0, 4.0]",
		"5|p = []",
		"5|p = [1.0, 2.0, oops]",
		"5|p = 1.0, 2.0, 3.0",
		"5|p = [__import__('os'), 1, 2]",
		"5|p = [1, 2, 3]; print(1)",
		"5|p = [inf, 1, 2]",
	} {
		t.Run(line, func(t *testing.T) {
			ev := c.Classify(line)
			assert.Equal(t, format.EventNone, ev.Kind)
			assert.Nil(t, ev.Vector)
		})
	}

	c6 := newClassifier(t, WithParamCount(6))
	ev := c6.Classify("5|p = [1, 2, 3, 4, 5, 6, ]")
	require.Equal(t, format.EventParameterVector, ev.Kind)
	assert.Len(t, ev.Vector, 6)
}

func TestClassify_LiteralRoundTrip(t *testing.T) {
	c := newClassifier(t)
	literals := [][3]string{
		{"0.25409", "0.000654", "1.95139"},
		{"-1e-4", "3", "4.0e2"},
		{"0.1", "0.001", "0.8"},
	}
	for _, lit := range literals {
		line := "7|p = [" + lit[0] + ", " + lit[1] + ", " + lit[2] + "]"
		ev := c.Classify(line)
		require.Equal(t, format.EventParameterVector, ev.Kind, line)
		for i, s := range lit {
			want, err := strconv.ParseFloat(s, 64)
			require.NoError(t, err)
			assert.Equal(t, want, ev.Vector[i])
		}
	}
}

func TestClassify_MalformedPayloads(t *testing.T) {
	c := newClassifier(t)

	assert.Equal(t, format.EventNone, c.Classify("1|objective = n/a").Kind)
	assert.Equal(t, format.EventNone, c.Classify("1|>Stdd error").Kind)
	assert.Equal(t, format.EventNone, c.Classify("1|i=x").Kind)
}

func BenchmarkClassify(b *testing.B) {
	c, err := NewClassifier()
	require.NoError(b, err)
	lines := []string{
		"1546300800123|p = [0.512, 1.204, -0.003, ]",
		"1546300800124|>Mean absolute error = 0.1234",
		"1546300800125|Try an increase.",
	}
	b.ResetTimer()
	for b.Loop() {
		for _, l := range lines {
			c.Classify(l)
		}
	}
}
