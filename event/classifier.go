package event

import (
	"strconv"
	"strings"

	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/format"
	"github.com/arloliu/tunetrace/internal/options"
)

// DefaultParamCount is the default arity of parameter vectors.
const DefaultParamCount = 3

// rule is one entry of the ordered trigger table.
type rule struct {
	trigger string
	// fold matches the trigger against the lower-cased line.
	fold  bool
	parse func(c *Classifier, ev *Event, text string, at int) bool
}

// rules is evaluated in order; the first rule whose trigger occurs in the line wins.
// "dp =" must precede "p =" since every delta line also contains "p =".
var rules = []rule{
	{trigger: "succeed", parse: parseSuccess},
	{trigger: "dp =", parse: parseDelta},
	{trigger: "p =", parse: parseVector},
	{trigger: "mean absolute error", fold: true, parse: scalarParser(format.ScalarMeanAbsoluteError)},
	{trigger: "stdd error", fold: true, parse: scalarParser(format.ScalarStdError)},
	{trigger: "objective =", parse: scalarParser(format.ScalarObjective)},
	{trigger: "Twiddle iteration", parse: parseCycle},
	{trigger: "i=", parse: parseParamIndex},
}

var indexReplacer = strings.NewReplacer("-", "", "i=", "")

// Classifier turns log lines into events.
//
// A Classifier holds only configuration and is safe for concurrent use.
type Classifier struct {
	paramCount int
}

// Option configures a Classifier.
type Option = options.Option[*Classifier]

// WithParamCount sets the expected parameter vector arity.
func WithParamCount(n int) Option {
	return options.New(func(c *Classifier) error {
		if n <= 0 {
			return errs.ErrInvalidParamCount
		}
		c.paramCount = n

		return nil
	})
}

// NewClassifier creates a classifier. The default parameter count is DefaultParamCount.
func NewClassifier(opts ...Option) (*Classifier, error) {
	c := &Classifier{paramCount: DefaultParamCount}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	return c, nil
}

// ParamCount returns the configured parameter vector arity.
func (c *Classifier) ParamCount() int {
	return c.paramCount
}

// Classify parses one raw log line.
//
// The returned event always carries the prefix timestamp when one is present, even
// when the rest of the line is ignored.
func (c *Classifier) Classify(line string) Event {
	var ev Event
	text := strings.TrimRight(line, "\r\n")

	ev.Timestamp, ev.HasTimestamp, text = splitTimestamp(text)

	var lower string
	for _, r := range rules {
		haystack := text
		if r.fold {
			if lower == "" {
				lower = strings.ToLower(text)
			}
			haystack = lower
		}

		at := strings.Index(haystack, r.trigger)
		if at < 0 {
			continue
		}

		if !r.parse(c, &ev, text, at+len(r.trigger)) {
			ev.Kind = format.EventNone
		}

		return ev
	}

	return ev
}

// splitTimestamp separates an "<int>|" prefix from the line body. A line without a
// pipe, or whose prefix is not an integer, has no timestamp and is returned whole.
func splitTimestamp(line string) (int64, bool, string) {
	prefix, rest, found := strings.Cut(line, "|")
	if !found {
		return 0, false, line
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(prefix), 10, 64)
	if err != nil {
		return 0, false, line
	}

	return ts, true, strings.TrimSpace(rest)
}

func parseSuccess(_ *Classifier, ev *Event, _ string, _ int) bool {
	ev.Kind = format.EventSuccess
	return true
}

func parseCycle(_ *Classifier, ev *Event, _ string, _ int) bool {
	ev.Kind = format.EventCycle
	return true
}

func parseDelta(c *Classifier, ev *Event, text string, end int) bool {
	return c.parseVectorPayload(ev, format.EventParameterDelta, text[end:])
}

func parseVector(c *Classifier, ev *Event, text string, end int) bool {
	return c.parseVectorPayload(ev, format.EventParameterVector, text[end:])
}

func (c *Classifier) parseVectorPayload(ev *Event, kind format.EventKind, payload string) bool {
	vals, ok := parseLiteralList(payload)
	if !ok || len(vals) != c.paramCount {
		return false
	}
	ev.Kind = kind
	ev.Vector = vals

	return true
}

func scalarParser(kind format.ScalarKind) func(*Classifier, *Event, string, int) bool {
	return func(_ *Classifier, ev *Event, text string, _ int) bool {
		eq := strings.LastIndexByte(text, '=')
		if eq < 0 {
			return false
		}

		v, ok := parseNumber(text[eq+1:])
		if !ok {
			return false
		}
		ev.Kind = format.EventScalar
		ev.Scalar = kind
		ev.Value = v

		return true
	}
}

func parseParamIndex(_ *Classifier, ev *Event, text string, _ int) bool {
	idx, err := strconv.Atoi(strings.TrimSpace(indexReplacer.Replace(text)))
	if err != nil {
		return false
	}
	ev.Kind = format.EventParamIndex
	ev.ParamIndex = idx

	return true
}
