package timebase

import (
	"fmt"
	"strings"

	"github.com/arloliu/tunetrace/errs"
)

// MillisPerMillisecond keeps the clock's own resolution.
const MillisPerMillisecond = 1.0

// ParseUnit maps a display unit name to its scale in clock milliseconds.
// Accepted names: "min", "minute", "minutes", "m", "s", "sec", "second", "seconds",
// "ms", "millisecond", "milliseconds".
func ParseUnit(name string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "m", "min", "minute", "minutes":
		return MillisPerMinute, nil
	case "s", "sec", "second", "seconds":
		return MillisPerSecond, nil
	case "ms", "millisecond", "milliseconds":
		return MillisPerMillisecond, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", errs.ErrInvalidUnit, name)
	}
}
