package pipeline

import (
	"time"

	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/event"
	"github.com/arloliu/tunetrace/internal/options"
	"github.com/arloliu/tunetrace/timebase"
	"go.uber.org/zap"
)

// Config holds the settings of one analysis run.
type Config struct {
	ParamCount    int
	Discard       bool
	DiscardWindow time.Duration
	Unit          float64
	Logger        *zap.Logger
}

func defaultConfig() Config {
	return Config{
		ParamCount: event.DefaultParamCount,
		Unit:       timebase.MillisPerMinute,
		Logger:     zap.NewNop(),
	}
}

// Option configures a Pipeline.
type Option = options.Option[*Config]

// WithParamCount sets the parameter vector arity.
func WithParamCount(n int) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return errs.ErrInvalidParamCount
		}
		c.ParamCount = n

		return nil
	})
}

// WithDiscardWindow drops telemetry recorded within window of the first sample.
func WithDiscardWindow(window time.Duration) Option {
	return options.New(func(c *Config) error {
		if window < 0 {
			return errs.ErrInvalidWindow
		}
		c.Discard = true
		c.DiscardWindow = window

		return nil
	})
}

// WithoutDiscard keeps all telemetry.
func WithoutDiscard() Option {
	return options.NoError(func(c *Config) {
		c.Discard = false
		c.DiscardWindow = 0
	})
}

// WithUnit sets the display unit as a number of clock milliseconds.
func WithUnit(scale float64) Option {
	return options.New(func(c *Config) error {
		if scale <= 0 {
			return errs.ErrInvalidUnit
		}
		c.Unit = scale

		return nil
	})
}

// WithLogger sets the logger shared by all stages.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	})
}
