// Package config loads the command line configuration from an optional YAML
// file, TUNETRACE_* environment variables and bound flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arloliu/tunetrace/archive"
	"github.com/arloliu/tunetrace/endian"
	"github.com/arloliu/tunetrace/errs"
	"github.com/arloliu/tunetrace/event"
	"github.com/arloliu/tunetrace/format"
	"github.com/arloliu/tunetrace/pipeline"
	"github.com/arloliu/tunetrace/report"
	"github.com/arloliu/tunetrace/telemetry"
	"github.com/arloliu/tunetrace/timebase"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyLog           = "log"
	KeyTelemetry     = "telemetry"
	KeyParamCount    = "nparam"
	KeyDiscard       = "discard"
	KeyDiscardWindow = "discard_window"
	KeyUnit          = "unit"
	KeyArchive       = "archive"
	KeyCompression   = "compression"
	KeyByteOrder     = "byte_order"
	KeyFormat        = "format"
	KeyVerbose       = "verbose"
)

// Configuration file base name and environment variable prefix.
const (
	FileName  = "tunetrace"
	EnvPrefix = "TUNETRACE"
)

// Config holds the resolved command line settings.
type Config struct {
	Log           string        `mapstructure:"log"`
	Telemetry     string        `mapstructure:"telemetry"`
	ParamCount    int           `mapstructure:"nparam"`
	Discard       bool          `mapstructure:"discard"`
	DiscardWindow time.Duration `mapstructure:"discard_window"`
	Unit          string        `mapstructure:"unit"`
	Archive       string        `mapstructure:"archive"`
	Compression   string        `mapstructure:"compression"`
	ByteOrder     string        `mapstructure:"byte_order"`
	Format        string        `mapstructure:"format"`
	Verbose       bool          `mapstructure:"verbose"`
}

// New returns a viper instance with defaults, search paths and environment
// binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", FileName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLog, "twiddle.out")
	v.SetDefault(KeyTelemetry, "cte.csv")
	v.SetDefault(KeyParamCount, event.DefaultParamCount)
	v.SetDefault(KeyDiscard, true)
	v.SetDefault(KeyDiscardWindow, telemetry.DefaultDiscardWindow.String())
	v.SetDefault(KeyUnit, "min")
	v.SetDefault(KeyArchive, "")
	v.SetDefault(KeyCompression, "zstd")
	v.SetDefault(KeyByteOrder, "little")
	v.SetDefault(KeyFormat, string(report.FormatText))
	v.SetDefault(KeyVerbose, false)
}

// Load reads the configuration file, if any, and decodes v into a Config.
//
// An explicit configFile must exist. Without one, a missing tunetrace.yaml in
// the search paths is not an error. The returned path is the file actually used,
// or "" when none was read.
func Load(v *viper.Viper, configFile string) (*Config, string, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, used, nil
}

// Validate checks every setting that has a closed set of values.
func (c *Config) Validate() error {
	if c.ParamCount <= 0 {
		return fmt.Errorf("%s: %w", KeyParamCount, errs.ErrInvalidParamCount)
	}
	if c.DiscardWindow < 0 {
		return fmt.Errorf("%s: %w", KeyDiscardWindow, errs.ErrInvalidWindow)
	}
	if _, err := timebase.ParseUnit(c.Unit); err != nil {
		return fmt.Errorf("%s: %w", KeyUnit, err)
	}
	if _, ok := format.ParseCompression(c.Compression); !ok {
		return fmt.Errorf("%s: unknown compression %q", KeyCompression, c.Compression)
	}
	if _, ok := endian.ParseEngine(c.ByteOrder); !ok {
		return fmt.Errorf("%s: unknown byte order %q", KeyByteOrder, c.ByteOrder)
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%s: %w", KeyFormat, err)
	}

	return nil
}

// PipelineOptions translates the analysis settings.
func (c *Config) PipelineOptions() ([]pipeline.Option, error) {
	unit, err := timebase.ParseUnit(c.Unit)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithParamCount(c.ParamCount),
		pipeline.WithUnit(unit),
	}
	if c.Discard {
		opts = append(opts, pipeline.WithDiscardWindow(c.DiscardWindow))
	} else {
		opts = append(opts, pipeline.WithoutDiscard())
	}

	return opts, nil
}

// ArchiveOptions translates the archive settings.
func (c *Config) ArchiveOptions() ([]archive.Option, error) {
	comp, ok := format.ParseCompression(c.Compression)
	if !ok {
		return nil, fmt.Errorf("unknown compression %q", c.Compression)
	}
	engine, ok := endian.ParseEngine(c.ByteOrder)
	if !ok {
		return nil, fmt.Errorf("unknown byte order %q", c.ByteOrder)
	}

	return []archive.Option{
		archive.WithCompression(comp),
		archive.WithByteOrder(engine),
	}, nil
}

// ReportFormat returns the selected summary format.
func (c *Config) ReportFormat() (report.Format, error) {
	return report.ParseFormat(c.Format)
}
