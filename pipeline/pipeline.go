// Package pipeline runs a complete offline analysis of one tuning run: it parses the
// tuning log and the telemetry recording, infers the samples-per-update
// correspondence on the raw clocks, rebases every series onto a common origin and
// derives the channels a chart renderer needs.
//
// The run is a single sequential pass with no shared state; independent
// Pipelines may run concurrently.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/arloliu/tunetrace/correspondence"
	"github.com/arloliu/tunetrace/internal/options"
	"github.com/arloliu/tunetrace/stream"
	"github.com/arloliu/tunetrace/telemetry"
	"github.com/arloliu/tunetrace/timebase"
	"go.uber.org/zap"
)

// Pipeline holds the configuration of an analysis run.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline.
//
// Defaults: three parameters, no telemetry warm-up discard, minutes as display unit.
func New(opts ...Option) (*Pipeline, error) {
	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Pipeline{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run analyzes a tuning log and an optional telemetry recording (nil to skip).
func (p *Pipeline) Run(logReader, telemetryReader io.Reader) (*Bundle, error) {
	return p.run("log", logReader, "telemetry", telemetryReader)
}

// RunFiles analyzes the files at logPath and telemetryPath.
//
// A missing telemetry file is not an error: the bundle then has no telemetry
// channels and an undefined estimate. Errors name the offending file.
func (p *Pipeline) RunFiles(logPath, telemetryPath string) (*Bundle, error) {
	logFile, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	var telemetryReader io.Reader
	if telemetryPath != "" {
		f, err := os.Open(telemetryPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			p.cfg.Logger.Warn("telemetry file not found, continuing without telemetry",
				zap.String("path", telemetryPath))
		case err != nil:
			return nil, fmt.Errorf("open telemetry: %w", err)
		default:
			defer f.Close()
			telemetryReader = f
		}
	}

	return p.run(logPath, logFile, telemetryPath, telemetryReader)
}

func (p *Pipeline) run(logName string, logReader io.Reader, telemetryName string, telemetryReader io.Reader) (*Bundle, error) {
	logger := p.cfg.Logger

	builder, err := stream.NewBuilder(
		stream.WithParamCount(p.cfg.ParamCount),
		stream.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if err := builder.Consume(logReader); err != nil {
		return nil, fmt.Errorf("%s: %w", logName, err)
	}

	rec := telemetry.NewRecording()
	if telemetryReader != nil {
		rec, err = p.loadTelemetry(telemetryReader)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", telemetryName, err)
		}
	}

	log := builder.Streams()
	result := correspondence.Infer(log.Parameters.Timestamps(), rec.Timestamps())
	if !result.Estimate.Defined {
		logger.Warn("samples per update is undefined",
			zap.Int("updates", log.Parameters.Len()),
			zap.Int("samples", rec.Len()),
		)
	}

	normalizer, err := timebase.NewNormalizer(timebase.WithUnit(p.cfg.Unit))
	if err != nil {
		return nil, err
	}
	columns := slices.Concat(log.TimestampColumns(), rec.TimestampColumns())
	if err := normalizer.Normalize(columns...); err != nil {
		return nil, fmt.Errorf("%s, %s: %w", logName, telemetryName, err)
	}

	bundle := &Bundle{
		Origin:         normalizer.Origin(),
		Unit:           normalizer.Unit(),
		ParamCount:     p.cfg.ParamCount,
		Log:            log,
		Telemetry:      rec,
		Correspondence: result,
		LogStats:       builder.Stats(),
	}
	bundle.derive()

	logger.Info("analysis complete",
		zap.Int("parameters", log.Parameters.Len()),
		zap.Int("accepted", log.Accepted.Len()),
		zap.Int("objective_points", log.Objective.Len()),
		zap.Int("telemetry_samples", rec.Len()),
		zap.Stringer("samples_per_update", result.Estimate),
		zap.Float64("origin_ms", bundle.Origin),
	)

	return bundle, nil
}

func (p *Pipeline) loadTelemetry(r io.Reader) (*telemetry.Recording, error) {
	opts := []telemetry.Option{telemetry.WithLogger(p.cfg.Logger)}
	if p.cfg.Discard {
		opts = append(opts, telemetry.WithDiscardWindow(p.cfg.DiscardWindow))
	}

	loader, err := telemetry.NewLoader(opts...)
	if err != nil {
		return nil, err
	}

	return loader.Load(r)
}
