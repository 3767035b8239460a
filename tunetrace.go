// Package tunetrace reconstructs time series from a twiddle parameter tuning run.
//
// A run leaves two artifacts behind: the tuner's text log, where every line is
// prefixed with an epoch-millisecond timestamp, and the controller's CTE
// telemetry CSV. tunetrace classifies the log lines into per-channel series,
// loads the telemetry, infers how many telemetry samples make up one parameter
// evaluation, puts both sources on one time axis and hands back a bundle of named
// channels ready for plotting.
//
// # Core Features
//
//   - Ordered, first-match line classification with a safe literal-list grammar
//   - Accepted-vector tracking on success markers
//   - Samples-per-update inference by nearest-neighbour matching on raw clocks
//   - Common origin and display-unit normalization across every series
//   - Compact binary export (xxHash64 channel IDs, Zstd/S2/LZ4 payloads)
//
// # Basic Usage
//
// Analyzing a run:
//
//	import "github.com/arloliu/tunetrace"
//
//	bundle, err := tunetrace.AnalyzeFiles("twiddle.out", "cte.csv",
//	    pipeline.WithDiscardWindow(telemetry.DefaultDiscardWindow),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ch := range bundle.Channels() {
//	    fmt.Println(ch.Name, ch.Len())
//	}
//
// Exporting and reading back:
//
//	err = tunetrace.Export(bundle, "run.ttar", archive.WithCompression(format.CompressionS2))
//	a, err := tunetrace.Open("run.ttar")
//	cte, err := a.Channel(telemetry.ChannelCTE)
//
// # Package Structure
//
// This package provides top-level wrappers around the pipeline and archive
// packages for the common cases. Use those packages directly for finer control.
package tunetrace

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/tunetrace/archive"
	"github.com/arloliu/tunetrace/internal/hash"
	"github.com/arloliu/tunetrace/pipeline"
)

// Analyze runs a complete analysis over a tuning log and an optional telemetry
// recording.
//
// Parameters:
//   - logReader: the tuner's log
//   - telemetryReader: the CTE CSV, or nil when no telemetry is available
//   - opts: pipeline options (parameter count, discard window, unit, logger)
//
// Returns:
//   - *pipeline.Bundle: normalized series and derived channels
//   - error: a wrapped errs sentinel for structural failures
//
// Example:
//
//	bundle, err := tunetrace.Analyze(logFile, nil, pipeline.WithUnit(timebase.MillisPerSecond))
func Analyze(logReader, telemetryReader io.Reader, opts ...pipeline.Option) (*pipeline.Bundle, error) {
	p, err := pipeline.New(opts...)
	if err != nil {
		return nil, err
	}

	return p.Run(logReader, telemetryReader)
}

// AnalyzeFiles is Analyze over files. A missing telemetry file is logged and
// treated as absent; every other error names the file it concerns.
func AnalyzeFiles(logPath, telemetryPath string, opts ...pipeline.Option) (*pipeline.Bundle, error) {
	p, err := pipeline.New(opts...)
	if err != nil {
		return nil, err
	}

	return p.RunFiles(logPath, telemetryPath)
}

// Export encodes every channel of bundle into an archive file at path.
//
// Defaults: little-endian, Zstd for both payloads. See archive.Option.
func Export(bundle *pipeline.Bundle, path string, opts ...archive.Option) error {
	data, err := archive.EncodeBundle(bundle, opts...)
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint: gosec
		return fmt.Errorf("write archive: %w", err)
	}

	return nil
}

// Open reads and decodes the archive file at path.
func Open(path string) (*archive.Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	a, err := archive.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return a, nil
}

// ChannelID returns the archive ID of a channel name.
func ChannelID(name string) uint64 {
	return hash.ID(name)
}
