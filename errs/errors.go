// Package errs defines the sentinel errors returned by tunetrace packages.
//
// Errors are wrapped with fmt.Errorf and the %w verb so callers can match them
// with errors.Is while still seeing which input and line triggered the failure.
package errs

import "errors"

// Structural failures. These abort an analysis run.
var (
	// ErrOutOfOrderEvent is returned when a success marker appears before any
	// parameter vector has been logged.
	ErrOutOfOrderEvent = errors.New("success marker without a preceding parameter vector")
	// ErrMalformedRecord is returned when a telemetry record does not have exactly
	// six fields or one of its fields is not numeric.
	ErrMalformedRecord = errors.New("malformed telemetry record")
	// ErrNoTimestampedData is returned when no series holds a timestamp, so no
	// common time origin exists.
	ErrNoTimestampedData = errors.New("no timestamped data")
)

// Usage errors.
var (
	ErrAlreadyNormalized = errors.New("series already normalized")
	ErrInvalidParamCount = errors.New("parameter count must be positive")
	ErrInvalidUnit       = errors.New("time unit scale must be positive")
	ErrInvalidWindow     = errors.New("discard window must not be negative")
	ErrInvalidFormat     = errors.New("unknown report format")
)

// Archive errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid archive header size")
	ErrInvalidMagicNumber = errors.New("invalid archive magic number")
	ErrInvalidHeaderFlags = errors.New("invalid archive header flags")
	ErrInvalidChannelName = errors.New("invalid channel name")
	ErrDuplicateChannel   = errors.New("duplicate channel name")
	ErrHashCollision      = errors.New("channel id hash collision")
	ErrInvalidIndexEntry  = errors.New("invalid archive index entry")
	ErrPointCountMismatch = errors.New("timestamp and value counts differ")
	ErrTruncatedPayload   = errors.New("archive payload truncated")
	ErrTooManyChannels    = errors.New("too many channels for one archive")
	ErrChannelNotFound    = errors.New("channel not found")
	ErrEstimateOutOfRange = errors.New("samples per update does not fit the archive header")
	ErrArchiveTooLarge    = errors.New("archive exceeds 4 GiB")
)
