// Package format defines the closed enumerations shared across tunetrace packages.
package format

import "strings"

type (
	EventKind       uint8
	ScalarKind      uint8
	CompressionType uint8
)

const (
	EventNone            EventKind = iota // EventNone marks a line that produced no event.
	EventSuccess                          // EventSuccess marks an accepted parameter update.
	EventParameterDelta                   // EventParameterDelta carries a dp vector.
	EventParameterVector                  // EventParameterVector carries a p vector.
	EventScalar                           // EventScalar carries one ScalarKind value.
	EventCycle                            // EventCycle marks a twiddle loop restart.
	EventParamIndex                       // EventParamIndex moves the perturbed-parameter cursor.
)

const (
	ScalarMeanAbsoluteError ScalarKind = iota + 1 // ScalarMeanAbsoluteError is the logged MAE.
	ScalarStdError                                // ScalarStdError is the logged error spread.
	ScalarObjective                               // ScalarObjective is the value being minimized.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "None"
	case EventSuccess:
		return "Success"
	case EventParameterDelta:
		return "ParameterDelta"
	case EventParameterVector:
		return "ParameterVector"
	case EventScalar:
		return "Scalar"
	case EventCycle:
		return "Cycle"
	case EventParamIndex:
		return "ParamIndex"
	default:
		return "Unknown"
	}
}

func (k ScalarKind) String() string {
	switch k {
	case ScalarMeanAbsoluteError:
		return "MeanAbsoluteError"
	case ScalarStdError:
		return "StdError"
	case ScalarObjective:
		return "Objective"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-insensitive name ("none", "zstd", "s2", "lz4") to a
// CompressionType. An empty name means no compression. The second return value is
// false for unknown names.
func ParseCompression(name string) (CompressionType, bool) {
	switch strings.ToLower(name) {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
