package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/tunetrace/errs"
	"gopkg.in/yaml.v3"
)

// Format selects the report rendering.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidFormat, name)
	}
}

// Write renders s in format f.
func Write(w io.Writer, s Summary, f Format) error {
	switch f {
	case FormatText:
		return WriteText(w, s)
	case FormatYAML:
		return WriteYAML(w, s)
	default:
		return fmt.Errorf("%w: %q", errs.ErrInvalidFormat, f)
	}
}

// WriteYAML marshals s as a YAML document.
func WriteYAML(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	return enc.Close()
}

// WriteText prints s as aligned sections.
func WriteText(w io.Writer, s Summary) error {
	var sb strings.Builder

	sb.WriteString("=== Summary ===\n\n")
	fmt.Fprintf(&sb, "  Origin:              %.0f ms\n", s.OriginMs)
	fmt.Fprintf(&sb, "  Unit:                %g ms\n", s.UnitMs)
	fmt.Fprintf(&sb, "  Samples per update:  %s\n", s.SamplesPerUpdate)
	fmt.Fprintf(&sb, "  Span:                %.3f\n", s.Span)
	sb.WriteString("\n")

	if r := s.Run; r != nil {
		sb.WriteString("=== Run ===\n\n")
		fmt.Fprintf(&sb, "  Lines:               %d (%d untimestamped, %d ignored)\n", r.Lines, r.Untimestamped, r.Ignored)
		fmt.Fprintf(&sb, "  Parameter vectors:   %d\n", r.ParameterVectors)
		fmt.Fprintf(&sb, "  Accepted vectors:    %d (%d successes)\n", r.AcceptedVectors, r.Successes)
		fmt.Fprintf(&sb, "  Cycles:              %d\n", r.Cycles)
		fmt.Fprintf(&sb, "  Telemetry samples:   %d\n", r.TelemetrySamples)
		fmt.Fprintf(&sb, "  Estimate support:    %d\n", r.EstimateSupport)
		if r.MinObjective != nil {
			fmt.Fprintf(&sb, "  Min objective:       %g\n", *r.MinObjective)
		} else {
			sb.WriteString("  Min objective:       n/a\n")
		}
		if len(r.LastAcceptedParam) > 0 {
			fmt.Fprintf(&sb, "  Last accepted:       %v\n", r.LastAcceptedParam)
		}
		sb.WriteString("\n")
	}

	if s.Timestamps != nil && s.Values != nil {
		sb.WriteString("=== Payloads ===\n\n")
		fmt.Fprintf(&sb, "%-10s | %-6s | %-12s | %-12s | %-8s\n", "Payload", "Codec", "Original", "Compressed", "Savings")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, p := range []struct {
			name string
			s    *PayloadSummary
		}{{"timestamps", s.Timestamps}, {"values", s.Values}} {
			fmt.Fprintf(&sb, "%-10s | %-6s | %-12d | %-12d | %-8s\n",
				p.name, p.s.Algorithm, p.s.OriginalSize, p.s.CompressedSize, fmt.Sprintf("%.1f%%", p.s.Savings))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("=== Channels ===\n\n")
	width := len("Channel")
	for _, ch := range s.Channels {
		width = max(width, len(ch.Name))
	}
	fmt.Fprintf(&sb, "%-*s | %-7s | %-10s | %-10s | %-12s | %-12s\n", width, "Channel", "Points", "First", "Last", "Min", "Max")
	sb.WriteString(strings.Repeat("-", width+68) + "\n")
	for _, ch := range s.Channels {
		if ch.Points == 0 {
			fmt.Fprintf(&sb, "%-*s | %-7d | %-10s | %-10s | %-12s | %-12s\n", width, ch.Name, 0, "-", "-", "-", "-")
			continue
		}
		fmt.Fprintf(&sb, "%-*s | %-7d | %-10.4f | %-10.4f | %-12.6g | %-12.6g\n",
			width, ch.Name, ch.Points, ch.First, ch.Last, ch.Min, ch.Max)
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
