package event

import (
	"strconv"
	"strings"
)

// parseLiteralList parses a bracketed, comma-separated list of decimal literals such
// as "[0.512, 1.204, -0.003]". A single trailing comma before the closing bracket is
// accepted because the tuner prints vectors as "[a, b, c, ]". Any other shape
// returns ok == false; nothing in the text is ever evaluated.
func parseLiteralList(text string) ([]float64, bool) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '[' || text[len(text)-1] != ']' {
		return nil, false
	}

	body := strings.TrimSpace(text[1 : len(text)-1])
	if body == "" {
		return []float64{}, true
	}

	parts := strings.Split(body, ",")
	if strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, ok := parseNumber(part)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}

	return out, true
}

// parseNumber parses one decimal literal. Only finite values in plain or scientific
// notation are accepted: strconv also understands "inf", "nan" and hex floats,
// which never appear in the tuner's output.
func parseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !isDecimalLiteral(text) {
		return 0, false
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

func isDecimalLiteral(text string) bool {
	digits := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return false
		}
	}

	return digits
}
