package httpfetch

import (
	"math"
	"strconv"
	"strings"
)

// Number decodes a JSON number or numeric string without ever failing the
// surrounding document. Valid is false for null, empty or garbage values;
// Raw keeps the original text for logging.
// maxExactFloat is the largest magnitude a float64 holds without losing
// integer precision; larger values are treated as garbage.
const maxExactFloat = 1 << 53

type Number struct {
	Value int64
	Valid bool
	Raw   string
}

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	*n = Number{Raw: raw}
	if raw == "" || raw == "null" {
		return nil
	}

	text := strings.TrimSpace(strings.Trim(raw, `"`))
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		n.Value, n.Valid = v, true
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && math.Abs(f) <= maxExactFloat {
		n.Value, n.Valid = int64(f), true
	}
	return nil
}
