package vehicle

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ParseNumberLike coerces a loosely formatted value into a float64.
//
// Native numeric kinds pass through. Strings keep only digits, '.' and a '-'
// that precedes the first digit, so "1,234.5 km" parses as 1234.5 and
// "$ -3,100" as -3100. Empty, placeholder ("N/A") and unparseable inputs
// report ok=false. Non-finite results are rejected. The function never panics.
func ParseNumberLike(v any) (f float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			f, ok = 0, false
		}
	}()

	switch t := v.(type) {
	case nil:
		return 0, false
	case bool:
		return 0, false
	case string:
		return parseNumericText(t)
	case json.Number:
		return parseNumericText(t.String())
	case *float64:
		if t == nil {
			return 0, false
		}
		return finite(*t)
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToFloat64E(t)
		if err != nil {
			return 0, false
		}
		return finite(n)
	default:
		return parseNumericText(cast.ToString(t))
	}
}

func parseNumericText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	var b strings.Builder
	seenDigit := false
	negative := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		case r == '-' && !seenDigit && b.Len() == 0:
			negative = true
		}
	}
	if !seenDigit {
		return 0, false
	}
	cleaned := b.String()
	if negative {
		cleaned = "-" + cleaned
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return finite(n)
}

func finite(n float64) (float64, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ParseNumberPtr is ParseNumberLike returning nil for missing values.
func ParseNumberPtr(v any) *float64 {
	if n, ok := ParseNumberLike(v); ok {
		return &n
	}
	return nil
}

// ParseYear renders a model year as an integer string ("2024.0" -> "2024").
// Text that carries no number is returned trimmed.
func ParseYear(v any) string {
	if v == nil {
		return ""
	}
	if n, ok := ParseNumberLike(v); ok {
		return strconv.FormatInt(int64(math.Round(n)), 10)
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Positive reports whether p holds a finite value > 0.
func Positive(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0) && *p > 0
}

// Value dereferences p, returning 0 for nil.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
