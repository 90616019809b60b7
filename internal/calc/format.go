package calc

import (
	"math"
	"strconv"
	"strings"
)

// Format renders a numeric result for display. Tiny non-zero magnitudes
// (|v| < 0.0001) use exponential notation with four fractional digits, e.g.
// "1.0000e-5"; everything else is rounded half-up to at most four decimal
// places and printed as a plain decimal with trailing zeros trimmed.
// Formatting is display-only; stored and submitted values keep full
// float64 precision.
func Format(v float64) string {
	if v != 0 && math.Abs(v) < 0.0001 {
		s := strconv.FormatFloat(v, 'e', 4, 64)
		return trimExponentZero(s)
	}

	rounded := math.Round(v*10000) / 10000
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// trimExponentZero rewrites Go's zero-padded exponent ("1.0000e-05") to the
// form the web client produces ("1.0000e-5").
func trimExponentZero(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mantissa, exp := s[:i+1], s[i+1:]

	sign := ""
	if exp[0] == '+' || exp[0] == '-' {
		sign, exp = string(exp[0]), exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + sign + exp
}
