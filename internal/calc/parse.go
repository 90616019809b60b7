package calc

import (
	"regexp"
	"strconv"
	"strings"
)

// plainDecimal matches the accepted numeric syntax: optional leading minus,
// digits with an optional decimal point. Exponential notation, NaN/Infinity
// tokens and thousands separators are rejected as input (exponential notation
// appears only in formatted output).
var plainDecimal = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)

// ParseOperands converts a raw comma-separated string into an ordered operand
// list plus diagnostics. Segments are trimmed and empty segments dropped.
//
//   - nothing left after dropping empties: empty_input error
//   - every segment invalid: invalid_format error
//   - some invalid, some valid: the valid numbers with a mixed_validity
//     warning naming the dropped tokens
//   - every segment valid: the numbers with no diagnostics
//
// Invalid tokens are dropped, never coerced to zero, so a lenient caller can
// still submit the usable subset.
func ParseOperands(raw string) (operands []float64, errs, warnings []Issue) {
	var invalid []string

	for _, segment := range strings.Split(raw, ",") {
		token := strings.TrimSpace(segment)
		if token == "" {
			continue
		}

		if !plainDecimal.MatchString(token) {
			invalid = append(invalid, token)
			continue
		}

		n, err := strconv.ParseFloat(token, 64)
		if err != nil {
			invalid = append(invalid, token)
			continue
		}
		operands = append(operands, n)
	}

	switch {
	case len(operands) == 0 && len(invalid) == 0:
		errs = append(errs, emptyInputIssue())
	case len(operands) == 0:
		errs = append(errs, invalidFormatIssue(invalid))
	case len(invalid) > 0:
		warnings = append(warnings, mixedValidityIssue(invalid))
	}

	return operands, errs, warnings
}
