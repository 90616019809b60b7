package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDivisionByZero is returned by Evaluate when a division step hits a zero
// divisor. It is a domain result, not a fault: callers validate first, this
// guard only closes the gap for unvalidated preview input.
var ErrDivisionByZero = errors.New("division by zero")

// Evaluate computes the result of applying op to operands as a left fold.
// With fewer than two operands there is no result yet and ok is false with a
// nil error; that path is only reached by live preview, where the caller
// already warns about the count. Unknown operations and zero divisors are
// reported as errors.
func Evaluate(op Operation, operands []float64) (result float64, ok bool, err error) {
	if len(operands) < 2 {
		return 0, false, nil
	}

	switch op {
	case Addition:
		sum := 0.0
		for _, v := range operands {
			sum += v
		}
		return sum, true, nil

	case Subtraction:
		diff := operands[0]
		for _, v := range operands[1:] {
			diff -= v
		}
		return diff, true, nil

	case Multiplication:
		product := 1.0
		for _, v := range operands {
			product *= v
		}
		return product, true, nil

	case Division:
		quotient := operands[0]
		for _, v := range operands[1:] {
			if v == 0 {
				return 0, false, ErrDivisionByZero
			}
			quotient /= v
		}
		return quotient, true, nil

	default:
		return 0, false, fmt.Errorf("unknown operation %q", op)
	}
}

// Formula renders a calculation and its result as a human-readable equation,
// e.g. "5 + 10 + 15 = 30".
func Formula(req Request, result float64) string {
	parts := make([]string, len(req.Inputs))
	for i, v := range req.Inputs {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " "+Symbol(req.Type)+" ") + " = " + Format(result)
}
