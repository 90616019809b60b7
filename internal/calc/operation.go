// Package calc is the pure validation and arithmetic core of the calculation
// tracking service. The browser client mirrors these rules for optimistic
// feedback; the server runs the same code as the authority before anything is
// persisted. Every function here is stateless, total over arbitrary input
// strings, and safe for concurrent use.
package calc

import "strings"

// Operation is a supported arithmetic operation, stored lowercase.
type Operation string

const (
	Addition       Operation = "addition"
	Subtraction    Operation = "subtraction"
	Multiplication Operation = "multiplication"
	Division       Operation = "division"
)

// operations is the closed set of supported operation names.
var operations = map[Operation]struct{}{
	Addition:       {},
	Subtraction:    {},
	Multiplication: {},
	Division:       {},
}

// symbols maps each operation to its display glyph for formula rendering.
var symbols = map[Operation]string{
	Addition:       "+",
	Subtraction:    "-",
	Multiplication: "×",
	Division:       "÷",
}

// ParseOperation matches raw case-insensitively against the supported set.
// Surrounding whitespace is ignored. The second return reports whether the
// operation is supported.
func ParseOperation(raw string) (Operation, bool) {
	op := Operation(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := operations[op]
	return op, ok
}

// Symbol returns the display glyph for op, or "?" when op is not supported.
func Symbol(op Operation) string {
	if s, ok := symbols[op]; ok {
		return s
	}
	return "?"
}
