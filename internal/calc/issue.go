package calc

import (
	"fmt"
	"strings"
)

// Code identifies a validation rule failure. Codes are stable machine
// identifiers; Message is for humans and may change freely.
type Code string

const (
	CodeEmptyInput           Code = "empty_input"
	CodeInvalidFormat        Code = "invalid_format"
	CodeMixedValidity        Code = "mixed_validity"
	CodeInvalidOperation     Code = "invalid_operation"
	CodeInsufficientOperands Code = "insufficient_operands"
	CodeDivisionByZero       Code = "division_by_zero"
)

// Issue is a single structured diagnostic. Validation failures are returned
// as data rather than thrown, so a caller can render every problem at once
// and localize messages independently of the rules.
type Issue struct {
	Code    Code     `json:"code"`
	Message string   `json:"message"`
	Tokens  []string `json:"tokens,omitempty"` // offending raw tokens, if any
	Index   int      `json:"index,omitempty"`  // offending operand position, if any
}

func emptyInputIssue() Issue {
	return Issue{Code: CodeEmptyInput, Message: "at least two numbers are required, separated by commas"}
}

func invalidFormatIssue(tokens []string) Issue {
	return Issue{
		Code:    CodeInvalidFormat,
		Message: "no valid numbers found: " + strings.Join(tokens, ", "),
		Tokens:  tokens,
	}
}

func mixedValidityIssue(tokens []string) Issue {
	return Issue{
		Code:    CodeMixedValidity,
		Message: "ignoring invalid numbers: " + strings.Join(tokens, ", "),
		Tokens:  tokens,
	}
}

func missingOperationIssue() Issue {
	return Issue{Code: CodeInvalidOperation, Message: "operation type is required"}
}

func invalidOperationIssue(raw string) Issue {
	return Issue{
		Code:    CodeInvalidOperation,
		Message: fmt.Sprintf("unsupported operation type %q: must be addition, subtraction, multiplication or division", raw),
		Tokens:  []string{raw},
	}
}

func insufficientOperandsIssue(n int) Issue {
	return Issue{
		Code:    CodeInsufficientOperands,
		Message: fmt.Sprintf("at least two numbers are required, got %d", n),
	}
}

func divisionByZeroIssue(index int) Issue {
	return Issue{
		Code:    CodeDivisionByZero,
		Message: fmt.Sprintf("division by zero is not allowed (operand %d is zero)", index+1),
		Index:   index,
	}
}

func tooFewForPreviewIssue(n int) Issue {
	return Issue{
		Code:    CodeInsufficientOperands,
		Message: fmt.Sprintf("%d number(s) found. At least 2 are required", n),
	}
}
