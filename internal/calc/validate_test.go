package calc

import (
	"reflect"
	"testing"
)

func hasCode(issues []Issue, code Code) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func TestValidateSuccessNormalizes(t *testing.T) {
	res := Validate("addition", "5, 10, 15")

	if !res.Valid {
		t.Fatalf("expected valid result, got errors=%v", res.Errors)
	}
	if len(res.Errors) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("expected no diagnostics, got errors=%v warnings=%v", res.Errors, res.Warnings)
	}
	if res.Normalized == nil {
		t.Fatal("expected normalized request")
	}
	if res.Normalized.Type != Addition {
		t.Fatalf("expected type %q, got %q", Addition, res.Normalized.Type)
	}
	if want := []float64{5, 10, 15}; !reflect.DeepEqual(res.Normalized.Inputs, want) {
		t.Fatalf("expected inputs %v, got %v", want, res.Normalized.Inputs)
	}
}

func TestValidateOperationCaseInsensitive(t *testing.T) {
	for _, opRaw := range []string{"ADDITION", "Addition", "addition", " aDdItIoN "} {
		t.Run(opRaw, func(t *testing.T) {
			res := Validate(opRaw, "1, 2")
			if !res.Valid {
				t.Fatalf("expected valid result for %q, got errors=%v", opRaw, res.Errors)
			}
			if res.Normalized.Type != Addition {
				t.Fatalf("expected normalized type %q, got %q", Addition, res.Normalized.Type)
			}
		})
	}
}

func TestValidateOperationErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		res := Validate("", "1, 2")
		if res.Valid {
			t.Fatal("expected invalid result")
		}
		if !hasCode(res.Errors, CodeInvalidOperation) {
			t.Fatalf("expected invalid_operation error, got %v", res.Errors)
		}
		if res.Errors[0].Message != "operation type is required" {
			t.Fatalf("expected missing-operation message, got %q", res.Errors[0].Message)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		res := Validate("modulo", "5, 10")
		if res.Valid {
			t.Fatal("expected invalid result")
		}
		if !hasCode(res.Errors, CodeInvalidOperation) {
			t.Fatalf("expected invalid_operation error, got %v", res.Errors)
		}
	})
}

func TestValidateInsufficientOperands(t *testing.T) {
	res := Validate("addition", "5")

	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if !hasCode(res.Errors, CodeInsufficientOperands) {
		t.Fatalf("expected insufficient_operands error, got %v", res.Errors)
	}
}

func TestValidateInsufficientSuppressedByMoreSpecificParseError(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Code
	}{
		{name: "empty", raw: "", want: CodeEmptyInput},
		{name: "all invalid", raw: "abc, def", want: CodeInvalidFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate("addition", tc.raw)
			if res.Valid {
				t.Fatal("expected invalid result")
			}
			if !hasCode(res.Errors, tc.want) {
				t.Fatalf("expected %s error, got %v", tc.want, res.Errors)
			}
			if hasCode(res.Errors, CodeInsufficientOperands) {
				t.Fatalf("did not expect insufficient_operands alongside %s, got %v", tc.want, res.Errors)
			}
		})
	}
}

func TestValidateDivisionByZero(t *testing.T) {
	res := Validate("division", "100, 0, 5")

	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if !hasCode(res.Errors, CodeDivisionByZero) {
		t.Fatalf("expected division_by_zero error, got %v", res.Errors)
	}
	if res.Errors[0].Index != 1 {
		t.Fatalf("expected offending index 1, got %d", res.Errors[0].Index)
	}
}

func TestValidateDivisionLeadingZeroDividendAllowed(t *testing.T) {
	res := Validate("division", "0, 5")

	if !res.Valid {
		t.Fatalf("expected valid result, got errors=%v", res.Errors)
	}
}

func TestValidateDivisionReportsEveryZeroDivisor(t *testing.T) {
	res := Validate("division", "100, 0, 5, 0")

	var count int
	for _, issue := range res.Errors {
		if issue.Code == CodeDivisionByZero {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 division_by_zero errors, got %d (%v)", count, res.Errors)
	}
}

func TestValidateAccumulatesAcrossFields(t *testing.T) {
	// Bad operation and too few operands are both reported in one pass.
	res := Validate("modulo", "5")

	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if !hasCode(res.Errors, CodeInvalidOperation) || !hasCode(res.Errors, CodeInsufficientOperands) {
		t.Fatalf("expected both invalid_operation and insufficient_operands, got %v", res.Errors)
	}
}

func TestValidateMixedValidityWarnsButSucceeds(t *testing.T) {
	res := Validate("addition", "5, abc, 10")

	if !res.Valid {
		t.Fatalf("expected valid result, got errors=%v", res.Errors)
	}
	if !hasCode(res.Warnings, CodeMixedValidity) {
		t.Fatalf("expected mixed_validity warning, got %v", res.Warnings)
	}
	if want := []float64{5, 10}; !reflect.DeepEqual(res.Normalized.Inputs, want) {
		t.Fatalf("expected inputs %v, got %v", want, res.Normalized.Inputs)
	}
}

func TestValidateRequestAuthoritative(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		valid bool
		code  Code
	}{
		{name: "valid addition", req: Request{Type: "addition", Inputs: []float64{1, 2}}, valid: true},
		{name: "case insensitive", req: Request{Type: "DIVISION", Inputs: []float64{100, 2, 5}}, valid: true},
		{name: "unknown operation", req: Request{Type: "modulo", Inputs: []float64{1, 2}}, code: CodeInvalidOperation},
		{name: "missing operation", req: Request{Inputs: []float64{1, 2}}, code: CodeInvalidOperation},
		{name: "single input", req: Request{Type: "addition", Inputs: []float64{1}}, code: CodeInsufficientOperands},
		{name: "no inputs", req: Request{Type: "addition"}, code: CodeInsufficientOperands},
		{name: "zero divisor", req: Request{Type: "division", Inputs: []float64{100, 0}}, code: CodeDivisionByZero},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateRequest(tc.req)
			if res.Valid != tc.valid {
				t.Fatalf("expected valid=%t, got %t (errors=%v)", tc.valid, res.Valid, res.Errors)
			}
			if !tc.valid && !hasCode(res.Errors, tc.code) {
				t.Fatalf("expected %s error, got %v", tc.code, res.Errors)
			}
			if tc.valid && res.Normalized == nil {
				t.Fatal("expected normalized request")
			}
		})
	}
}

func TestValidateFieldEmptyIsSilent(t *testing.T) {
	res := ValidateField("")

	if !res.Valid {
		t.Fatal("expected valid result for empty field")
	}
	if len(res.Errors) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("expected no diagnostics, got errors=%v warnings=%v", res.Errors, res.Warnings)
	}
}

func TestValidateFieldWarnsWhileTyping(t *testing.T) {
	res := ValidateField("5")

	if !res.Valid {
		t.Fatalf("expected valid result, got errors=%v", res.Errors)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != CodeInsufficientOperands {
		t.Fatalf("expected single count warning, got %v", res.Warnings)
	}
	if want := "1 number(s) found. At least 2 are required"; res.Warnings[0].Message != want {
		t.Fatalf("expected message %q, got %q", want, res.Warnings[0].Message)
	}
}

func TestValidateFieldTwoNumbersIsClean(t *testing.T) {
	res := ValidateField("5, 10")

	if !res.Valid || len(res.Warnings) != 0 {
		t.Fatalf("expected clean result, got valid=%t warnings=%v", res.Valid, res.Warnings)
	}
}

func TestValidateFieldAllInvalidIsError(t *testing.T) {
	res := ValidateField("abc")

	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if !hasCode(res.Errors, CodeInvalidFormat) {
		t.Fatalf("expected invalid_format error, got %v", res.Errors)
	}
}
