package calc

import (
	"math"
	"strconv"
	"strings"
)

// Request is a normalized calculation, safe to submit and persist. Inputs
// keep their original order; subtraction and division apply left to right
// against the first element.
type Request struct {
	Type   Operation `json:"type"`
	Inputs []float64 `json:"inputs"`
}

// Result is the verdict of a validation call. Warnings never block validity;
// Normalized is set only when Valid. A fresh Result is produced per call and
// nothing is shared across calls.
type Result struct {
	Valid      bool     `json:"valid"`
	Errors     []Issue  `json:"errors,omitempty"`
	Warnings   []Issue  `json:"warnings,omitempty"`
	Normalized *Request `json:"normalized,omitempty"`
}

func (r *Result) addError(issue Issue) {
	r.Errors = append(r.Errors, issue)
}

// Validate is the submit-time entry point: it checks the raw operation type
// and raw operand string together, accumulating every applicable failure
// instead of stopping at the first, so the caller can surface all problems
// at once.
func Validate(opRaw, inputRaw string) Result {
	var res Result

	op, opOK := ParseOperation(opRaw)
	if !opOK {
		if strings.TrimSpace(opRaw) == "" {
			res.addError(missingOperationIssue())
		} else {
			res.addError(invalidOperationIssue(opRaw))
		}
	}

	operands, errs, warnings := ParseOperands(inputRaw)
	res.Errors = append(res.Errors, errs...)
	res.Warnings = append(res.Warnings, warnings...)

	// An empty/format error already implies too few operands; reporting
	// both would double-flag the same field.
	if len(errs) == 0 && len(operands) < 2 {
		res.addError(insufficientOperandsIssue(len(operands)))
	}

	if opOK && op == Division {
		// Every operand after the first is a candidate divisor.
		for i := 1; i < len(operands); i++ {
			if operands[i] == 0 {
				res.addError(divisionByZeroIssue(i))
			}
		}
	}

	if len(res.Errors) == 0 {
		res.Valid = true
		res.Normalized = &Request{Type: op, Inputs: operands}
	}
	return res
}

// ValidateRequest applies the same business rules to an already-numeric
// request. This is the authoritative server-side path: client validation is
// advisory and must be assumed bypassable, so every rule is re-checked here
// before anything is persisted.
func ValidateRequest(req Request) Result {
	var res Result

	op, opOK := ParseOperation(string(req.Type))
	if !opOK {
		if strings.TrimSpace(string(req.Type)) == "" {
			res.addError(missingOperationIssue())
		} else {
			res.addError(invalidOperationIssue(string(req.Type)))
		}
	}

	var nonFinite []string
	for _, v := range req.Inputs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			nonFinite = append(nonFinite, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	if len(nonFinite) > 0 {
		res.addError(invalidFormatIssue(nonFinite))
	}

	if len(req.Inputs) < 2 {
		res.addError(insufficientOperandsIssue(len(req.Inputs)))
	}

	if opOK && op == Division {
		for i := 1; i < len(req.Inputs); i++ {
			if req.Inputs[i] == 0 {
				res.addError(divisionByZeroIssue(i))
			}
		}
	}

	if len(res.Errors) == 0 {
		res.Valid = true
		res.Normalized = &Request{Type: op, Inputs: req.Inputs}
	}
	return res
}

// ValidateField is the live, per-keystroke check for the operand field alone.
// An empty field is valid and silent so the user is not nagged before typing.
// Too few numbers is only a warning here, since the user may still be typing;
// division by zero is not checked because the operation is unknown at this
// point and is deferred to Validate at submit time.
func ValidateField(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Valid: true}
	}

	var res Result
	operands, errs, warnings := ParseOperands(raw)
	res.Errors = append(res.Errors, errs...)
	res.Warnings = append(res.Warnings, warnings...)

	if len(errs) == 0 && len(operands) < 2 {
		res.Warnings = append(res.Warnings, tooFewForPreviewIssue(len(operands)))
	}

	res.Valid = len(res.Errors) == 0
	return res
}
