package calculation

import (
	"time"

	"github.com/google/uuid"

	"calctrack/internal/calc"
)

// Calculation is a persisted calculation record.
type Calculation struct {
	ID        uuid.UUID      `json:"id"`
	Type      calc.Operation `json:"type"`
	Inputs    []float64      `json:"inputs"`
	Result    float64        `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CalculationResponse is a calculation in API responses. Result keeps full
// float64 precision; Formatted and Formula are display renderings.
type CalculationResponse struct {
	ID        string         `json:"id"`
	Type      calc.Operation `json:"type"`
	Inputs    []float64      `json:"inputs"`
	Result    float64        `json:"result"`
	Formatted string         `json:"formatted"`
	Formula   string         `json:"formula"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ListCalculationsResponse is the paginated browse payload.
type ListCalculationsResponse struct {
	Calculations []CalculationResponse `json:"calculations"`
	Total        int64                 `json:"total"`
	Limit        int32                 `json:"limit"`
	Offset       int32                 `json:"offset"`
}

// DeleteCalculationResponse is returned after a delete.
type DeleteCalculationResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// RawValidationRequest carries the raw form field text for the validate and
// preview endpoints, before any client-side normalization.
type RawValidationRequest struct {
	Type   string `json:"type"`
	Inputs string `json:"inputs"`
}

// PreviewResponse is the evaluated preview of a not-yet-saved calculation.
type PreviewResponse struct {
	Result    float64      `json:"result"`
	Formatted string       `json:"formatted"`
	Formula   string       `json:"formula"`
	Warnings  []calc.Issue `json:"warnings,omitempty"`
}

func toCalculationResponse(c *Calculation) CalculationResponse {
	return CalculationResponse{
		ID:        c.ID.String(),
		Type:      c.Type,
		Inputs:    c.Inputs,
		Result:    c.Result,
		Formatted: calc.Format(c.Result),
		Formula:   calc.Formula(calc.Request{Type: c.Type, Inputs: c.Inputs}, c.Result),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// clampLimit keeps the page size within 1-100, defaulting to 10.
func clampLimit(limit int32) int32 {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// clampOffset keeps the offset non-negative.
func clampOffset(offset int32) int32 {
	if offset < 0 {
		return 0
	}
	return offset
}
