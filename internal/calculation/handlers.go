package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"calctrack/internal/calc"
	"calctrack/internal/handlers"
	"calctrack/internal/observability"
)

// tracer is the calculation resource's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculation")

const (
	recordKeyPrefix  = "calculation:"
	listKeyFormat    = "calculations:list:%d:%d"
	listKeyPattern   = "calculations:list:*"
	cacheWriteErrMsg = "cache write failed"
)

// API serves the /calculations resource. The store is authoritative; the
// cache is optional and nil disables it.
type API struct {
	store Store
	cache Cache
}

// NewAPI creates the calculation API over the given store and cache.
func NewAPI(store Store, cache Cache) *API {
	return &API{store: store, cache: cache}
}

// Create handles POST /calculations. The request body is already numeric
// ({type, inputs}); every validation rule is re-run here regardless of what
// the client claims to have checked, since client validation is advisory
// and bypassable.
func (a *API) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculations.create",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req calc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	res := calc.ValidateRequest(req)
	if !res.Valid {
		a.rejectInvalid(ctx, span, logger, "create", res, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculation.type", string(res.Normalized.Type)),
		attribute.Int("calculation.operand_count", len(res.Normalized.Inputs)),
	)

	start := time.Now()
	result, _, err := calc.Evaluate(res.Normalized.Type, res.Normalized.Inputs)
	if err != nil {
		// Unreachable after validation, but never trust a single layer.
		observability.RecordError(ctx, span, logger, errorCounter, "create", err.Error(), err, http.StatusUnprocessableEntity, w)
		return
	}

	stored, err := a.store.Create(ctx, res.Normalized.Type, res.Normalized.Inputs, result)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "storing calculation", err, http.StatusInternalServerError, w)
		return
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	a.invalidateLists(ctx, logger)
	a.cacheRecord(ctx, logger, stored)

	attrs := metric.WithAttributes(attribute.String("operation", string(stored.Type)))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("calculation.stored", trace.WithAttributes(
		attribute.String("calculation.id", stored.ID.String()),
		attribute.Float64("calculation.result", result),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculation created",
		zap.String("id", stored.ID.String()),
		zap.String("type", string(stored.Type)),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusCreated, toCalculationResponse(stored))
}

// Browse handles GET /calculations with limit/offset pagination.
func (a *API) Browse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculations.browse")
	defer span.End()

	limit := clampLimit(queryInt32(r, "limit"))
	offset := clampOffset(queryInt32(r, "offset"))
	span.SetAttributes(
		attribute.Int("page.limit", int(limit)),
		attribute.Int("page.offset", int(offset)),
	)

	listKey := fmt.Sprintf(listKeyFormat, limit, offset)
	var cached ListCalculationsResponse
	if a.cacheGet(ctx, logger, listKey, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "")
		handlers.WriteJSON(w, http.StatusOK, cached)
		return
	}

	calculations, err := a.store.FindAll(ctx, limit, offset)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "browse", "listing calculations", err, http.StatusInternalServerError, w)
		return
	}
	total, err := a.store.Count(ctx)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "browse", "counting calculations", err, http.StatusInternalServerError, w)
		return
	}

	resp := ListCalculationsResponse{
		Calculations: make([]CalculationResponse, len(calculations)),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}
	for i := range calculations {
		resp.Calculations[i] = toCalculationResponse(&calculations[i])
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, listKey, resp); err != nil {
			logger.Warn(cacheWriteErrMsg, zap.String("key", listKey), zap.Error(err))
		}
	}

	span.SetAttributes(attribute.Int("result.count", len(calculations)))
	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// Read handles GET /calculations/{id} with a read-through cache.
func (a *API) Read(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculations.read")
	defer span.End()

	id, ok := a.pathID(ctx, span, logger, "read", w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("calculation.id", id.String()))

	var cached CalculationResponse
	if a.cacheGet(ctx, logger, recordKeyPrefix+id.String(), &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "")
		handlers.WriteJSON(w, http.StatusOK, cached)
		return
	}

	stored, err := a.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			observability.RecordError(ctx, span, logger, errorCounter, "read", "calculation not found", err, http.StatusNotFound, w)
			return
		}
		observability.RecordError(ctx, span, logger, errorCounter, "read", "loading calculation", err, http.StatusInternalServerError, w)
		return
	}

	a.cacheRecord(ctx, logger, stored)

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, toCalculationResponse(stored))
}

// Edit handles PUT /calculations/{id}: full re-validation, recompute, update.
func (a *API) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculations.edit",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	id, ok := a.pathID(ctx, span, logger, "edit", w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("calculation.id", id.String()))

	var req calc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "edit", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	res := calc.ValidateRequest(req)
	if !res.Valid {
		a.rejectInvalid(ctx, span, logger, "edit", res, w)
		return
	}

	result, _, err := calc.Evaluate(res.Normalized.Type, res.Normalized.Inputs)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "edit", err.Error(), err, http.StatusUnprocessableEntity, w)
		return
	}

	stored, err := a.store.Update(ctx, id, res.Normalized.Type, res.Normalized.Inputs, result)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			observability.RecordError(ctx, span, logger, errorCounter, "edit", "calculation not found", err, http.StatusNotFound, w)
			return
		}
		observability.RecordError(ctx, span, logger, errorCounter, "edit", "updating calculation", err, http.StatusInternalServerError, w)
		return
	}

	a.invalidateLists(ctx, logger)
	a.cacheRecord(ctx, logger, stored)

	attrs := metric.WithAttributes(attribute.String("operation", string(stored.Type)))
	opsCounter.Add(ctx, 1, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.SetStatus(codes.Ok, "")
	logger.Info("calculation updated",
		zap.String("id", stored.ID.String()),
		zap.String("type", string(stored.Type)),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, toCalculationResponse(stored))
}

// Delete handles DELETE /calculations/{id}.
func (a *API) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculations.delete")
	defer span.End()

	id, ok := a.pathID(ctx, span, logger, "delete", w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("calculation.id", id.String()))

	if err := a.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			observability.RecordError(ctx, span, logger, errorCounter, "delete", "calculation not found", err, http.StatusNotFound, w)
			return
		}
		observability.RecordError(ctx, span, logger, errorCounter, "delete", "deleting calculation", err, http.StatusInternalServerError, w)
		return
	}

	a.invalidateLists(ctx, logger)
	if a.cache != nil {
		if err := a.cache.Delete(ctx, recordKeyPrefix+id.String()); err != nil {
			logger.Warn("cache invalidation failed", zap.String("id", id.String()), zap.Error(err))
		}
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("calculation deleted", zap.String("id", id.String()))

	handlers.WriteJSON(w, http.StatusOK, DeleteCalculationResponse{Deleted: true, ID: id.String()})
}

// Validate handles POST /calculations/validate. It accepts the raw form
// field text and always answers 200 with the structured verdict, so the UI
// can render every error and warning at once. With ?field=inputs it runs the
// lighter per-keystroke check that only warns about operand count.
func (a *API) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculations.validate")
	defer span.End()

	var req RawValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "validate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	var res calc.Result
	if r.URL.Query().Get("field") == "inputs" {
		res = calc.ValidateField(req.Inputs)
	} else {
		res = calc.Validate(req.Type, req.Inputs)
	}

	span.SetAttributes(
		attribute.Bool("validation.valid", res.Valid),
		attribute.Int("validation.errors", len(res.Errors)),
		attribute.Int("validation.warnings", len(res.Warnings)),
	)
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, res)
}

// Preview handles POST /calculations/preview: validates the raw field text
// and, when valid, evaluates and formats the result without persisting it.
func (a *API) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculations.preview")
	defer span.End()

	var req RawValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "preview", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	res := calc.Validate(req.Type, req.Inputs)
	if !res.Valid {
		a.rejectInvalid(ctx, span, logger, "preview", res, w)
		return
	}

	result, _, err := calc.Evaluate(res.Normalized.Type, res.Normalized.Inputs)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "preview", err.Error(), err, http.StatusUnprocessableEntity, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculation.type", string(res.Normalized.Type)),
		attribute.Float64("calculation.result", result),
	)
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, http.StatusOK, PreviewResponse{
		Result:    result,
		Formatted: calc.Format(result),
		Formula:   calc.Formula(*res.Normalized, result),
		Warnings:  res.Warnings,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// rejectInvalid answers 422 with the full issue list and records the
// rejection on the span and metrics.
func (a *API) rejectInvalid(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, res calc.Result, w http.ResponseWriter) {
	span.AddEvent("validation.rejected", trace.WithAttributes(
		attribute.Int("validation.errors", len(res.Errors)),
		attribute.Int("validation.warnings", len(res.Warnings)),
	))
	span.SetStatus(codes.Error, "validation failed")

	invalidCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", opName)))

	logger.Warn("calculation rejected",
		zap.String("operation", opName),
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)),
	)

	handlers.WriteJSON(w, http.StatusUnprocessableEntity, res)
}

func (a *API) pathID(ctx context.Context, span trace.Span, logger *zap.Logger, opName string, w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid calculation id", err, http.StatusBadRequest, w)
		return uuid.UUID{}, false
	}
	return id, true
}

// cacheGet tries the cache and eats infrastructure errors: a broken cache
// degrades to a store read, it never fails the request.
func (a *API) cacheGet(ctx context.Context, logger *zap.Logger, key string, dest any) bool {
	if a.cache == nil {
		return false
	}
	hit, err := a.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (a *API) cacheRecord(ctx context.Context, logger *zap.Logger, c *Calculation) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(ctx, recordKeyPrefix+c.ID.String(), toCalculationResponse(c)); err != nil {
		logger.Warn(cacheWriteErrMsg, zap.String("id", c.ID.String()), zap.Error(err))
	}
}

func (a *API) invalidateLists(ctx context.Context, logger *zap.Logger) {
	if a.cache == nil {
		return
	}
	if err := a.cache.DeletePattern(ctx, listKeyPattern); err != nil {
		logger.Warn("cache invalidation failed", zap.String("pattern", listKeyPattern), zap.Error(err))
	}
}

func queryInt32(r *http.Request, name string) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}
