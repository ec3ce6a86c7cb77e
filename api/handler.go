// Package api - HTTP handlers
// Handlers decode scenarios, call the engine and serialize its output.
// They contain NO cost logic.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"solar-capex/adapters/export"
	"solar-capex/adapters/scenario"
	"solar-capex/core/catalog"
	"solar-capex/core/cost"
	"solar-capex/core/diff"
	"solar-capex/core/types"
	"solar-capex/internal/errors"
	"solar-capex/internal/logging"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 4 << 20

// Handler serves engine requests
type Handler struct {
	loader   *scenario.Loader
	catalog  *catalog.Catalog
	exporter *export.Exporter
	version  string
	log      *zap.Logger
}

// NewHandler creates a handler
func NewHandler(loader *scenario.Loader, cat *catalog.Catalog, version string) *Handler {
	return &Handler{
		loader:   loader,
		catalog:  cat,
		exporter: export.New(cat, "es"),
		version:  version,
		log:      logging.Named("api"),
	}
}

// Evaluate handles POST /evaluate
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req EvaluateRequest
	if !h.decode(w, r, &req) {
		return
	}

	totals, err := h.evaluate(&req.Scenario)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, &EvaluateResponse{
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC(),
		Totals:    totals,
		Metadata:  h.metadata(&req, start),
	}, http.StatusOK)
}

// Compare handles POST /compare
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req CompareRequest
	if !h.decode(w, r, &req) {
		return
	}

	results, err := h.evaluateAll(r.Context(), []scenario.Document{req.A, req.B})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	comparison, err := diff.Compare(results[0], results[1])
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, &CompareResponse{
		RequestID:  middleware.GetReqID(r.Context()),
		Timestamp:  time.Now().UTC(),
		A:          results[0],
		B:          results[1],
		Comparison: comparison,
		Metadata:   h.metadata(&req, start),
	}, http.StatusOK)
}

// Matrix handles POST /matrix
func (h *Handler) Matrix(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req MatrixRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Scenarios) == 0 {
		h.writeError(w, r, errors.Input("scenarios must not be empty"))
		return
	}

	results, err := h.evaluateAll(r.Context(), req.Scenarios)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	matrix, err := diff.Matrix(results...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, &MatrixResponse{
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC(),
		Matrix:    matrix,
		Metadata:  h.metadata(&req, start),
	}, http.StatusOK)
}

// Export handles POST /export and returns an XLSX workbook
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !h.decode(w, r, &req) {
		return
	}
	totals, err := h.evaluate(&req.Scenario)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data, err := h.exporter.ScenarioXLSX(totals)
	if err != nil {
		h.writeError(w, r, errors.Internal("failed to build workbook", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+totals.ScenarioID+".xlsx\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Catalog handles GET /catalog
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, &CatalogResponse{Categories: h.catalog.List()}, http.StatusOK)
}

func (h *Handler) evaluate(doc *scenario.Document) (*types.ScenarioTotals, error) {
	s, err := h.loader.Build(doc)
	if err != nil {
		return nil, err
	}
	return cost.Aggregate(s)
}

func (h *Handler) evaluateAll(ctx context.Context, docs []scenario.Document) ([]*types.ScenarioTotals, error) {
	scenarios := make([]*types.Scenario, len(docs))
	for i := range docs {
		s, err := h.loader.Build(&docs[i])
		if err != nil {
			return nil, err
		}
		scenarios[i] = s
	}
	return cost.AggregateAll(ctx, scenarios)
}

// decode reads a JSON body strictly; on failure it writes the error and returns false
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, errors.Parsing("invalid request body", err))
		return false
	}
	return true
}

func (h *Handler) metadata(req interface{}, start time.Time) *ResponseMetadata {
	return &ResponseMetadata{
		InputHash:     computeInputHash(req),
		EngineVersion: h.version,
		DurationMs:    time.Since(start).Milliseconds(),
	}
}

// statusFor maps domain error types to HTTP status codes
func statusFor(t errors.Type) int {
	switch t {
	case errors.TypeInvalidPricingInput, errors.TypeInvalidFactor, errors.TypeUnresolvedComparisonItem:
		return http.StatusUnprocessableEntity
	case errors.TypeInput, errors.TypeParsing:
		return http.StatusBadRequest
	case errors.TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	detail := ErrorDetail{Code: string(errors.TypeInternal), Message: err.Error()}
	if e, ok := errors.As(err); ok {
		detail = ErrorDetail{Code: string(e.Type), Message: e.Message, Context: e.Context}
	}
	status := statusFor(errors.Type(detail.Code))

	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
	} else {
		h.log.Info("request rejected", fields...)
	}

	h.writeJSON(w, &ErrorResponse{
		RequestID: middleware.GetReqID(r.Context()),
		Error:     detail,
	}, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("failed to write response", zap.Error(err))
	}
}
