// Package api - Request and response types
package api

import (
	"time"

	"solar-capex/adapters/scenario"
	"solar-capex/core/catalog"
	"solar-capex/core/diff"
	"solar-capex/core/types"
)

// EvaluateRequest is the input for POST /evaluate and POST /export
type EvaluateRequest struct {
	Scenario scenario.Document `json:"scenario"`
}

// EvaluateResponse carries one evaluated scenario
type EvaluateResponse struct {
	RequestID string                `json:"request_id"`
	Timestamp time.Time             `json:"timestamp"`
	Totals    *types.ScenarioTotals `json:"totals"`
	Metadata  *ResponseMetadata     `json:"metadata,omitempty"`
}

// CompareRequest is the input for POST /compare. The diff is B minus A.
type CompareRequest struct {
	A scenario.Document `json:"a"`
	B scenario.Document `json:"b"`
}

// CompareResponse carries both evaluations and their diff
type CompareResponse struct {
	RequestID  string                `json:"request_id"`
	Timestamp  time.Time             `json:"timestamp"`
	A          *types.ScenarioTotals `json:"a"`
	B          *types.ScenarioTotals `json:"b"`
	Comparison *diff.Comparison      `json:"comparison"`
	Metadata   *ResponseMetadata     `json:"metadata,omitempty"`
}

// MatrixRequest is the input for POST /matrix
type MatrixRequest struct {
	Scenarios []scenario.Document `json:"scenarios"`
}

// MatrixResponse carries the side-by-side view
type MatrixResponse struct {
	RequestID string                 `json:"request_id"`
	Timestamp time.Time              `json:"timestamp"`
	Matrix    *diff.ComparisonMatrix `json:"matrix"`
	Metadata  *ResponseMetadata      `json:"metadata,omitempty"`
}

// CatalogResponse lists the category catalog
type CatalogResponse struct {
	Categories []catalog.Category `json:"categories"`
}

// ResponseMetadata describes how a response was produced
type ResponseMetadata struct {
	InputHash     string `json:"input_hash"`
	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	RequestID string      `json:"request_id,omitempty"`
	Error     ErrorDetail `json:"error"`
}

// ErrorDetail describes an error
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
