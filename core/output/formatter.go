// Package output renders evaluations and comparisons.
// This package produces human and machine-readable outputs; it never computes costs.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"solar-capex/core/catalog"
	"solar-capex/core/diff"
	"solar-capex/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCLI, "":
		return FormatCLI, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want cli or json)", s)
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is everything one command produced. Any section may be empty.
type Report struct {
	// Scenarios are evaluated scenarios, in input order
	Scenarios []*types.ScenarioTotals `json:"scenarios,omitempty"`

	// Comparison is a B - A diff
	Comparison *diff.Comparison `json:"comparison,omitempty"`

	// Matrix is an N-scenario side-by-side view
	Matrix *diff.ComparisonMatrix `json:"matrix,omitempty"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the evaluation was performed
	Timestamp string `json:"timestamp"`

	// Duration is how long the evaluation took
	Duration string `json:"duration,omitempty"`

	// Version is the tool version
	Version string `json:"version"`

	// Source is the input file or request origin
	Source string `json:"source,omitempty"`
}

// Options tune rendering
type Options struct {
	// ShowItems adds per-item lines to evaluation and comparison tables
	ShowItems bool

	// Catalog supplies category display names; nil shows codes
	Catalog *catalog.Catalog

	// Language selects catalog names ("es" or "en")
	Language string
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry returns a registry holding the CLI and JSON formatters
func NewRegistry(opts Options) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(NewCLIFormatter(opts))
	r.Register(NewJSONFormatter(true))
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[f.Format()] = f
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// Render looks up a formatter by name and renders the report
func (r *Registry) Render(w io.Writer, format string, report *Report) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	formatter, ok := r.Get(f)
	if !ok {
		return fmt.Errorf("no formatter registered for %q", f)
	}
	return formatter.Render(w, report)
}
