package diff

import (
	"solar-capex/core/determinism"
	"solar-capex/core/types"
	"solar-capex/internal/errors"
)

// Special matrix rows that follow the category rows
const (
	RowAIU          = "AIU"
	RowTotalProject = "TOTAL_PROJECT"
)

// Matrix overview figures, in presentation order
const (
	FigureGrandExclVAT = "grand_total_excl_vat"
	FigureGrandInclVAT = "grand_total_incl_vat"
	FigureClientTotal  = "client_total"
	FigureProjectTotal = "project_total"
	FigureCostPerKWp   = "cost_per_kwp"
	FigureDCCapacity   = "dc_capacity_kwp"
	FigureP50          = "p50_mwh_year"
)

// MatrixRow holds one value per scenario, in scenario order
type MatrixRow struct {
	Key    string         `json:"key"`
	Values []types.Metric `json:"values"`
}

// ComparisonMatrix lays N scenarios side by side
type ComparisonMatrix struct {
	Scenarios []ScenarioRef `json:"scenarios"`

	// Rows: category totals incl. VAT in first-appearance order across
	// scenarios, then AIU and TOTAL_PROJECT
	Rows []MatrixRow `json:"rows"`

	Overview []MatrixRow `json:"overview"`
}

// Row looks up a category or special row by key
func (m *ComparisonMatrix) Row(key string) (MatrixRow, bool) {
	for _, r := range m.Rows {
		if r.Key == key {
			return r, true
		}
	}
	return MatrixRow{}, false
}

// Figure looks up an overview row by name
func (m *ComparisonMatrix) Figure(name string) (MatrixRow, bool) {
	for _, r := range m.Overview {
		if r.Key == name {
			return r, true
		}
	}
	return MatrixRow{}, false
}

// Matrix builds the side-by-side view. A category missing from a
// scenario shows as zero.
func Matrix(scenarios ...*types.ScenarioTotals) (*ComparisonMatrix, error) {
	if len(scenarios) == 0 {
		return nil, errors.Input("at least one scenario is required")
	}
	codeSets := make([][]string, 0, len(scenarios))
	m := &ComparisonMatrix{Scenarios: make([]ScenarioRef, 0, len(scenarios))}
	for i, s := range scenarios {
		if s == nil {
			return nil, errors.Newf(errors.TypeInput, "scenario %d is nil", i)
		}
		m.Scenarios = append(m.Scenarios, ScenarioRef{ID: s.ScenarioID, Name: s.ScenarioName})
		codeSets = append(codeSets, s.CategoryCodes())
	}

	row := func(key string, fn func(*types.ScenarioTotals) types.Metric) MatrixRow {
		r := MatrixRow{Key: key, Values: make([]types.Metric, len(scenarios))}
		for i, s := range scenarios {
			r.Values[i] = fn(s)
		}
		return r
	}

	for _, code := range determinism.UnionKeys(codeSets...) {
		m.Rows = append(m.Rows, row(code, func(s *types.ScenarioTotals) types.Metric {
			c, _ := s.Category(code)
			return types.Computed(c.TotalInclVAT)
		}))
	}
	m.Rows = append(m.Rows,
		row(RowAIU, func(s *types.ScenarioTotals) types.Metric { return types.Computed(s.Markup.Subtotal) }),
		row(RowTotalProject, func(s *types.ScenarioTotals) types.Metric { return types.Computed(s.ProjectTotal) }),
	)

	m.Overview = []MatrixRow{
		row(FigureGrandExclVAT, func(s *types.ScenarioTotals) types.Metric { return types.Computed(s.GrandTotalExclVAT) }),
		row(FigureGrandInclVAT, func(s *types.ScenarioTotals) types.Metric { return types.Computed(s.GrandTotalInclVAT) }),
		row(FigureClientTotal, func(s *types.ScenarioTotals) types.Metric { return types.Computed(s.Client.Base) }),
		row(FigureProjectTotal, func(s *types.ScenarioTotals) types.Metric { return types.Computed(s.ProjectTotal) }),
		row(FigureCostPerKWp, func(s *types.ScenarioTotals) types.Metric { return s.Metrics.CostPerKWp }),
		row(FigureDCCapacity, func(s *types.ScenarioTotals) types.Metric { return types.Computed(s.Variables.DCCapacityKWp) }),
		row(FigureP50, func(s *types.ScenarioTotals) types.Metric { return types.Computed(s.Variables.P50MWhYear) }),
	}
	return m, nil
}
