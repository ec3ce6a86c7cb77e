package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"solar-capex/core/diff"
	"solar-capex/core/types"
)

// ItemsCSV writes one row per item with exact decimal strings
func (e *Exporter) ItemsCSV(w io.Writer, s *types.ScenarioTotals) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"id", "name", "category", "quantity", "unit", "unit_price", "pricing_mode", "vat_rate",
		"client_pays", "admin_factor", "contingency_factor", "profit_factor",
		"base_excl_vat", "vat_amount", "total_incl_vat", "cost_per_kwp",
	})
	for _, r := range s.Items {
		it := r.Item
		_ = cw.Write([]string{
			sanitize(it.ID), sanitize(it.Name), it.Category(),
			it.Quantity.String(), sanitize(it.Unit), it.UnitPrice.String(),
			string(it.PricingMode), it.VATRate.String(), strconv.FormatBool(it.ClientPays),
			it.Factors.Admin.String(), it.Factors.Contingency.String(), it.Factors.Profit.String(),
			r.Resolved.BaseExclVAT.String(), r.Resolved.VATAmount.String(), r.Resolved.TotalInclVAT.String(),
			r.CostPerKWp.String(),
		})
	}
	cw.Flush()
	return cw.Error()
}

// SummaryCSV writes category subtotals followed by scenario-level figures
func (e *Exporter) SummaryCSV(w io.Writer, s *types.ScenarioTotals) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"section", "key", "name", "value"})
	for _, c := range s.Categories {
		_ = cw.Write([]string{"category", c.Code, sanitize(e.catalog.DisplayName(c.Code, e.language)), c.TotalInclVAT.String()})
	}
	totals := [][2]string{
		{"direct_cost", s.DirectCost.Base.String()},
		{"markup_total", s.Markup.Total.String()},
		{"total_vat", s.TotalVAT.String()},
		{"grand_total_excl_vat", s.GrandTotalExclVAT.String()},
		{"grand_total_incl_vat", s.GrandTotalInclVAT.String()},
		{"client_total", s.Client.Base.String()},
		{"project_total", s.ProjectTotal.String()},
	}
	for _, t := range totals {
		_ = cw.Write([]string{"total", t[0], "", t[1]})
	}
	for _, name := range types.MetricNames {
		m, _ := s.Metrics.ByName(name)
		_ = cw.Write([]string{"metric", name, "", m.String()})
	}
	cw.Flush()
	return cw.Error()
}

// ComparisonCSV writes category and total deltas
func (e *Exporter) ComparisonCSV(w io.Writer, c *diff.Comparison) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"section", "key", "a", "b", "delta_abs", "delta_pct"})
	row := func(section, key string, d diff.Delta) {
		_ = cw.Write([]string{section, key, d.A.String(), d.B.String(), d.Abs.String(), d.Pct.String()})
	}
	for _, it := range c.Items {
		key := it.ID
		if key == "" {
			key = it.Name
		}
		row("item:"+it.ChangeType.String(), sanitize(key), it.TotalInclVAT)
	}
	for _, cat := range c.Categories {
		row("category", cat.Code, cat.TotalInclVAT)
	}
	for _, t := range c.Totals {
		row("total", t.Name, t.Delta)
	}
	cw.Flush()
	return cw.Error()
}
