package export

import (
	"github.com/shopspring/decimal"

	"solar-capex/core/types"
)

func (w *workbook) inputs(s *types.ScenarioTotals) error {
	if err := w.sheet(SheetInputs, 32, 24); err != nil {
		return err
	}
	v := s.Variables
	w.header(SheetInputs, 1, "Parameter", "Value")
	rows := []struct {
		label string
		value any
	}{
		{"Scenario ID", sanitize(s.ScenarioID)},
		{"Scenario", sanitize(s.ScenarioName)},
		{"Currency", s.Currency},
		{"DC capacity (kWp)", v.DCCapacityKWp.InexactFloat64()},
		{"AC capacity (MW)", v.ACCapacityMW.InexactFloat64()},
		{"P50 (MWh/year)", v.P50MWhYear.InexactFloat64()},
		{"P90 (MWh/year)", v.P90MWhYear.InexactFloat64()},
		{"FX rate", v.FXRate.InexactFloat64()},
		{"AIU enabled", s.Markup.Enabled},
	}
	for i, r := range rows {
		w.values(SheetInputs, i+2, r.label, r.value)
	}
	return w.err
}

func (w *workbook) items(s *types.ScenarioTotals) error {
	if err := w.sheet(SheetItems, 12, 32, 12, 10, 8, 14, 14, 8, 10, 10, 10, 10, 18, 16, 18, 14); err != nil {
		return err
	}
	w.header(SheetItems, 1,
		"ID", "Name", "Category", "Quantity", "Unit", "Unit price", "Pricing mode", "VAT %",
		"Client pays", "Admin %", "Contingency %", "Profit %",
		"Base excl. VAT", "VAT", "Total incl. VAT", "Cost/kWp")
	for i, r := range s.Items {
		row := i + 2
		it := r.Item
		w.values(SheetItems, row,
			sanitize(it.ID), sanitize(it.Name), it.Category(),
			it.Quantity.InexactFloat64(), sanitize(it.Unit), it.UnitPrice.InexactFloat64(),
			string(it.PricingMode), it.VATRate.InexactFloat64(), it.ClientPays,
			it.Factors.Admin.InexactFloat64(), it.Factors.Contingency.InexactFloat64(), it.Factors.Profit.InexactFloat64(),
		)
		w.money(SheetItems, row, 13, r.Resolved.BaseExclVAT, r.Resolved.VATAmount, r.Resolved.TotalInclVAT)
		w.metric(SheetItems, 16, row, r.CostPerKWp, w.styles.money)
	}
	return w.err
}

func (w *workbook) markup(s *types.ScenarioTotals) error {
	if err := w.sheet(SheetMarkup, 24, 18, 12, 18); err != nil {
		return err
	}
	m := s.Markup
	w.header(SheetMarkup, 1, "Concept", "Pool", "Percent", "Amount")
	rows := []struct {
		label  string
		pool   decimal.Decimal
		amount decimal.Decimal
	}{
		{"Administration", m.PoolAdmin, m.Admin},
		{"Contingency", m.PoolContingency, m.Contingency},
		{"Profit", m.PoolProfit, m.Profit},
	}
	for i, r := range rows {
		row := i + 2
		w.values(SheetMarkup, row, r.label)
		w.money(SheetMarkup, row, 2, r.pool)
		w.money(SheetMarkup, row, 4, r.amount)
		if !r.pool.IsZero() {
			w.metric(SheetMarkup, 3, row, types.Ratio(r.amount.Mul(decimal.NewFromInt(100)), r.pool), w.styles.pct)
		}
	}
	w.values(SheetMarkup, 5, "Subtotal")
	w.money(SheetMarkup, 5, 4, m.Subtotal)
	w.values(SheetMarkup, 6, "Tax on profit")
	w.money(SheetMarkup, 6, 4, m.ProfitTax)
	w.values(SheetMarkup, 7, "AIU total")
	w.money(SheetMarkup, 7, 4, m.Total)
	w.bold(SheetMarkup, 7)
	return w.err
}

func (w *workbook) summary(s *types.ScenarioTotals) error {
	if err := w.sheet(SheetSummary, 32, 20); err != nil {
		return err
	}
	w.header(SheetSummary, 1, "Concept", "Amount")
	amounts := []struct {
		label string
		value decimal.Decimal
	}{
		{"Direct cost (excl. VAT)", s.DirectCost.Base},
		{"AIU total", s.Markup.Total},
		{"VAT", s.TotalVAT},
		{"Grand total (excl. VAT)", s.GrandTotalExclVAT},
		{"Grand total (incl. VAT)", s.GrandTotalInclVAT},
		{"Client-supplied (excl. VAT)", s.Client.Base},
		{"Project total", s.ProjectTotal},
	}
	row := 2
	for _, a := range amounts {
		w.values(SheetSummary, row, a.label)
		w.money(SheetSummary, row, 2, a.value)
		row++
	}
	for _, name := range types.MetricNames {
		m, _ := s.Metrics.ByName(name)
		w.values(SheetSummary, row, name)
		w.metric(SheetSummary, 2, row, m, w.styles.money)
		row++
	}
	return w.err
}
