// Package types - Derived evaluation results.
// Nothing here is stored; every value is rebuilt on each evaluation.
package types

import "github.com/shopspring/decimal"

// ResolvedItem is the priced form of one LineItem
type ResolvedItem struct {
	BaseExclVAT  decimal.Decimal `json:"base_excl_vat"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	TotalInclVAT decimal.Decimal `json:"total_incl_vat"`
}

// ItemResult pairs an item with its resolution
type ItemResult struct {
	Item     LineItem     `json:"item"`
	Resolved ResolvedItem `json:"resolved"`

	// CostBasis is false for client-paid items excluded from cost totals
	CostBasis bool `json:"cost_basis"`

	// CostPerKWp is total incl. VAT over DC capacity
	CostPerKWp Metric `json:"cost_per_kwp"`
}

// MarkupBreakdown is the AIU result. It is always populated; when markup is
// disabled every amount is zero.
type MarkupBreakdown struct {
	Enabled bool `json:"enabled"`

	PoolAdmin       decimal.Decimal `json:"pool_admin"`
	PoolContingency decimal.Decimal `json:"pool_contingency"`
	PoolProfit      decimal.Decimal `json:"pool_profit"`

	Admin       decimal.Decimal `json:"admin_amount"`
	Contingency decimal.Decimal `json:"contingency_amount"`
	Profit      decimal.Decimal `json:"profit_amount"`

	// Subtotal is admin + contingency + profit
	Subtotal decimal.Decimal `json:"markup_subtotal"`

	// ProfitTax is zero unless tax on profit is enabled
	ProfitTax decimal.Decimal `json:"profit_tax"`

	// Total is Subtotal + ProfitTax
	Total decimal.Decimal `json:"markup_total"`
}

// Amounts is a base / VAT / total triple
type Amounts struct {
	Base  decimal.Decimal `json:"base_excl_vat"`
	VAT   decimal.Decimal `json:"vat_amount"`
	Total decimal.Decimal `json:"total_incl_vat"`
}

// Add accumulates a resolved item
func (a Amounts) Add(r ResolvedItem) Amounts {
	return Amounts{
		Base:  a.Base.Add(r.BaseExclVAT),
		VAT:   a.VAT.Add(r.VATAmount),
		Total: a.Total.Add(r.TotalInclVAT),
	}
}

// CategoryTotal rolls up every item of one category, client-paid included
type CategoryTotal struct {
	Code         string          `json:"code"`
	BaseExclVAT  decimal.Decimal `json:"base_excl_vat"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	TotalInclVAT decimal.Decimal `json:"total_incl_vat"`
	ItemCount    int             `json:"item_count"`
}

// DerivedMetrics are unit economics over grand_total_excl_vat
type DerivedMetrics struct {
	CostPerKWp    Metric `json:"cost_per_kwp"`
	CostPerMWac   Metric `json:"cost_per_mwac"`
	CostPerMWhP50 Metric `json:"cost_per_mwh_p50"`
	CostPerMWhP90 Metric `json:"cost_per_mwh_p90"`
}

// MetricNames lists DerivedMetrics fields in presentation order
var MetricNames = []string{"cost_per_kwp", "cost_per_mwac", "cost_per_mwh_p50", "cost_per_mwh_p90"}

// ByName returns a metric by its JSON name
func (d DerivedMetrics) ByName(name string) (Metric, bool) {
	switch name {
	case "cost_per_kwp":
		return d.CostPerKWp, true
	case "cost_per_mwac":
		return d.CostPerMWac, true
	case "cost_per_mwh_p50":
		return d.CostPerMWhP50, true
	case "cost_per_mwh_p90":
		return d.CostPerMWhP90, true
	}
	return Metric{}, false
}

// ScenarioTotals is the full evaluation of one scenario
type ScenarioTotals struct {
	ScenarioID   string            `json:"scenario_id"`
	ScenarioName string            `json:"scenario_name"`
	Currency     string            `json:"currency"`
	Variables    ScenarioVariables `json:"variables"`

	// Items in input order
	Items []ItemResult `json:"items"`

	// Categories in order of first appearance
	Categories []CategoryTotal `json:"categories"`

	Markup MarkupBreakdown `json:"markup"`

	// DirectCost sums cost-basis items
	DirectCost Amounts `json:"direct_cost"`

	// Client sums client-paid items excluded from the cost basis
	Client Amounts `json:"client"`

	// TotalVAT is VAT over all items
	TotalVAT decimal.Decimal `json:"total_vat"`

	GrandTotalExclVAT decimal.Decimal `json:"grand_total_excl_vat"`
	GrandTotalInclVAT decimal.Decimal `json:"grand_total_incl_vat"`

	// ProjectTotal adds the client-paid base to GrandTotalInclVAT
	ProjectTotal decimal.Decimal `json:"project_total"`

	Metrics DerivedMetrics `json:"metrics"`
}

// Category looks up a category subtotal by code
func (t *ScenarioTotals) Category(code string) (CategoryTotal, bool) {
	for _, c := range t.Categories {
		if c.Code == code {
			return c, true
		}
	}
	return CategoryTotal{}, false
}

// CategoryCodes returns category codes in presentation order
func (t *ScenarioTotals) CategoryCodes() []string {
	codes := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		codes[i] = c.Code
	}
	return codes
}

// CategorySubtotalSum is the sum of category bases excl. VAT
func (t *ScenarioTotals) CategorySubtotalSum() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range t.Categories {
		sum = sum.Add(c.BaseExclVAT)
	}
	return sum
}
