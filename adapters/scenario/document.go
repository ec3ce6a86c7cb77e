// Package scenario decodes scenario files into engine scenarios.
// JSON and HCL documents share one shape; defaults come from configuration.
package scenario

import "github.com/shopspring/decimal"

// Document is the on-disk and over-the-wire form of a scenario. Numeric
// fields accept JSON numbers or strings; absent fields take defaults.
type Document struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Variables VariablesDocument `json:"variables"`
	Markup    MarkupDocument    `json:"markup"`
	Options   OptionsDocument   `json:"options"`
	Items     []ItemDocument    `json:"items"`
}

// VariablesDocument carries project capacity and yield
type VariablesDocument struct {
	DCCapacityKWp decimal.NullDecimal `json:"dc_capacity_kwp"`
	ACCapacityMW  decimal.NullDecimal `json:"ac_capacity_mw"`
	P50MWhYear    decimal.NullDecimal `json:"p50_mwh_year"`
	P90MWhYear    decimal.NullDecimal `json:"p90_mwh_year"`
	Currency      string              `json:"currency"`
	FXRate        decimal.NullDecimal `json:"fx_rate"`
}

// MarkupDocument carries AIU percentages and the optional base-rule preset
type MarkupDocument struct {
	Enabled          bool                `json:"enabled"`
	AdminPct         decimal.NullDecimal `json:"admin_pct"`
	ContingencyPct   decimal.NullDecimal `json:"contingency_pct"`
	ProfitPct        decimal.NullDecimal `json:"profit_pct"`
	ProfitTaxEnabled bool                `json:"profit_tax_enabled"`
	ProfitTaxRate    decimal.NullDecimal `json:"profit_tax_rate"`

	// BaseRule assigns factors to items that do not set their own
	BaseRule string `json:"base_rule,omitempty"`
}

// OptionsDocument overrides the configured calculation toggles
type OptionsDocument struct {
	PricesIncludeVAT  *bool `json:"prices_include_vat,omitempty"`
	ExcludeClientPays *bool `json:"exclude_client_pays,omitempty"`
}

// ItemDocument is one budget line
type ItemDocument struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Description string              `json:"description,omitempty"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	Unit        string              `json:"unit,omitempty"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
	PricingMode string              `json:"pricing_mode,omitempty"`
	VATRate     decimal.NullDecimal `json:"vat_rate"`
	ClientPays  bool                `json:"client_pays"`

	AdminFactor       decimal.NullDecimal `json:"admin_factor"`
	ContingencyFactor decimal.NullDecimal `json:"contingency_factor"`
	ProfitFactor      decimal.NullDecimal `json:"profit_factor"`
}

// HasFactors reports whether the item sets any allocation factor itself
func (d ItemDocument) HasFactors() bool {
	return d.AdminFactor.Valid || d.ContingencyFactor.Valid || d.ProfitFactor.Valid
}
