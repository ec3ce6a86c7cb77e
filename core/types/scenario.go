// Package types - Scenario input types
package types

import (
	"strings"

	"github.com/shopspring/decimal"

	"solar-capex/core/determinism"
	"solar-capex/internal/errors"
)

// PricingMode selects how an item's gross amount is computed
type PricingMode string

const (
	// PricingUnit is unit price * quantity
	PricingUnit PricingMode = "UNIT"

	// PricingPerCapacity is unit price * DC capacity (kWp); quantity is ignored
	PricingPerCapacity PricingMode = "PER_CAPACITY"
)

// ParsePricingMode accepts the canonical names plus the legacy PER_KWP alias
func ParsePricingMode(s string) (PricingMode, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "UNIT":
		return PricingUnit, true
	case "PER_CAPACITY", "PER_KWP":
		return PricingPerCapacity, true
	}
	return "", false
}

// UncategorizedCode groups items without a category code
const UncategorizedCode = "UNCATEGORIZED"

// ScenarioVariables is the physical and financial context of a scenario
type ScenarioVariables struct {
	// DCCapacityKWp is the installed DC capacity
	DCCapacityKWp decimal.Decimal `json:"dc_capacity_kwp" validate:"nonneg"`

	// ACCapacityMW is the AC capacity
	ACCapacityMW decimal.Decimal `json:"ac_capacity_mw" validate:"nonneg"`

	// P50MWhYear is the expected yield at 50% exceedance
	P50MWhYear decimal.Decimal `json:"p50_mwh_year" validate:"nonneg"`

	// P90MWhYear is the expected yield at 90% exceedance
	P90MWhYear decimal.Decimal `json:"p90_mwh_year" validate:"nonneg"`

	// Currency is the ISO code amounts are expressed in
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`

	// FXRate is supplied by the caller and carried through untouched
	FXRate decimal.Decimal `json:"fx_rate" validate:"nonneg"`
}

// AllocationFactors are an item's weights into the three markup pools, each in [0,100].
// They are independent; they need not sum to 100.
type AllocationFactors struct {
	Admin       decimal.Decimal `json:"admin_factor" validate:"pct"`
	Contingency decimal.Decimal `json:"contingency_factor" validate:"pct"`
	Profit      decimal.Decimal `json:"profit_factor" validate:"pct"`
}

// FullFactors routes the whole item base into every pool
func FullFactors() AllocationFactors {
	return AllocationFactors{
		Admin:       determinism.Hundred,
		Contingency: determinism.Hundred,
		Profit:      determinism.Hundred,
	}
}

// NoFactors keeps the item out of every pool
func NoFactors() AllocationFactors {
	return AllocationFactors{
		Admin:       decimal.Zero,
		Contingency: decimal.Zero,
		Profit:      decimal.Zero,
	}
}

// Clamp limits every factor to [0,100]
func (f AllocationFactors) Clamp() AllocationFactors {
	return AllocationFactors{
		Admin:       determinism.ClampPercent(f.Admin),
		Contingency: determinism.ClampPercent(f.Contingency),
		Profit:      determinism.ClampPercent(f.Profit),
	}
}

// LineItem is one budget row
type LineItem struct {
	// ID is unique within a scenario, compared case-insensitively
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// CategoryCode references the caller's category catalog
	CategoryCode string `json:"category_code"`

	// Description is free text carried for reports
	Description string `json:"description,omitempty"`

	Quantity  decimal.Decimal `json:"quantity" validate:"nonneg"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"nonneg"`

	PricingMode PricingMode `json:"pricing_mode" validate:"oneof=UNIT PER_CAPACITY"`

	// VATRate is a percent in [0,100]
	VATRate decimal.Decimal `json:"vat_rate" validate:"nonneg,vatrate"`

	// ClientPays marks informational items excluded from cost totals
	ClientPays bool `json:"client_pays"`

	Factors AllocationFactors `json:"factors"`
}

// Key is the case-insensitive identity used for matching
func (i LineItem) Key() string {
	return strings.ToLower(strings.TrimSpace(i.ID))
}

// NameKey is the case-insensitive name used as a fallback for matching
func (i LineItem) NameKey() string {
	return strings.ToLower(strings.TrimSpace(i.Name))
}

// Category returns the category code, or UncategorizedCode when empty
func (i LineItem) Category() string {
	if strings.TrimSpace(i.CategoryCode) == "" {
		return UncategorizedCode
	}
	return i.CategoryCode
}

// NewLineItem builds a LineItem from a draft. Negative quantity, price or VAT
// rate is rejected; VAT rate and factors are clamped to [0,100].
func NewLineItem(draft LineItem) (LineItem, error) {
	if draft.Quantity.IsNegative() {
		return LineItem{}, errors.InvalidPricingInput(draft.ID, "quantity must not be negative")
	}
	if draft.UnitPrice.IsNegative() {
		return LineItem{}, errors.InvalidPricingInput(draft.ID, "unit price must not be negative")
	}
	if draft.VATRate.IsNegative() {
		return LineItem{}, errors.InvalidPricingInput(draft.ID, "VAT rate must not be negative")
	}

	item := draft
	if item.PricingMode == "" {
		item.PricingMode = PricingUnit
	}
	item.VATRate = determinism.ClampPercent(item.VATRate)
	item.Factors = item.Factors.Clamp()
	return item, nil
}

// BaseRule is a legacy preset for which items participate in the markup base
type BaseRule string

const (
	// RuleAllDirectCosts puts every item in every pool
	RuleAllDirectCosts BaseRule = "ALL_DIRECT_COSTS"

	// RuleExcludeClientPays leaves client-paid items out of every pool
	RuleExcludeClientPays BaseRule = "EXCLUDE_CLIENT_PAYS"

	// RuleServicesOnly leaves items in equipment categories out of every pool
	RuleServicesOnly BaseRule = "SERVICES_ONLY"
)

// ParseBaseRule parses a rule name (case-insensitive)
func ParseBaseRule(s string) (BaseRule, bool) {
	switch BaseRule(strings.ToUpper(strings.TrimSpace(s))) {
	case RuleAllDirectCosts:
		return RuleAllDirectCosts, true
	case RuleExcludeClientPays:
		return RuleExcludeClientPays, true
	case RuleServicesOnly:
		return RuleServicesOnly, true
	}
	return "", false
}

// MarkupConfig holds the scenario's AIU percentages
type MarkupConfig struct {
	// Enabled turns the whole markup calculation on
	Enabled bool `json:"enabled"`

	AdminPct       decimal.Decimal `json:"admin_pct" validate:"pct"`
	ContingencyPct decimal.Decimal `json:"contingency_pct" validate:"pct"`
	ProfitPct      decimal.Decimal `json:"profit_pct" validate:"pct"`

	// ProfitTaxEnabled taxes the profit component at ProfitTaxRate
	ProfitTaxEnabled bool            `json:"profit_tax_enabled"`
	ProfitTaxRate    decimal.Decimal `json:"profit_tax_rate" validate:"pct"`
}

// Options are scenario-wide calculation toggles
type Options struct {
	// PricesIncludeVAT means unit prices already contain VAT
	PricesIncludeVAT bool `json:"prices_include_vat"`

	// ExcludeClientPays keeps client-paid items out of cost and markup bases
	ExcludeClientPays bool `json:"exclude_client_pays"`
}

// DefaultOptions returns VAT-exclusive prices with client-paid items excluded
func DefaultOptions() Options {
	return Options{
		PricesIncludeVAT:  false,
		ExcludeClientPays: true,
	}
}

// Scenario owns its items, variables and markup configuration
type Scenario struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Variables ScenarioVariables `json:"variables"`
	Markup    MarkupConfig      `json:"markup"`
	Options   Options           `json:"options"`
	Items     []LineItem        `json:"items"`
}

// InCostBasis reports whether an item counts toward cost totals and markup pools
func (o Options) InCostBasis(item LineItem) bool {
	return !(item.ClientPays && o.ExcludeClientPays)
}
