// Package pricing resolves a line item's monetary subtotal and VAT split.
package pricing

import (
	"github.com/shopspring/decimal"

	"solar-capex/core/types"
	"solar-capex/core/validation"
	"solar-capex/internal/errors"
)

// Gross returns the pre-VAT-split amount for an item: price * quantity for
// UNIT, price * DC capacity for PER_CAPACITY. Quantity is ignored in the
// latter mode. An empty mode is rejected; NewLineItem defaults it to UNIT.
func Gross(item types.LineItem, vars types.ScenarioVariables) (decimal.Decimal, error) {
	switch item.PricingMode {
	case types.PricingUnit:
		return item.UnitPrice.Mul(item.Quantity), nil
	case types.PricingPerCapacity:
		if !vars.DCCapacityKWp.IsPositive() {
			return decimal.Zero, errors.InvalidPricingInput(item.ID,
				"PER_CAPACITY pricing requires a positive DC capacity").
				WithContext("dc_capacity_kwp", vars.DCCapacityKWp.String())
		}
		return item.UnitPrice.Mul(vars.DCCapacityKWp), nil
	default:
		return decimal.Zero, errors.InvalidPricingInput(item.ID, "unknown pricing mode "+string(item.PricingMode))
	}
}

// Resolve prices one item. When prices include VAT the entered gross is the
// total, the base is gross / (1 + rate/100) and VAT is the remainder, so the
// total reproduces the entered amount. Otherwise VAT is base * rate/100.
// Either way base + VAT == total holds exactly.
func Resolve(item types.LineItem, vars types.ScenarioVariables, opts types.Options) (types.ResolvedItem, error) {
	if err := validation.Item(item.ID, item); err != nil {
		return types.ResolvedItem{}, err
	}

	gross, err := Gross(item, vars)
	if err != nil {
		return types.ResolvedItem{}, err
	}

	if opts.PricesIncludeVAT {
		base := gross
		if item.VATRate.IsPositive() {
			base = gross.Div(decimal.NewFromInt(1).Add(item.VATRate.Shift(-2)))
		}
		return types.ResolvedItem{
			BaseExclVAT:  base,
			VATAmount:    gross.Sub(base),
			TotalInclVAT: gross,
		}, nil
	}

	vat := gross.Mul(item.VATRate.Shift(-2))
	return types.ResolvedItem{
		BaseExclVAT:  gross,
		VATAmount:    vat,
		TotalInclVAT: gross.Add(vat),
	}, nil
}
