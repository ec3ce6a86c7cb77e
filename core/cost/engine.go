// Package cost rolls resolved items and markup into scenario totals.
// Every call recomputes from its arguments; nothing is cached.
package cost

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solar-capex/core/determinism"
	"solar-capex/core/markup"
	"solar-capex/core/pricing"
	"solar-capex/core/types"
	"solar-capex/core/validation"
	"solar-capex/internal/errors"
	"solar-capex/internal/logging"
)

// Aggregate evaluates a scenario.
//
//	grand_total_excl_vat = sum(base of cost-basis items) + markup subtotal
//	grand_total_incl_vat = grand_total_excl_vat + VAT of all items + profit tax
//
// Category subtotals include every item, client-paid or not.
func Aggregate(s *types.Scenario) (*types.ScenarioTotals, error) {
	if s == nil {
		return nil, errors.Input("scenario is required")
	}
	if err := validation.Variables(s.Variables); err != nil {
		return nil, err
	}
	if err := checkUniqueIDs(s.Items); err != nil {
		return nil, err
	}

	totals := &types.ScenarioTotals{
		ScenarioID:   s.ID,
		ScenarioName: s.Name,
		Currency:     s.Variables.Currency,
		Variables:    s.Variables,
		Items:        make([]types.ItemResult, 0, len(s.Items)),
		DirectCost:   zeroAmounts(),
		Client:       zeroAmounts(),
		TotalVAT:     decimal.Zero,
	}

	categories := determinism.NewOrderedMap[string, types.CategoryTotal]()
	contribs := make([]markup.Contribution, 0, len(s.Items))

	for _, item := range s.Items {
		resolved, err := pricing.Resolve(item, s.Variables, s.Options)
		if err != nil {
			return nil, err
		}

		inBasis := s.Options.InCostBasis(item)
		totals.Items = append(totals.Items, types.ItemResult{
			Item:       item,
			Resolved:   resolved,
			CostBasis:  inBasis,
			CostPerKWp: types.Ratio(resolved.TotalInclVAT, s.Variables.DCCapacityKWp),
		})
		contribs = append(contribs, markup.Contribution{Item: item, Resolved: resolved})

		if inBasis {
			totals.DirectCost = totals.DirectCost.Add(resolved)
		} else {
			totals.Client = totals.Client.Add(resolved)
		}
		totals.TotalVAT = totals.TotalVAT.Add(resolved.VATAmount)

		code := item.Category()
		categories.Update(code, func(c types.CategoryTotal) types.CategoryTotal {
			if c.Code == "" {
				c = types.CategoryTotal{
					Code:         code,
					BaseExclVAT:  decimal.Zero,
					VATAmount:    decimal.Zero,
					TotalInclVAT: decimal.Zero,
				}
			}
			c.BaseExclVAT = c.BaseExclVAT.Add(resolved.BaseExclVAT)
			c.VATAmount = c.VATAmount.Add(resolved.VATAmount)
			c.TotalInclVAT = c.TotalInclVAT.Add(resolved.TotalInclVAT)
			c.ItemCount++
			return c
		})
	}
	totals.Categories = categories.Values()

	breakdown, err := markup.Allocate(contribs, s.Markup, s.Options)
	if err != nil {
		return nil, err
	}
	totals.Markup = breakdown

	totals.GrandTotalExclVAT = totals.DirectCost.Base.Add(breakdown.Subtotal)
	totals.GrandTotalInclVAT = determinism.Sum(totals.GrandTotalExclVAT, totals.TotalVAT, breakdown.ProfitTax)
	totals.ProjectTotal = totals.GrandTotalInclVAT.Add(totals.Client.Base)
	totals.Metrics = DeriveMetrics(totals.GrandTotalExclVAT, s.Variables)

	logging.Named("cost").Debug("scenario aggregated",
		zap.String("scenario", s.ID),
		zap.Int("items", len(totals.Items)),
		zap.Int("categories", len(totals.Categories)),
		zap.String("grand_total_excl_vat", totals.GrandTotalExclVAT.String()),
	)
	return totals, nil
}

// DeriveMetrics divides amount by each capacity/yield denominator.
// Zero denominators yield NotComputable.
func DeriveMetrics(amount decimal.Decimal, vars types.ScenarioVariables) types.DerivedMetrics {
	return types.DerivedMetrics{
		CostPerKWp:    types.Ratio(amount, vars.DCCapacityKWp),
		CostPerMWac:   types.Ratio(amount, vars.ACCapacityMW),
		CostPerMWhP50: types.Ratio(amount, vars.P50MWhYear),
		CostPerMWhP90: types.Ratio(amount, vars.P90MWhYear),
	}
}

func checkUniqueIDs(items []types.LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := item.Key()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			return errors.Newf(errors.TypeInput, "duplicate item id %q", item.ID).WithContext("item_id", item.ID)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func zeroAmounts() types.Amounts {
	return types.Amounts{Base: decimal.Zero, VAT: decimal.Zero, Total: decimal.Zero}
}
