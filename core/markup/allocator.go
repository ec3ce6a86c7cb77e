// Package markup computes the AIU markup (Administration, Contingency,
// Profit) from per-item weighted pools.
package markup

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solar-capex/core/determinism"
	"solar-capex/core/types"
	"solar-capex/core/validation"
	"solar-capex/internal/logging"
)

// Contribution is one resolved item offered to the pools
type Contribution struct {
	Item     types.LineItem
	Resolved types.ResolvedItem
}

// Pools are the three weighted bases
type Pools struct {
	Admin       decimal.Decimal
	Contingency decimal.Decimal
	Profit      decimal.Decimal
}

// BuildPools accumulates base_excl_vat * factor/100 per pool, in input order.
// Items outside the cost basis contribute nothing.
func BuildPools(contribs []Contribution, opts types.Options) (Pools, error) {
	pools := Pools{Admin: decimal.Zero, Contingency: decimal.Zero, Profit: decimal.Zero}
	for _, c := range contribs {
		if err := validation.Percentages(c.Item.Factors); err != nil {
			return Pools{}, err
		}
		if !opts.InCostBasis(c.Item) {
			continue
		}
		base := c.Resolved.BaseExclVAT
		pools.Admin = pools.Admin.Add(determinism.Percent(base, c.Item.Factors.Admin))
		pools.Contingency = pools.Contingency.Add(determinism.Percent(base, c.Item.Factors.Contingency))
		pools.Profit = pools.Profit.Add(determinism.Percent(base, c.Item.Factors.Profit))
	}
	return pools, nil
}

// Allocate computes the markup breakdown. A disabled config still returns a
// breakdown, with every amount zero.
func Allocate(contribs []Contribution, cfg types.MarkupConfig, opts types.Options) (types.MarkupBreakdown, error) {
	if err := validation.Percentages(cfg); err != nil {
		return types.MarkupBreakdown{}, err
	}

	pools, err := BuildPools(contribs, opts)
	if err != nil {
		return types.MarkupBreakdown{}, err
	}

	if !cfg.Enabled {
		return zeroBreakdown(), nil
	}

	b := types.MarkupBreakdown{
		Enabled:         true,
		PoolAdmin:       pools.Admin,
		PoolContingency: pools.Contingency,
		PoolProfit:      pools.Profit,
		Admin:           determinism.Percent(pools.Admin, cfg.AdminPct),
		Contingency:     determinism.Percent(pools.Contingency, cfg.ContingencyPct),
		Profit:          determinism.Percent(pools.Profit, cfg.ProfitPct),
		ProfitTax:       decimal.Zero,
	}
	b.Subtotal = determinism.Sum(b.Admin, b.Contingency, b.Profit)
	if cfg.ProfitTaxEnabled {
		b.ProfitTax = determinism.Percent(b.Profit, cfg.ProfitTaxRate)
	}
	b.Total = b.Subtotal.Add(b.ProfitTax)

	logging.Named("markup").Debug("markup allocated",
		zap.Int("items", len(contribs)),
		zap.String("pool_admin", pools.Admin.String()),
		zap.String("pool_contingency", pools.Contingency.String()),
		zap.String("pool_profit", pools.Profit.String()),
		zap.String("markup_total", b.Total.String()),
	)
	return b, nil
}

func zeroBreakdown() types.MarkupBreakdown {
	return types.MarkupBreakdown{
		Enabled:         false,
		PoolAdmin:       decimal.Zero,
		PoolContingency: decimal.Zero,
		PoolProfit:      decimal.Zero,
		Admin:           decimal.Zero,
		Contingency:     decimal.Zero,
		Profit:          decimal.Zero,
		Subtotal:        decimal.Zero,
		ProfitTax:       decimal.Zero,
		Total:           decimal.Zero,
	}
}
