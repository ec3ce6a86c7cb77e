package output

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"solar-capex/core/types"
)

// Money renders an amount with thousands separators and two decimals
func Money(v decimal.Decimal) string {
	rounded := v.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	whole := rounded.Truncate(0)
	frac := rounded.Sub(whole).StringFixed(2)[1:]
	return sign + humanize.BigComma(whole.BigInt()) + frac
}

// Percent renders a percentage with one decimal
func Percent(v decimal.Decimal) string {
	return v.StringFixed(1) + "%"
}

// MetricMoney renders a metric amount or its marker
func MetricMoney(m types.Metric) string {
	if v, ok := m.Value(); ok {
		return Money(v)
	}
	return markerLabel(m)
}

// MetricPercent renders a metric percentage or its marker
func MetricPercent(m types.Metric) string {
	if v, ok := m.Value(); ok {
		return Percent(v)
	}
	return markerLabel(m)
}

// SignedMoney renders a delta with an explicit sign
func SignedMoney(m types.Metric) string {
	v, ok := m.Value()
	if !ok {
		return markerLabel(m)
	}
	if v.Round(2).IsPositive() {
		return "+" + Money(v)
	}
	return Money(v)
}

func markerLabel(m types.Metric) string {
	if m.State() == types.MetricNotApplicable {
		return "N/A"
	}
	return "not computable"
}
