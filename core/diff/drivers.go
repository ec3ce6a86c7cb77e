package diff

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"solar-capex/core/types"
)

// DefaultTopDrivers is the number of drivers reported when no limit is given
const DefaultTopDrivers = 30

// TopDrivers returns the items whose base excl. VAT moved the most, largest
// absolute delta first. Items without movement are left out. Ties keep
// comparison order. n <= 0 uses DefaultTopDrivers.
func (c *Comparison) TopDrivers(n int) []ItemDiff {
	if n <= 0 {
		n = DefaultTopDrivers
	}

	drivers := make([]ItemDiff, 0, len(c.Items))
	for _, it := range c.Items {
		if !it.BaseExclVAT.IsZero() {
			drivers = append(drivers, it)
		}
	}
	sort.SliceStable(drivers, func(i, j int) bool {
		return magnitude(drivers[i].BaseExclVAT).GreaterThan(magnitude(drivers[j].BaseExclVAT))
	})
	if len(drivers) > n {
		drivers = drivers[:n]
	}
	return drivers
}

func magnitude(d Delta) decimal.Decimal {
	v, _ := d.Abs.Value()
	return v.Abs()
}

// AnomalyKind names a suspicious input pattern
type AnomalyKind string

const (
	// AnomalyZeroPrice is a priced line with quantity but no unit price
	AnomalyZeroPrice AnomalyKind = "zero_price"
	// AnomalyUnusualVAT is a VAT rate above MaxUsualVATRate
	AnomalyUnusualVAT AnomalyKind = "vat_unusual"
)

// MaxUsualVATRate is the highest VAT rate not reported as unusual
var MaxUsualVATRate = decimal.NewFromInt(25)

// Anomaly is one suspicious item input
type Anomaly struct {
	Kind     AnomalyKind `json:"kind"`
	Scenario string      `json:"scenario"` // "A" or "B"
	ItemID   string      `json:"item_id"`
	ItemName string      `json:"item_name"`
	Detail   string      `json:"detail"`
}

// Anomalies scans the items of both scenarios, A first, in item order.
// Anomalies never fail an evaluation; they are reported for review.
func Anomalies(a, b *types.ScenarioTotals) []Anomaly {
	var out []Anomaly
	for _, side := range []struct {
		label  string
		totals *types.ScenarioTotals
	}{{"A", a}, {"B", b}} {
		if side.totals == nil {
			continue
		}
		for _, r := range side.totals.Items {
			out = append(out, itemAnomalies(side.label, r.Item)...)
		}
	}
	return out
}

func itemAnomalies(label string, item types.LineItem) []Anomaly {
	var out []Anomaly
	add := func(kind AnomalyKind, detail string) {
		out = append(out, Anomaly{
			Kind:     kind,
			Scenario: label,
			ItemID:   item.ID,
			ItemName: item.Name,
			Detail:   detail,
		})
	}

	if item.VATRate.IsNegative() || item.VATRate.GreaterThan(MaxUsualVATRate) {
		add(AnomalyUnusualVAT, fmt.Sprintf("VAT rate %s%% is outside 0-%s%%", item.VATRate, MaxUsualVATRate))
	}
	if item.UnitPrice.IsZero() && item.Quantity.IsPositive() {
		add(AnomalyZeroPrice, fmt.Sprintf("unit price is zero for quantity %s", item.Quantity))
	}
	return out
}
