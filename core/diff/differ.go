// Package diff compares evaluated scenarios.
// Compare aligns two scenarios item by item; Matrix lays N side by side.
package diff

import (
	"go.uber.org/zap"

	"solar-capex/core/determinism"
	"solar-capex/core/types"
	"solar-capex/internal/errors"
	"solar-capex/internal/logging"
)

// ChangeType indicates how an item moved between scenarios
type ChangeType int

const (
	ChangeAdded     ChangeType = iota // only in B
	ChangeRemoved                     // only in A
	ChangeModified                    // matched, some value differs
	ChangeUnchanged                   // matched, identical values
)

// String returns the change type name
func (c ChangeType) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	case ChangeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// MarshalText renders the change type by name
func (c ChangeType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// MatchRule records how a pair of items was aligned
type MatchRule string

const (
	MatchByID   MatchRule = "id"
	MatchByName MatchRule = "name"
	MatchNone   MatchRule = ""
)

// ScenarioRef identifies one side of a comparison
type ScenarioRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemDiff is the comparison of one aligned item
type ItemDiff struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	ChangeType ChangeType `json:"change"`
	MatchedBy  MatchRule  `json:"matched_by,omitempty"`

	// Changes flags which inputs differ between the two sides
	Changes ItemChanges `json:"changes"`

	BaseExclVAT  Delta `json:"base_excl_vat"`
	VATAmount    Delta `json:"vat_amount"`
	TotalInclVAT Delta `json:"total_incl_vat"`
}

// ItemChanges records which item inputs changed. An added or removed item
// counts as a quantity and price change.
type ItemChanges struct {
	Quantity  bool `json:"quantity"`
	UnitPrice bool `json:"unit_price"`
	VATRate   bool `json:"vat_rate"`
}

// CategoryDiff compares one category subtotal; an absent side counts as zero
type CategoryDiff struct {
	Code         string `json:"code"`
	BaseExclVAT  Delta  `json:"base_excl_vat"`
	TotalInclVAT Delta  `json:"total_incl_vat"`
}

// TotalDiff compares one named scenario-level figure
type TotalDiff struct {
	Name  string `json:"name"`
	Delta Delta  `json:"delta"`
}

// Comparison is the full B - A diff of two scenarios
type Comparison struct {
	A ScenarioRef `json:"a"`
	B ScenarioRef `json:"b"`

	// Items: A order (matched and removed), then added items in B order
	Items []ItemDiff `json:"items"`

	// Categories: A order, then categories only in B
	Categories []CategoryDiff `json:"categories"`

	Totals []TotalDiff `json:"totals"`

	AddedCount     int `json:"added_count"`
	RemovedCount   int `json:"removed_count"`
	ModifiedCount  int `json:"modified_count"`
	UnchangedCount int `json:"unchanged_count"`

	// Anomalies are suspicious inputs found on either side
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

// Total names, in presentation order. Derived metrics follow.
const (
	TotalGrandExclVAT = "grand_total_excl_vat"
	TotalGrandInclVAT = "grand_total_incl_vat"
	TotalMarkup       = "markup_total"
	TotalVAT          = "total_vat"
	TotalClient       = "client_total"
	TotalProject      = "project_total"
)

// Total looks up a total-level delta by name
func (c *Comparison) Total(name string) (Delta, bool) {
	for _, t := range c.Totals {
		if t.Name == name {
			return t.Delta, true
		}
	}
	return Delta{}, false
}

// Item looks up an item diff by identifier, case-insensitively
func (c *Comparison) Item(id string) (ItemDiff, bool) {
	key := types.LineItem{ID: id}.Key()
	for _, it := range c.Items {
		if (types.LineItem{ID: it.ID}).Key() == key {
			return it, true
		}
	}
	return ItemDiff{}, false
}

// Compare diffs two evaluated scenarios, B minus A
func Compare(a, b *types.ScenarioTotals) (*Comparison, error) {
	if a == nil || b == nil {
		return nil, errors.Input("both scenarios are required for a comparison")
	}

	pairs, err := align(a.Items, b.Items)
	if err != nil {
		return nil, err
	}

	result := &Comparison{
		A:     ScenarioRef{ID: a.ScenarioID, Name: a.ScenarioName},
		B:     ScenarioRef{ID: b.ScenarioID, Name: b.ScenarioName},
		Items: make([]ItemDiff, 0, len(pairs)),
	}

	for _, p := range pairs {
		d := itemDiff(p)
		switch d.ChangeType {
		case ChangeAdded:
			result.AddedCount++
		case ChangeRemoved:
			result.RemovedCount++
		case ChangeModified:
			result.ModifiedCount++
		case ChangeUnchanged:
			result.UnchangedCount++
		}
		result.Items = append(result.Items, d)
	}

	result.Categories = compareCategories(a, b)
	result.Totals = compareTotals(a, b)
	result.Anomalies = Anomalies(a, b)

	logging.Named("diff").Debug("scenarios compared",
		zap.String("a", a.ScenarioID),
		zap.String("b", b.ScenarioID),
		zap.Int("added", result.AddedCount),
		zap.Int("removed", result.RemovedCount),
		zap.Int("modified", result.ModifiedCount),
		zap.Int("anomalies", len(result.Anomalies)),
	)
	return result, nil
}

func itemDiff(p pair) ItemDiff {
	ref := p.a
	if ref == nil {
		ref = p.b
	}
	d := ItemDiff{
		ID:        ref.Item.ID,
		Name:      ref.Item.Name,
		Category:  ref.Item.Category(),
		MatchedBy: p.rule,
	}

	var ra, rb types.ResolvedItem
	if p.a != nil {
		ra = p.a.Resolved
	}
	if p.b != nil {
		rb = p.b.Resolved
	}
	d.BaseExclVAT = Amounts(ra.BaseExclVAT, rb.BaseExclVAT)
	d.VATAmount = Amounts(ra.VATAmount, rb.VATAmount)
	d.TotalInclVAT = Amounts(ra.TotalInclVAT, rb.TotalInclVAT)

	switch {
	case p.a == nil || p.b == nil:
		d.Changes = ItemChanges{Quantity: true, UnitPrice: true}
	default:
		ia, ib := p.a.Item, p.b.Item
		d.Changes = ItemChanges{
			Quantity:  !ia.Quantity.Equal(ib.Quantity),
			UnitPrice: !ia.UnitPrice.Equal(ib.UnitPrice),
			VATRate:   !ia.VATRate.Equal(ib.VATRate),
		}
	}

	switch {
	case p.a == nil:
		d.ChangeType = ChangeAdded
	case p.b == nil:
		d.ChangeType = ChangeRemoved
	case d.BaseExclVAT.IsZero() && d.VATAmount.IsZero() && d.TotalInclVAT.IsZero():
		d.ChangeType = ChangeUnchanged
	default:
		d.ChangeType = ChangeModified
	}
	return d
}

func compareCategories(a, b *types.ScenarioTotals) []CategoryDiff {
	codes := determinism.UnionKeys(a.CategoryCodes(), b.CategoryCodes())
	out := make([]CategoryDiff, 0, len(codes))
	for _, code := range codes {
		ca, _ := a.Category(code)
		cb, _ := b.Category(code)
		out = append(out, CategoryDiff{
			Code:         code,
			BaseExclVAT:  Amounts(ca.BaseExclVAT, cb.BaseExclVAT),
			TotalInclVAT: Amounts(ca.TotalInclVAT, cb.TotalInclVAT),
		})
	}
	return out
}

func compareTotals(a, b *types.ScenarioTotals) []TotalDiff {
	out := []TotalDiff{
		{Name: TotalGrandExclVAT, Delta: Amounts(a.GrandTotalExclVAT, b.GrandTotalExclVAT)},
		{Name: TotalGrandInclVAT, Delta: Amounts(a.GrandTotalInclVAT, b.GrandTotalInclVAT)},
		{Name: TotalMarkup, Delta: Amounts(a.Markup.Total, b.Markup.Total)},
		{Name: TotalVAT, Delta: Amounts(a.TotalVAT, b.TotalVAT)},
		{Name: TotalClient, Delta: Amounts(a.Client.Base, b.Client.Base)},
		{Name: TotalProject, Delta: Amounts(a.ProjectTotal, b.ProjectTotal)},
	}
	for _, name := range types.MetricNames {
		ma, _ := a.Metrics.ByName(name)
		mb, _ := b.Metrics.ByName(name)
		out = append(out, TotalDiff{Name: name, Delta: Between(ma, mb)})
	}
	return out
}
