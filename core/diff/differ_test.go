package diff

import (
	"testing"

	"github.com/shopspring/decimal"

	"solar-capex/core/cost"
	"solar-capex/core/types"
	"solar-capex/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(id, name, cat, qty, price string) types.LineItem {
	return types.LineItem{
		ID:           id,
		Name:         name,
		CategoryCode: cat,
		Quantity:     d(qty),
		UnitPrice:    d(price),
		PricingMode:  types.PricingUnit,
		VATRate:      d("19"),
		Factors:      types.FullFactors(),
	}
}

func evaluate(t *testing.T, id string, dc string, items ...types.LineItem) *types.ScenarioTotals {
	t.Helper()
	s := &types.Scenario{
		ID:   id,
		Name: id,
		Variables: types.ScenarioVariables{
			DCCapacityKWp: d(dc),
			ACCapacityMW:  d("0.8"),
			P50MWhYear:    d("1600"),
			P90MWhYear:    d("1450"),
			Currency:      "COP",
		},
		Markup: types.MarkupConfig{
			Enabled:        true,
			AdminPct:       d("5"),
			ContingencyPct: d("3"),
			ProfitPct:      d("8"),
		},
		Options: types.DefaultOptions(),
		Items:   items,
	}
	totals, err := cost.Aggregate(s)
	if err != nil {
		t.Fatalf("Aggregate(%s) failed: %v", id, err)
	}
	return totals
}

func scenarioPair(t *testing.T) (*types.ScenarioTotals, *types.ScenarioTotals) {
	a := evaluate(t, "a", "1000",
		item("PAN-01", "Paneles", "PV-MOD", "1000", "1.20"),
		item("INV-01", "Inversor", "PV-INV", "2", "150"),
		item("", "Cerramiento", "PV-CIV", "1", "80"),
		item("OLD-01", "Legacy", "PV-CIV", "1", "10"),
	)
	b := evaluate(t, "b", "1000",
		item("pan-01", "Paneles", "PV-MOD", "1000", "1.10"),
		item("INV-01", "Inversor", "PV-INV", "2", "150"),
		item("CER-99", "cerramiento", "PV-CIV", "1", "100"),
		item("SUB-01", "Subestacion", "PV-SUB", "1", "500"),
	)
	return a, b
}

func TestCompareAlignment(t *testing.T) {
	a, b := scenarioPair(t)
	c, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if c.AddedCount != 1 || c.RemovedCount != 1 || c.ModifiedCount != 2 || c.UnchangedCount != 1 {
		t.Errorf("unexpected counts: +%d -%d ~%d =%d", c.AddedCount, c.RemovedCount, c.ModifiedCount, c.UnchangedCount)
	}

	want := []struct {
		id     string
		change ChangeType
		rule   MatchRule
	}{
		{"PAN-01", ChangeModified, MatchByID},
		{"INV-01", ChangeUnchanged, MatchByID},
		{"", ChangeModified, MatchByName},
		{"OLD-01", ChangeRemoved, MatchNone},
		{"SUB-01", ChangeAdded, MatchNone},
	}
	if len(c.Items) != len(want) {
		t.Fatalf("expected %d item diffs, got %d", len(want), len(c.Items))
	}
	for i, w := range want {
		got := c.Items[i]
		if got.ID != w.id || got.ChangeType != w.change || got.MatchedBy != w.rule {
			t.Errorf("item %d: expected %s/%s/%q, got %s/%s/%q",
				i, w.id, w.change, w.rule, got.ID, got.ChangeType, got.MatchedBy)
		}
	}

	pan, _ := c.Item("pan-01")
	abs, _ := pan.BaseExclVAT.Abs.Value()
	pct, _ := pan.BaseExclVAT.Pct.Value()
	if !abs.Equal(d("-100")) {
		t.Errorf("expected base delta -100, got %s", abs)
	}
	if !pct.Round(6).Equal(d("-8.333333")) {
		t.Errorf("expected base pct -8.333333, got %s", pct)
	}
}

func TestCompareAddedAndRemovedPercentages(t *testing.T) {
	a, b := scenarioPair(t)
	c, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	added, _ := c.Item("SUB-01")
	if added.TotalInclVAT.Pct.State() != types.MetricNotApplicable {
		t.Errorf("added item pct should be N/A, got %s", added.TotalInclVAT.Pct)
	}
	if v, _ := added.BaseExclVAT.Abs.Value(); !v.Equal(d("500")) {
		t.Errorf("added item delta should be its full base, got %s", v)
	}

	removed, _ := c.Item("OLD-01")
	if v, _ := removed.BaseExclVAT.Pct.Value(); !v.Equal(d("-100")) {
		t.Errorf("removed item pct should be -100, got %s", removed.BaseExclVAT.Pct)
	}

	sub := findCategory(t, c, "PV-SUB")
	if sub.BaseExclVAT.Pct.State() != types.MetricNotApplicable {
		t.Errorf("category only in B should have N/A pct, got %s", sub.BaseExclVAT.Pct)
	}
}

func TestCompareSymmetry(t *testing.T) {
	a, b := scenarioPair(t)
	ab, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare(a,b) failed: %v", err)
	}
	ba, err := Compare(b, a)
	if err != nil {
		t.Fatalf("Compare(b,a) failed: %v", err)
	}

	for _, total := range ab.Totals {
		rev, ok := ba.Total(total.Name)
		if !ok {
			t.Fatalf("missing total %s in reverse diff", total.Name)
		}
		if !total.Delta.Abs.Equal(rev.Abs.Neg()) {
			t.Errorf("%s: %s is not the negation of %s", total.Name, total.Delta.Abs, rev.Abs)
		}
	}
	for _, cat := range ab.Categories {
		rev := findCategory(t, ba, cat.Code)
		if !cat.TotalInclVAT.Abs.Equal(rev.TotalInclVAT.Abs.Neg()) {
			t.Errorf("category %s not antisymmetric", cat.Code)
		}
	}
	if ab.AddedCount != ba.RemovedCount || ab.RemovedCount != ba.AddedCount {
		t.Error("added and removed should swap when sides are swapped")
	}
}

func TestCompareSelfIsZero(t *testing.T) {
	a, _ := scenarioPair(t)
	c, err := Compare(a, a)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if c.AddedCount != 0 || c.RemovedCount != 0 || c.ModifiedCount != 0 {
		t.Errorf("self diff should have no changes: %+v", c)
	}
	for _, it := range c.Items {
		if !it.TotalInclVAT.IsZero() {
			t.Errorf("item %s has non-zero delta", it.ID)
		}
	}
	for _, total := range c.Totals {
		if !total.Delta.IsZero() {
			t.Errorf("total %s has non-zero delta %s", total.Name, total.Delta.Abs)
		}
	}
}

func TestCompareNotComputablePropagates(t *testing.T) {
	a := evaluate(t, "a", "0", item("PAN-01", "Paneles", "PV-MOD", "1000", "1.20"))
	b := evaluate(t, "b", "1000", item("PAN-01", "Paneles", "PV-MOD", "1000", "1.20"))

	c, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	perKWp, ok := c.Total("cost_per_kwp")
	if !ok {
		t.Fatal("missing cost_per_kwp delta")
	}
	if perKWp.Abs.State() != types.MetricNotComputable || perKWp.Pct.State() != types.MetricNotComputable {
		t.Errorf("expected NotComputable delta, got %s / %s", perKWp.Abs, perKWp.Pct)
	}
	grand, _ := c.Total(TotalGrandExclVAT)
	if !grand.IsZero() {
		t.Errorf("grand total should still compare, got %s", grand.Abs)
	}
}

func TestBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Metric
		abs  types.Metric
		pct  types.Metric
	}{
		{"increase", types.Computed(d("200")), types.Computed(d("250")), types.Computed(d("50")), types.Computed(d("25"))},
		{"both zero", types.Computed(d("0")), types.Computed(d("0")), types.Computed(d("0")), types.Computed(d("0"))},
		{"from zero", types.Computed(d("0")), types.Computed(d("5")), types.Computed(d("5")), types.NotApplicable()},
		{"to zero", types.Computed(d("5")), types.Computed(d("0")), types.Computed(d("-5")), types.Computed(d("-100"))},
		{"not computable", types.NotComputable(), types.Computed(d("5")), types.NotComputable(), types.NotComputable()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Between(tt.a, tt.b)
			if !got.Abs.Equal(tt.abs) {
				t.Errorf("abs: expected %s, got %s", tt.abs, got.Abs)
			}
			if !got.Pct.Equal(tt.pct) {
				t.Errorf("pct: expected %s, got %s", tt.pct, got.Pct)
			}
		})
	}
}

func TestCompareDuplicateIDs(t *testing.T) {
	a := evaluate(t, "a", "1000", item("PAN-01", "Paneles", "PV-MOD", "1", "1"))
	b := &types.ScenarioTotals{
		ScenarioID: "b",
		Items: []types.ItemResult{
			{Item: item("X", "x", "PV-MOD", "1", "1")},
			{Item: item("x", "y", "PV-MOD", "1", "1")},
		},
	}
	_, err := Compare(a, b)
	if !errors.IsType(err, errors.TypeUnresolvedComparisonItem) {
		t.Fatalf("expected UNRESOLVED_COMPARISON_ITEM, got %v", err)
	}
}

func TestMatrix(t *testing.T) {
	a, b := scenarioPair(t)
	c := evaluate(t, "c", "0", item("ESS-01", "Baterias", "PV-ESS", "1", "900"))

	m, err := Matrix(a, b, c)
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	var keys []string
	for _, r := range m.Rows {
		keys = append(keys, r.Key)
	}
	want := []string{"PV-MOD", "PV-INV", "PV-CIV", "PV-SUB", "PV-ESS", RowAIU, RowTotalProject}
	if len(keys) != len(want) {
		t.Fatalf("expected rows %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], keys[i])
		}
	}

	sub, _ := m.Row("PV-SUB")
	if v, _ := sub.Values[0].Value(); !v.IsZero() {
		t.Errorf("missing category should show zero, got %s", v)
	}
	total, _ := m.Row(RowTotalProject)
	if v, _ := total.Values[1].Value(); !v.Equal(b.ProjectTotal) {
		t.Errorf("expected project total %s, got %s", b.ProjectTotal, v)
	}
	perKWp, _ := m.Figure(FigureCostPerKWp)
	if perKWp.Values[2].IsComputed() {
		t.Error("cost/kWp should be NotComputable for zero capacity")
	}

	if _, err := Matrix(); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR for empty matrix, got %v", err)
	}
}

func TestMatrixAIUExcludesProfitTax(t *testing.T) {
	s := &types.Scenario{
		ID:        "taxed",
		Name:      "taxed",
		Variables: types.ScenarioVariables{DCCapacityKWp: d("1000")},
		Markup: types.MarkupConfig{
			Enabled:          true,
			AdminPct:         d("5"),
			ContingencyPct:   d("3"),
			ProfitPct:        d("8"),
			ProfitTaxEnabled: true,
			ProfitTaxRate:    d("19"),
		},
		Options: types.DefaultOptions(),
		Items:   []types.LineItem{item("PAN-01", "Paneles", "PV-MOD", "1000", "1.20")},
	}
	totals, err := cost.Aggregate(s)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	m, err := Matrix(totals)
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	aiu, _ := m.Row(RowAIU)
	v, _ := aiu.Values[0].Value()
	if !v.Equal(d("192")) {
		t.Errorf("AIU row = %s, want 192 (profit tax %s reported separately)", v, totals.Markup.ProfitTax)
	}
}

func findCategory(t *testing.T, c *Comparison, code string) CategoryDiff {
	t.Helper()
	for _, cat := range c.Categories {
		if cat.Code == code {
			return cat
		}
	}
	t.Fatalf("category %s not found", code)
	return CategoryDiff{}
}

func TestCompareChangeFlags(t *testing.T) {
	a, b := scenarioPair(t)
	c, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	tests := []struct {
		id   string
		want ItemChanges
	}{
		{"PAN-01", ItemChanges{UnitPrice: true}},
		{"INV-01", ItemChanges{}},
		{"SUB-01", ItemChanges{Quantity: true, UnitPrice: true}},
		{"OLD-01", ItemChanges{Quantity: true, UnitPrice: true}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			it, ok := c.Item(tt.id)
			if !ok {
				t.Fatalf("item %s missing", tt.id)
			}
			if it.Changes != tt.want {
				t.Errorf("Changes = %+v, want %+v", it.Changes, tt.want)
			}
		})
	}

	vatA := evaluate(t, "a", "1000", item("X", "x", "PV-MOD", "1", "10"))
	changed := item("X", "x", "PV-MOD", "1", "10")
	changed.VATRate = d("5")
	vatB := evaluate(t, "b", "1000", changed)
	vc, err := Compare(vatA, vatB)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if got := vc.Items[0].Changes; !got.VATRate || got.Quantity || got.UnitPrice {
		t.Errorf("VAT-only change flagged as %+v", got)
	}
}

func TestTopDrivers(t *testing.T) {
	a, b := scenarioPair(t)
	c, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	all := c.TopDrivers(0)
	wantOrder := []string{"SUB-01", "PAN-01", "", "OLD-01"}
	if len(all) != len(wantOrder) {
		t.Fatalf("got %d drivers, want %d (unchanged items are left out)", len(all), len(wantOrder))
	}
	for i, id := range wantOrder {
		if id == "" {
			if all[i].Name != "Cerramiento" {
				t.Errorf("driver %d = %q, want Cerramiento", i, all[i].Name)
			}
			continue
		}
		if all[i].ID != id {
			t.Errorf("driver %d = %s, want %s", i, all[i].ID, id)
		}
	}

	top := c.TopDrivers(2)
	if len(top) != 2 || top[0].ID != "SUB-01" || top[1].ID != "PAN-01" {
		t.Errorf("TopDrivers(2) = %v", top)
	}
}

func TestAnomalies(t *testing.T) {
	free := item("FREE-01", "Cable donado", "PV-EBOS", "3", "0")
	taxed := item("TAX-01", "Servicio", "PV-ENG", "1", "50")
	taxed.VATRate = d("30")

	a := evaluate(t, "a", "1000", item("PAN-01", "Paneles", "PV-MOD", "1000", "1.20"), free)
	b := evaluate(t, "b", "1000", item("PAN-01", "Paneles", "PV-MOD", "1000", "1.20"), taxed)

	got := Anomalies(a, b)
	want := []struct {
		kind     AnomalyKind
		scenario string
		id       string
	}{
		{AnomalyZeroPrice, "A", "FREE-01"},
		{AnomalyUnusualVAT, "B", "TAX-01"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d anomalies, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Scenario != w.scenario || got[i].ItemID != w.id {
			t.Errorf("anomaly %d = %+v, want %s/%s/%s", i, got[i], w.kind, w.scenario, w.id)
		}
	}

	c, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(c.Anomalies) != 2 {
		t.Errorf("Compare reported %d anomalies, want 2", len(c.Anomalies))
	}

	clean := evaluate(t, "c", "1000", item("PAN-01", "Paneles", "PV-MOD", "1000", "1.20"))
	if n := len(Anomalies(clean, clean)); n != 0 {
		t.Errorf("clean scenarios reported %d anomalies", n)
	}
}
