package markup

import (
	"testing"

	"github.com/shopspring/decimal"

	"solar-capex/core/types"
	"solar-capex/internal/errors"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func contribution(id string, base string, factors types.AllocationFactors, clientPays bool) Contribution {
	return Contribution{
		Item: types.LineItem{
			ID:         id,
			ClientPays: clientPays,
			Factors:    factors,
		},
		Resolved: types.ResolvedItem{BaseExclVAT: d(base)},
	}
}

func aiu() types.MarkupConfig {
	return types.MarkupConfig{
		Enabled:        true,
		AdminPct:       d("5"),
		ContingencyPct: d("3"),
		ProfitPct:      d("8"),
	}
}

func TestAllocateReferenceScenario(t *testing.T) {
	contribs := []Contribution{contribution("PAN-01", "1200", types.FullFactors(), false)}

	b, err := Allocate(contribs, aiu(), types.DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	checks := map[string]struct{ got, want decimal.Decimal }{
		"admin":       {b.Admin, d("60")},
		"contingency": {b.Contingency, d("36")},
		"profit":      {b.Profit, d("96")},
		"total":       {b.Total, d("192")},
	}
	for name, c := range checks {
		if !c.got.Equal(c.want) {
			t.Errorf("%s: expected %s, got %s", name, c.want, c.got)
		}
	}
	if !b.ProfitTax.IsZero() {
		t.Errorf("profit tax should be zero when disabled, got %s", b.ProfitTax)
	}
}

func TestAllocateExcludesClientPays(t *testing.T) {
	contribs := []Contribution{contribution("PAN-01", "1200", types.FullFactors(), true)}

	b, err := Allocate(contribs, aiu(), types.DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if !b.PoolAdmin.IsZero() || !b.PoolContingency.IsZero() || !b.PoolProfit.IsZero() {
		t.Errorf("client-paid item must not feed the pools: %+v", b)
	}
	if !b.Total.IsZero() {
		t.Errorf("expected zero markup, got %s", b.Total)
	}

	included, err := Allocate(contribs, aiu(), types.Options{ExcludeClientPays: false})
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if !included.Total.Equal(d("192")) {
		t.Errorf("with exclusion off the item counts, got %s", included.Total)
	}
}

func TestAllocateDisabledStillReturnsBreakdown(t *testing.T) {
	cfg := aiu()
	cfg.Enabled = false
	cfg.ProfitTaxEnabled = true
	cfg.ProfitTaxRate = d("19")

	b, err := Allocate([]Contribution{contribution("X", "5000", types.FullFactors(), false)}, cfg, types.DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if b.Enabled {
		t.Error("breakdown should report disabled")
	}
	for name, v := range map[string]decimal.Decimal{
		"admin": b.Admin, "contingency": b.Contingency, "profit": b.Profit,
		"subtotal": b.Subtotal, "tax": b.ProfitTax, "total": b.Total,
	} {
		if !v.IsZero() {
			t.Errorf("%s should be zero, got %s", name, v)
		}
	}
}

func TestAllocateProfitTax(t *testing.T) {
	cfg := aiu()
	cfg.ProfitTaxEnabled = true
	cfg.ProfitTaxRate = d("19")

	b, err := Allocate([]Contribution{contribution("PAN-01", "1200", types.FullFactors(), false)}, cfg, types.DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if !b.ProfitTax.Equal(d("18.24")) {
		t.Errorf("expected profit tax 18.24, got %s", b.ProfitTax)
	}
	if !b.Subtotal.Equal(d("192")) {
		t.Errorf("expected subtotal 192, got %s", b.Subtotal)
	}
	if !b.Total.Equal(d("210.24")) {
		t.Errorf("expected total 210.24, got %s", b.Total)
	}
}

func TestFactorsAreIndependentWeights(t *testing.T) {
	profitOnly := types.AllocationFactors{Admin: d("0"), Contingency: d("0"), Profit: d("100")}
	half := types.AllocationFactors{Admin: d("50"), Contingency: d("50"), Profit: d("50")}
	contribs := []Contribution{
		contribution("A", "1000", profitOnly, false),
		contribution("B", "400", half, false),
	}

	b, err := Allocate(contribs, aiu(), types.DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if !b.PoolAdmin.Equal(d("200")) {
		t.Errorf("expected admin pool 200, got %s", b.PoolAdmin)
	}
	if !b.PoolContingency.Equal(d("200")) {
		t.Errorf("expected contingency pool 200, got %s", b.PoolContingency)
	}
	if !b.PoolProfit.Equal(d("1200")) {
		t.Errorf("expected profit pool 1200, got %s", b.PoolProfit)
	}
}

// Raising one item's profit factor never lowers profit and leaves the
// other two components untouched.
func TestProfitFactorMonotonicity(t *testing.T) {
	other := contribution("B", "750.25", types.AllocationFactors{Admin: d("30"), Contingency: d("60"), Profit: d("90")}, false)

	var prev *types.MarkupBreakdown
	for _, f := range []string{"0", "0.5", "10", "33.3", "50", "99.99", "100"} {
		item := contribution("A", "1234.56", types.AllocationFactors{Admin: d("40"), Contingency: d("70"), Profit: d(f)}, false)
		b, err := Allocate([]Contribution{item, other}, aiu(), types.DefaultOptions())
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		if prev != nil {
			if b.Profit.LessThan(prev.Profit) {
				t.Errorf("profit decreased from %s to %s at factor %s", prev.Profit, b.Profit, f)
			}
			if !b.Admin.Equal(prev.Admin) || !b.Contingency.Equal(prev.Contingency) {
				t.Errorf("profit factor %s changed admin/contingency", f)
			}
		}
		prev = &b
	}
}

func TestAllocateRejectsOutOfRange(t *testing.T) {
	cfg := aiu()
	cfg.AdminPct = d("101")
	if _, err := Allocate(nil, cfg, types.DefaultOptions()); !errors.IsType(err, errors.TypeInvalidFactor) {
		t.Fatalf("expected INVALID_FACTOR for admin_pct, got %v", err)
	}

	bad := contribution("A", "10", types.AllocationFactors{Admin: d("-1"), Contingency: d("0"), Profit: d("0")}, false)
	if _, err := Allocate([]Contribution{bad}, aiu(), types.DefaultOptions()); !errors.IsType(err, errors.TypeInvalidFactor) {
		t.Fatalf("expected INVALID_FACTOR for item factor, got %v", err)
	}
}

type equipmentSet map[string]bool

func (e equipmentSet) IsEquipment(code string) bool { return e[code] }

func TestBaseRulePresets(t *testing.T) {
	items := []types.LineItem{
		{ID: "PAN", CategoryCode: "PV-MOD"},
		{ID: "CIV", CategoryCode: "PV-CIV"},
		{ID: "LAND", CategoryCode: "PV-DEV", ClientPays: true},
	}
	classifier := equipmentSet{"PV-MOD": true}

	tests := []struct {
		rule types.BaseRule
		want []bool // true means full factors
	}{
		{types.RuleAllDirectCosts, []bool{true, true, true}},
		{types.RuleExcludeClientPays, []bool{true, true, false}},
		{types.RuleServicesOnly, []bool{false, true, true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.rule), func(t *testing.T) {
			out, err := ApplyBaseRule(items, tt.rule, classifier)
			if err != nil {
				t.Fatalf("ApplyBaseRule failed: %v", err)
			}
			for i, full := range tt.want {
				want := types.NoFactors()
				if full {
					want = types.FullFactors()
				}
				got := out[i].Factors
				if !got.Admin.Equal(want.Admin) || !got.Contingency.Equal(want.Contingency) || !got.Profit.Equal(want.Profit) {
					t.Errorf("item %s: expected %+v, got %+v", out[i].ID, want, got)
				}
			}
		})
	}

	if !items[0].Factors.Admin.IsZero() {
		t.Error("ApplyBaseRule must not mutate its input")
	}
}

func TestServicesOnlyNeedsCatalog(t *testing.T) {
	_, err := FactorsForRule(types.LineItem{ID: "X"}, types.RuleServicesOnly, nil)
	if !errors.IsType(err, errors.TypeInput) {
		t.Fatalf("expected INPUT_ERROR, got %v", err)
	}
}
