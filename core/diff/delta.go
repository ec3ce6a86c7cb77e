package diff

import (
	"github.com/shopspring/decimal"

	"solar-capex/core/determinism"
	"solar-capex/core/types"
)

// Delta compares one value across two scenarios. Abs is always B - A.
//
// Pct is Abs / A * 100 when A is non-zero, 0 when both sides are zero and
// NotApplicable when only A is zero. Any NotComputable side makes both Abs
// and Pct NotComputable.
type Delta struct {
	A   types.Metric `json:"a"`
	B   types.Metric `json:"b"`
	Abs types.Metric `json:"delta_abs"`
	Pct types.Metric `json:"delta_pct"`
}

// Between computes the delta of two metrics
func Between(a, b types.Metric) Delta {
	d := Delta{A: a, B: b}

	av, aok := a.Value()
	bv, bok := b.Value()
	if !aok || !bok {
		d.Abs = types.NotComputable()
		d.Pct = types.NotComputable()
		return d
	}

	abs := bv.Sub(av)
	d.Abs = types.Computed(abs)
	switch {
	case !av.IsZero():
		d.Pct = types.Computed(abs.Mul(determinism.Hundred).Div(av))
	case bv.IsZero():
		d.Pct = types.Computed(decimal.Zero)
	default:
		d.Pct = types.NotApplicable()
	}
	return d
}

// Amounts computes the delta of two exact amounts
func Amounts(a, b decimal.Decimal) Delta {
	return Between(types.Computed(a), types.Computed(b))
}

// IsZero reports whether the delta is a computed zero
func (d Delta) IsZero() bool {
	v, ok := d.Abs.Value()
	return ok && v.IsZero()
}
