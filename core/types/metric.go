// Package types - Tagged numeric results
package types

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// MetricState tags a Metric
type MetricState uint8

const (
	// MetricNotComputable marks a division by a zero or missing denominator,
	// or any arithmetic involving such a value
	MetricNotComputable MetricState = iota

	// MetricComputed carries a value
	MetricComputed

	// MetricNotApplicable marks a percentage change from zero to non-zero
	MetricNotApplicable
)

const (
	notComputableLabel = "NOT_COMPUTABLE"
	notApplicableLabel = "N/A"
)

// String returns the state name
func (s MetricState) String() string {
	switch s {
	case MetricComputed:
		return "computed"
	case MetricNotComputable:
		return "not_computable"
	case MetricNotApplicable:
		return "not_applicable"
	default:
		return "unknown"
	}
}

// Metric is Computed(value) | NotComputable | NotApplicable.
// The zero value is NotComputable, so an unset metric never reads as 0.
type Metric struct {
	value decimal.Decimal
	state MetricState
}

// Computed wraps a value
func Computed(v decimal.Decimal) Metric {
	return Metric{value: v, state: MetricComputed}
}

// NotComputable returns the not-computable marker
func NotComputable() Metric {
	return Metric{state: MetricNotComputable}
}

// NotApplicable returns the N/A marker
func NotApplicable() Metric {
	return Metric{state: MetricNotApplicable}
}

// Ratio divides num by den; a zero denominator is NotComputable
func Ratio(num, den decimal.Decimal) Metric {
	if den.IsZero() {
		return NotComputable()
	}
	return Computed(num.Div(den))
}

// State returns the tag
func (m Metric) State() MetricState {
	return m.state
}

// Value returns the value and whether it is computed
func (m Metric) Value() (decimal.Decimal, bool) {
	if m.state != MetricComputed {
		return decimal.Zero, false
	}
	return m.value, true
}

// IsComputed reports whether the metric carries a value
func (m Metric) IsComputed() bool {
	return m.state == MetricComputed
}

// Equal compares tag and value
func (m Metric) Equal(other Metric) bool {
	if m.state != other.state {
		return false
	}
	return m.state != MetricComputed || m.value.Equal(other.value)
}

// Neg negates a computed value; markers pass through
func (m Metric) Neg() Metric {
	if m.state != MetricComputed {
		return m
	}
	return Computed(m.value.Neg())
}

// String renders the raw value or the marker label
func (m Metric) String() string {
	switch m.state {
	case MetricComputed:
		return m.value.String()
	case MetricNotApplicable:
		return notApplicableLabel
	default:
		return notComputableLabel
	}
}

// MarshalJSON encodes a computed value as a decimal string and markers as their labels
func (m Metric) MarshalJSON() ([]byte, error) {
	if m.state == MetricComputed {
		return m.value.MarshalJSON()
	}
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON is the inverse of MarshalJSON
func (m *Metric) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(data, `"`)
	switch string(trimmed) {
	case notComputableLabel, "null":
		*m = NotComputable()
		return nil
	case notApplicableLabel:
		*m = NotApplicable()
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	*m = Computed(d)
	return nil
}
