// Package determinism provides primitives for guaranteeing deterministic execution.
// Aggregation code uses these instead of ranging over Go maps.
package determinism

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/shopspring/decimal"
)

// OrderedMap is a map that iterates in order of first insertion.
// It is not safe for concurrent mutation; engine code builds one per call.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates an empty OrderedMap
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		values: make(map[K]V),
	}
}

// Set adds or updates a key-value pair. Updating keeps the original position.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Update applies fn to the current value (zero value if absent) and stores the result
func (m *OrderedMap[K, V]) Update(key K, fn func(V) V) {
	m.Set(key, fn(m.values[key]))
}

// Get retrieves a value by key
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	val, ok := m.values[key]
	return val, ok
}

// Range iterates in insertion order until fn returns false
func (m *OrderedMap[K, V]) Range(fn func(K, V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			break
		}
	}
}

// Keys returns all keys in insertion order
func (m *OrderedMap[K, V]) Keys() []K {
	result := make([]K, len(m.keys))
	copy(result, m.keys)
	return result
}

// Values returns all values in insertion order
func (m *OrderedMap[K, V]) Values() []V {
	result := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		result = append(result, m.values[k])
	}
	return result
}

// Len returns the number of entries
func (m *OrderedMap[K, V]) Len() int {
	return len(m.keys)
}

// UnionKeys merges key sequences, keeping first-appearance order across inputs
func UnionKeys[K comparable](sequences ...[]K) []K {
	seen := make(map[K]struct{})
	var out []K
	for _, seq := range sequences {
		for _, k := range seq {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// StableID is a hash-based unique identifier that's deterministic
type StableID string

// IDGenerator generates stable, deterministic IDs
type IDGenerator struct {
	namespace string
}

// NewIDGenerator creates an ID generator with a namespace
func NewIDGenerator(namespace string) *IDGenerator {
	return &IDGenerator{namespace: namespace}
}

// Generate creates a stable ID from inputs
func (g *IDGenerator) Generate(parts ...string) StableID {
	h := sha256.New()
	h.Write([]byte(g.namespace))
	h.Write([]byte{0})
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return StableID(hex.EncodeToString(h.Sum(nil))[:16])
}

// Hundred is the percent scale used throughout the engine
var Hundred = decimal.NewFromInt(100)

// Percent returns amount * pct / 100. The scale shift is exact, so no
// rounding is introduced.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct.Shift(-2))
}

// InPercentRange reports whether v lies in [0,100]
func InPercentRange(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(Hundred)
}

// ClampPercent limits v to [0,100]
func ClampPercent(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(Hundred) {
		return Hundred
	}
	return v
}

// Sum adds values in slice order
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
