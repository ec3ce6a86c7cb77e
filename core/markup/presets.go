package markup

import (
	"solar-capex/core/types"
	"solar-capex/internal/errors"
)

// EquipmentClassifier tells whether a category holds equipment rather than
// services or labour
type EquipmentClassifier interface {
	IsEquipment(categoryCode string) bool
}

// FactorsForRule returns the uniform factors a base rule assigns to an item.
// Rules are applied once when a scenario is built; calculation only ever
// reads the per-item factors.
func FactorsForRule(item types.LineItem, rule types.BaseRule, classifier EquipmentClassifier) (types.AllocationFactors, error) {
	switch rule {
	case types.RuleAllDirectCosts:
		return types.FullFactors(), nil
	case types.RuleExcludeClientPays:
		if item.ClientPays {
			return types.NoFactors(), nil
		}
		return types.FullFactors(), nil
	case types.RuleServicesOnly:
		if classifier == nil {
			return types.AllocationFactors{}, errors.Input("SERVICES_ONLY requires a category catalog")
		}
		if classifier.IsEquipment(item.CategoryCode) {
			return types.NoFactors(), nil
		}
		return types.FullFactors(), nil
	default:
		return types.AllocationFactors{}, errors.Newf(errors.TypeInput, "unknown base rule %q", rule)
	}
}

// ApplyBaseRule returns copies of items with every item's factors set by rule
func ApplyBaseRule(items []types.LineItem, rule types.BaseRule, classifier EquipmentClassifier) ([]types.LineItem, error) {
	out := make([]types.LineItem, len(items))
	for i, item := range items {
		factors, err := FactorsForRule(item, rule, classifier)
		if err != nil {
			return nil, err
		}
		item.Factors = factors
		out[i] = item
	}
	return out, nil
}
