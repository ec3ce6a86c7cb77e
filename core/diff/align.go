package diff

import (
	"solar-capex/core/types"
	"solar-capex/internal/errors"
)

// pair is one aligned item; a nil side means the item is absent there
type pair struct {
	a, b *types.ItemResult
	rule MatchRule
}

// align matches items by identifier, then leftovers by name (first
// unmatched occurrence in B), then reports the rest as removed or added.
func align(as, bs []types.ItemResult) ([]pair, error) {
	if err := uniqueIDs("A", as); err != nil {
		return nil, err
	}
	bByID, err := indexIDs("B", bs)
	if err != nil {
		return nil, err
	}

	matchA := make([]int, len(as))
	matchB := make([]int, len(bs))
	for i := range matchA {
		matchA[i] = -1
	}
	for j := range matchB {
		matchB[j] = -1
	}
	rules := make([]MatchRule, len(as))

	for i := range as {
		key := as[i].Item.Key()
		if key == "" {
			continue
		}
		if j, ok := bByID[key]; ok {
			matchA[i], matchB[j] = j, i
			rules[i] = MatchByID
		}
	}

	for i := range as {
		if matchA[i] >= 0 {
			continue
		}
		name := as[i].Item.NameKey()
		if name == "" {
			continue
		}
		for j := range bs {
			if matchB[j] < 0 && bs[j].Item.NameKey() == name {
				matchA[i], matchB[j] = j, i
				rules[i] = MatchByName
				break
			}
		}
	}

	pairs := make([]pair, 0, len(as)+len(bs))
	for i := range as {
		p := pair{a: &as[i], rule: rules[i]}
		if j := matchA[i]; j >= 0 {
			if matchB[j] != i {
				return nil, errors.UnresolvedComparisonItem("item matched twice").
					WithContext("item_id", as[i].Item.ID)
			}
			p.b = &bs[j]
		}
		pairs = append(pairs, p)
	}
	for j := range bs {
		if matchB[j] < 0 {
			pairs = append(pairs, pair{b: &bs[j]})
		}
	}
	return pairs, nil
}

func uniqueIDs(side string, items []types.ItemResult) error {
	_, err := indexIDs(side, items)
	return err
}

func indexIDs(side string, items []types.ItemResult) (map[string]int, error) {
	idx := make(map[string]int, len(items))
	for i, r := range items {
		key := r.Item.Key()
		if key == "" {
			continue
		}
		if _, dup := idx[key]; dup {
			return nil, errors.UnresolvedComparisonItem("duplicate item id in scenario "+side).
				WithContext("item_id", r.Item.ID)
		}
		idx[key] = i
	}
	return idx, nil
}
