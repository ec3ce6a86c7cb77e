// Package catalog - Catalog validation
package catalog

import (
	"fmt"
)

// ValidationRule checks one entry; seen holds normalized codes of earlier entries
type ValidationRule func(e Category, seen map[string]bool) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateCodePresent,
		validateCodeUnique,
		validateOrdering,
	}
}

// ValidateEntries applies rules to entries in order and collects every failure
func ValidateEntries(entries []Category, rules []ValidationRule) []error {
	var errs []error
	seen := make(map[string]bool)

	for i, entry := range entries {
		for _, rule := range rules {
			if err := rule(entry, seen); err != nil {
				errs = append(errs, fmt.Errorf("entry %d (%q): %w", i, entry.Code, err))
			}
		}
		seen[normalize(entry.Code)] = true
	}

	return errs
}

func validateCodePresent(e Category, _ map[string]bool) error {
	if normalize(e.Code) == "" {
		return fmt.Errorf("category_code is required")
	}
	return nil
}

func validateCodeUnique(e Category, seen map[string]bool) error {
	if code := normalize(e.Code); code != "" && seen[code] {
		return fmt.Errorf("duplicate category_code")
	}
	return nil
}

func validateOrdering(e Category, _ map[string]bool) error {
	if e.Ordering < 0 {
		return fmt.Errorf("ordering must not be negative")
	}
	return nil
}
