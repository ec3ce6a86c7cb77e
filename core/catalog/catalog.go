// Package catalog - Category catalog supplied by the caller.
// The engine treats category codes as opaque strings; the catalog only
// provides display metadata and the equipment flag used by base-rule presets.
package catalog

import (
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"solar-capex/internal/errors"
)

// Category is a catalog entry
type Category struct {
	Code        string `json:"category_code"`
	NameES      string `json:"name_es"`
	NameEN      string `json:"name_en"`
	Ordering    int    `json:"ordering"`
	IsEquipment bool   `json:"is_equipment"`
}

// Name returns the display name for a language ("es" or "en"), falling back
// to the other language and finally to the code
func (c Category) Name(lang string) string {
	primary, secondary := c.NameES, c.NameEN
	if strings.EqualFold(lang, "en") {
		primary, secondary = c.NameEN, c.NameES
	}
	switch {
	case primary != "":
		return primary
	case secondary != "":
		return secondary
	default:
		return c.Code
	}
}

// Catalog is a keyed set of categories. Lookups are case-insensitive.
type Catalog struct {
	entries map[string]*Category
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*Category),
	}
}

// Register adds or replaces a category
func (c *Catalog) Register(entry Category) {
	e := entry
	c.entries[normalize(entry.Code)] = &e
}

// Get returns a category by code
func (c *Catalog) Get(code string) (*Category, bool) {
	e, ok := c.entries[normalize(code)]
	return e, ok
}

// IsEquipment reports whether a code is an equipment category. Unknown codes
// are not equipment.
func (c *Catalog) IsEquipment(code string) bool {
	if c == nil {
		return false
	}
	e, ok := c.Get(code)
	return ok && e.IsEquipment
}

// DisplayName returns the category name, or the code for unknown categories
func (c *Catalog) DisplayName(code, lang string) string {
	if c == nil {
		return code
	}
	if e, ok := c.Get(code); ok {
		return e.Name(lang)
	}
	return code
}

// List returns categories sorted by ordering, then code
func (c *Catalog) List() []Category {
	out := make([]Category, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ordering != out[j].Ordering {
			return out[i].Ordering < out[j].Ordering
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Len returns the number of categories
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Load reads a catalog from a JSON array of categories and validates it
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("catalog", path)
		}
		return nil, errors.Wrapf(errors.TypeInput, err, "read catalog %s", path)
	}

	var entries []Category
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Parsing("decode catalog "+path, err)
	}

	if errs := ValidateEntries(entries, DefaultValidationRules()); len(errs) > 0 {
		return nil, errors.Wrapf(errors.TypeInput, errs[0], "invalid catalog %s (%d problems)", path, len(errs))
	}

	c := NewCatalog()
	for _, e := range entries {
		c.Register(e)
	}
	return c, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
