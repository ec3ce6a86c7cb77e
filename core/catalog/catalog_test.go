package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"solar-capex/internal/errors"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 13 {
		t.Errorf("expected 13 categories, got %d", c.Len())
	}
	if !c.IsEquipment("pv-mod") {
		t.Error("PV-MOD should be equipment (case-insensitive lookup)")
	}
	if c.IsEquipment("PV-CIV") {
		t.Error("PV-CIV should not be equipment")
	}
	if c.IsEquipment("UNKNOWN") {
		t.Error("unknown codes are not equipment")
	}

	list := c.List()
	if list[0].Code != "PV-MOD" || list[len(list)-1].Code != "LAND" {
		t.Errorf("unexpected ordering: first=%s last=%s", list[0].Code, list[len(list)-1].Code)
	}
}

func TestDisplayName(t *testing.T) {
	c := Default()
	if got := c.DisplayName("PV-INV", "en"); got != "Inverters" {
		t.Errorf("expected Inverters, got %s", got)
	}
	if got := c.DisplayName("PV-INV", "es"); got != "Inversores" {
		t.Errorf("expected Inversores, got %s", got)
	}
	if got := c.DisplayName("CUSTOM-1", "es"); got != "CUSTOM-1" {
		t.Errorf("unknown code should echo, got %s", got)
	}

	var nilCatalog *Catalog
	if got := nilCatalog.DisplayName("PV-INV", "en"); got != "PV-INV" {
		t.Errorf("nil catalog should echo code, got %s", got)
	}
	if (Category{Code: "X", NameES: "Equis"}).Name("en") != "Equis" {
		t.Error("missing English name should fall back to Spanish")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	body := `[
		{"category_code": "MOD", "name_en": "Modules", "ordering": 1, "is_equipment": true},
		{"category_code": "LAB", "name_en": "Labour", "ordering": 2}
	]`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !c.IsEquipment("MOD") || c.IsEquipment("LAB") {
		t.Error("equipment flags not loaded")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	body := `[{"category_code": "MOD"}, {"category_code": "mod"}, {"category_code": ""}]`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.IsType(err, errors.TypeInput) {
		t.Fatalf("expected INPUT_ERROR, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.IsType(err, errors.TypeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestValidateEntriesCollectsAll(t *testing.T) {
	errs := ValidateEntries([]Category{
		{Code: "A"},
		{Code: "a"},
		{Code: "", Ordering: -1},
	}, DefaultValidationRules())
	if len(errs) != 3 {
		t.Errorf("expected 3 problems, got %d: %v", len(errs), errs)
	}
}
