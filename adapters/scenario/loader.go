package scenario

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solar-capex/core/catalog"
	"solar-capex/core/determinism"
	"solar-capex/core/markup"
	"solar-capex/core/types"
	"solar-capex/internal/config"
	"solar-capex/internal/errors"
	"solar-capex/internal/logging"
)

const defaultUnit = "UND"

// Loader turns documents into scenarios, filling configured defaults
type Loader struct {
	defaults config.EngineConfig
	catalog  *catalog.Catalog
}

// NewLoader creates a loader. A nil catalog disables the SERVICES_ONLY preset.
func NewLoader(defaults config.EngineConfig, cat *catalog.Catalog) *Loader {
	return &Loader{defaults: defaults, catalog: cat}
}

// LoadFile reads a .json or .hcl scenario file
func (l *Loader) LoadFile(path string) (*types.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("scenario file", path)
		}
		return nil, errors.Wrap(errors.TypeInput, "failed to read scenario file", err).WithContext("file", path)
	}
	return l.Decode(path, data)
}

// Decode parses data according to the extension of name
func (l *Loader) Decode(name string, data []byte) (*types.Scenario, error) {
	var (
		doc *Document
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hcl":
		doc, err = decodeHCL(name, data)
	case ".json", "":
		doc, err = DecodeJSON(data)
	default:
		return nil, errors.Newf(errors.TypeInput, "unsupported scenario format %q", filepath.Ext(name)).
			WithContext("file", name)
	}
	if err != nil {
		return nil, err
	}
	s, err := l.Build(doc)
	if err != nil {
		return nil, err
	}
	logging.Named("scenario").Debug("scenario loaded",
		zap.String("source", name),
		zap.String("scenario", s.ID),
		zap.Int("items", len(s.Items)),
	)
	return s, nil
}

// DecodeJSON parses a JSON document, rejecting unknown fields
func DecodeJSON(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Parsing("invalid scenario JSON", err)
	}
	return &doc, nil
}

// Build converts a document into a scenario. Base-rule presets are applied
// here, once, to items without explicit factors.
func (l *Loader) Build(doc *Document) (*types.Scenario, error) {
	if doc == nil {
		return nil, errors.Input("scenario document is required")
	}

	s := &types.Scenario{
		ID:   strings.TrimSpace(doc.ID),
		Name: strings.TrimSpace(doc.Name),
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Name == "" {
		s.Name = s.ID
	}

	v := doc.Variables
	s.Variables = types.ScenarioVariables{
		DCCapacityKWp: orZero(v.DCCapacityKWp),
		ACCapacityMW:  orZero(v.ACCapacityMW),
		P50MWhYear:    orZero(v.P50MWhYear),
		P90MWhYear:    orZero(v.P90MWhYear),
		Currency:      strings.ToUpper(strings.TrimSpace(v.Currency)),
		FXRate:        or(v.FXRate, decimal.NewFromInt(1)),
	}
	if s.Variables.Currency == "" {
		s.Variables.Currency = l.defaults.DefaultCurrency
	}

	m := doc.Markup
	s.Markup = types.MarkupConfig{
		Enabled:          m.Enabled,
		AdminPct:         orZero(m.AdminPct),
		ContingencyPct:   orZero(m.ContingencyPct),
		ProfitPct:        orZero(m.ProfitPct),
		ProfitTaxEnabled: m.ProfitTaxEnabled,
		ProfitTaxRate:    or(m.ProfitTaxRate, l.defaults.ProfitTaxRate),
	}

	s.Options = types.Options{
		PricesIncludeVAT:  l.defaults.PricesIncludeVAT,
		ExcludeClientPays: l.defaults.ExcludeClientPays,
	}
	if doc.Options.PricesIncludeVAT != nil {
		s.Options.PricesIncludeVAT = *doc.Options.PricesIncludeVAT
	}
	if doc.Options.ExcludeClientPays != nil {
		s.Options.ExcludeClientPays = *doc.Options.ExcludeClientPays
	}

	var rule types.BaseRule
	if strings.TrimSpace(m.BaseRule) != "" {
		parsed, ok := types.ParseBaseRule(m.BaseRule)
		if !ok {
			return nil, errors.Newf(errors.TypeInput, "unknown base rule %q", m.BaseRule)
		}
		rule = parsed
	}

	s.Items = make([]types.LineItem, 0, len(doc.Items))
	// Seed from document fields, not a generated scenario id.
	ids := determinism.NewIDGenerator(itemIDSeed(doc))
	for i, it := range doc.Items {
		if strings.TrimSpace(it.ID) == "" {
			it.ID = "ITEM-" + string(ids.Generate(strconv.Itoa(i), it.Name))
		}
		item, err := l.item(it, rule)
		if err != nil {
			if e, ok := errors.As(err); ok {
				return nil, e.WithContext("item_index", i)
			}
			return nil, err
		}
		s.Items = append(s.Items, item)
	}
	return s, nil
}

func (l *Loader) item(d ItemDocument, rule types.BaseRule) (types.LineItem, error) {
	mode := types.PricingUnit
	if strings.TrimSpace(d.PricingMode) != "" {
		parsed, ok := types.ParsePricingMode(d.PricingMode)
		if !ok {
			return types.LineItem{}, errors.InvalidPricingInput(d.ID, "unknown pricing mode "+d.PricingMode)
		}
		mode = parsed
	}

	unit := strings.TrimSpace(d.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	draft := types.LineItem{
		ID:           strings.TrimSpace(d.ID),
		Name:         strings.TrimSpace(d.Name),
		CategoryCode: strings.ToUpper(strings.TrimSpace(d.Category)),
		Description:  d.Description,
		Quantity:     orZero(d.Quantity),
		Unit:         unit,
		UnitPrice:    orZero(d.UnitPrice),
		PricingMode:  mode,
		VATRate:      or(d.VATRate, l.defaults.DefaultVATRate),
		ClientPays:   d.ClientPays,
	}

	switch {
	case d.HasFactors():
		draft.Factors = types.AllocationFactors{
			Admin:       or(d.AdminFactor, types.FullFactors().Admin),
			Contingency: or(d.ContingencyFactor, types.FullFactors().Contingency),
			Profit:      or(d.ProfitFactor, types.FullFactors().Profit),
		}
	case rule != "":
		factors, err := markup.FactorsForRule(draft, rule, l.classifier())
		if err != nil {
			return types.LineItem{}, err
		}
		draft.Factors = factors
	default:
		draft.Factors = types.FullFactors()
	}

	return types.NewLineItem(draft)
}

// itemIDSeed is the scenario id, or its name when the id is missing
func itemIDSeed(doc *Document) string {
	if id := strings.TrimSpace(doc.ID); id != "" {
		return id
	}
	return "name:" + strings.TrimSpace(doc.Name)
}

// classifier avoids handing a typed nil to the preset code
func (l *Loader) classifier() markup.EquipmentClassifier {
	if l.catalog == nil {
		return nil
	}
	return l.catalog
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	return or(v, decimal.Zero)
}

func or(v decimal.NullDecimal, fallback decimal.Decimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return fallback
}
