package scenario

import (
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"solar-capex/internal/errors"
)

// HCL mirror of Document. Numbers decode through strings so that
// literals keep their exact decimal value.
type hclDocument struct {
	ID        string        `hcl:"id,optional"`
	Name      string        `hcl:"name,optional"`
	Variables *hclVariables `hcl:"variables,block"`
	Markup    *hclMarkup    `hcl:"markup,block"`
	Options   *hclOptions   `hcl:"options,block"`
	Items     []hclItem     `hcl:"item,block"`
}

type hclVariables struct {
	DCCapacityKWp *string `hcl:"dc_capacity_kwp,optional"`
	ACCapacityMW  *string `hcl:"ac_capacity_mw,optional"`
	P50MWhYear    *string `hcl:"p50_mwh_year,optional"`
	P90MWhYear    *string `hcl:"p90_mwh_year,optional"`
	Currency      string  `hcl:"currency,optional"`
	FXRate        *string `hcl:"fx_rate,optional"`
}

type hclMarkup struct {
	Enabled          bool    `hcl:"enabled,optional"`
	AdminPct         *string `hcl:"admin_pct,optional"`
	ContingencyPct   *string `hcl:"contingency_pct,optional"`
	ProfitPct        *string `hcl:"profit_pct,optional"`
	ProfitTaxEnabled bool    `hcl:"profit_tax_enabled,optional"`
	ProfitTaxRate    *string `hcl:"profit_tax_rate,optional"`
	BaseRule         string  `hcl:"base_rule,optional"`
}

type hclOptions struct {
	PricesIncludeVAT  *bool `hcl:"prices_include_vat,optional"`
	ExcludeClientPays *bool `hcl:"exclude_client_pays,optional"`
}

type hclItem struct {
	ID                string  `hcl:"id,label"`
	Name              string  `hcl:"name,optional"`
	Category          string  `hcl:"category,optional"`
	Description       string  `hcl:"description,optional"`
	Quantity          *string `hcl:"quantity,optional"`
	Unit              string  `hcl:"unit,optional"`
	UnitPrice         *string `hcl:"unit_price,optional"`
	PricingMode       string  `hcl:"pricing_mode,optional"`
	VATRate           *string `hcl:"vat_rate,optional"`
	ClientPays        bool    `hcl:"client_pays,optional"`
	AdminFactor       *string `hcl:"admin_factor,optional"`
	ContingencyFactor *string `hcl:"contingency_factor,optional"`
	ProfitFactor      *string `hcl:"profit_factor,optional"`
}

// decodeHCL parses HCL source into a Document. filename selects the
// syntax (.hcl native, .json HCL-JSON) and appears in diagnostics.
func decodeHCL(filename string, src []byte) (*Document, error) {
	var raw hclDocument
	if err := hclsimple.Decode(filename, src, nil, &raw); err != nil {
		return nil, errors.Parsing("invalid scenario HCL", err).WithContext("file", filename)
	}
	return raw.document()
}

func (h *hclDocument) document() (*Document, error) {
	var p numParser
	doc := &Document{ID: h.ID, Name: h.Name}

	if v := h.Variables; v != nil {
		doc.Variables = VariablesDocument{
			DCCapacityKWp: p.parse("dc_capacity_kwp", v.DCCapacityKWp),
			ACCapacityMW:  p.parse("ac_capacity_mw", v.ACCapacityMW),
			P50MWhYear:    p.parse("p50_mwh_year", v.P50MWhYear),
			P90MWhYear:    p.parse("p90_mwh_year", v.P90MWhYear),
			Currency:      v.Currency,
			FXRate:        p.parse("fx_rate", v.FXRate),
		}
	}
	if m := h.Markup; m != nil {
		doc.Markup = MarkupDocument{
			Enabled:          m.Enabled,
			AdminPct:         p.parse("admin_pct", m.AdminPct),
			ContingencyPct:   p.parse("contingency_pct", m.ContingencyPct),
			ProfitPct:        p.parse("profit_pct", m.ProfitPct),
			ProfitTaxEnabled: m.ProfitTaxEnabled,
			ProfitTaxRate:    p.parse("profit_tax_rate", m.ProfitTaxRate),
			BaseRule:         m.BaseRule,
		}
	}
	if o := h.Options; o != nil {
		doc.Options = OptionsDocument{
			PricesIncludeVAT:  o.PricesIncludeVAT,
			ExcludeClientPays: o.ExcludeClientPays,
		}
	}
	for _, it := range h.Items {
		doc.Items = append(doc.Items, ItemDocument{
			ID:                it.ID,
			Name:              it.Name,
			Category:          it.Category,
			Description:       it.Description,
			Quantity:          p.parse("quantity", it.Quantity),
			Unit:              it.Unit,
			UnitPrice:         p.parse("unit_price", it.UnitPrice),
			PricingMode:       it.PricingMode,
			VATRate:           p.parse("vat_rate", it.VATRate),
			ClientPays:        it.ClientPays,
			AdminFactor:       p.parse("admin_factor", it.AdminFactor),
			ContingencyFactor: p.parse("contingency_factor", it.ContingencyFactor),
			ProfitFactor:      p.parse("profit_factor", it.ProfitFactor),
		})
	}
	if p.err != nil {
		return nil, p.err
	}
	return doc, nil
}

// numParser keeps the first parse failure
type numParser struct {
	err error
}

func (p *numParser) parse(field string, s *string) decimal.NullDecimal {
	if s == nil || p.err != nil {
		return decimal.NullDecimal{}
	}
	v, err := decimal.NewFromString(*s)
	if err != nil {
		p.err = errors.Parsing("invalid number", err).WithContext("field", field)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(v)
}
