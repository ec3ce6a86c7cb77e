// Package export writes evaluated scenarios and comparisons to XLSX and CSV.
// Cells hold raw numbers; formatting is applied through cell styles only.
package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"solar-capex/core/catalog"
	"solar-capex/core/diff"
	"solar-capex/core/types"
	"solar-capex/internal/errors"
)

// Sheet names
const (
	SheetInputs     = "Inputs"
	SheetItems      = "Items"
	SheetCategories = "Categories"
	SheetMarkup     = "Markup"
	SheetSummary    = "Summary"
	SheetComparison = "Comparison"
)

// Exporter renders workbooks and CSV files
type Exporter struct {
	catalog  *catalog.Catalog
	language string
}

// New creates an exporter. A nil catalog shows category codes.
func New(cat *catalog.Catalog, language string) *Exporter {
	if language == "" {
		language = "es"
	}
	return &Exporter{catalog: cat, language: language}
}

// ScenarioXLSX builds the workbook for one evaluated scenario
func (e *Exporter) ScenarioXLSX(s *types.ScenarioTotals) ([]byte, error) {
	if s == nil {
		return nil, errors.Input("scenario totals are required")
	}
	w, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer w.f.Close()

	steps := []func(*types.ScenarioTotals) error{
		w.inputs, w.items, e.categoriesSheet(w), w.markup, w.summary,
	}
	for _, step := range steps {
		if err := step(s); err != nil {
			return nil, err
		}
	}
	return w.bytes()
}

// ComparisonXLSX builds a workbook with item, category and total deltas
func (e *Exporter) ComparisonXLSX(c *diff.Comparison) ([]byte, error) {
	if c == nil {
		return nil, errors.Input("comparison is required")
	}
	w, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer w.f.Close()

	if err := w.sheet(SheetComparison, 28, 16, 18); err != nil {
		return nil, err
	}
	row := 1
	w.title(SheetComparison, row, fmt.Sprintf("%s → %s", c.A.Name, c.B.Name))
	row += 2

	w.header(SheetComparison, row, "Item", "Change", "Matched by", "A (incl. VAT)", "B (incl. VAT)", "Δ", "Δ %")
	row++
	for _, it := range c.Items {
		label := it.ID
		if it.Name != "" {
			label = it.Name
		}
		w.deltaRow(SheetComparison, row, []any{sanitize(label), it.ChangeType.String(), string(it.MatchedBy)}, it.TotalInclVAT)
		row++
	}
	row++

	w.header(SheetComparison, row, "Category", "", "", "A (incl. VAT)", "B (incl. VAT)", "Δ", "Δ %")
	row++
	for _, cat := range c.Categories {
		w.deltaRow(SheetComparison, row, []any{sanitize(e.catalog.DisplayName(cat.Code, e.language)), "", ""}, cat.TotalInclVAT)
		row++
	}
	row++

	w.header(SheetComparison, row, "Total", "", "", "A", "B", "Δ", "Δ %")
	row++
	for _, t := range c.Totals {
		w.deltaRow(SheetComparison, row, []any{t.Name, "", ""}, t.Delta)
		row++
	}
	return w.bytes()
}

func (e *Exporter) categoriesSheet(w *workbook) func(*types.ScenarioTotals) error {
	return func(s *types.ScenarioTotals) error {
		if err := w.sheet(SheetCategories, 14, 36, 8, 18, 18, 18); err != nil {
			return err
		}
		w.header(SheetCategories, 1, "Code", "Name", "Items", "Base excl. VAT", "VAT", "Total incl. VAT")
		for i, c := range s.Categories {
			r := i + 2
			w.values(SheetCategories, r, c.Code, sanitize(e.catalog.DisplayName(c.Code, e.language)), c.ItemCount)
			w.money(SheetCategories, r, 4, c.BaseExclVAT, c.VATAmount, c.TotalInclVAT)
		}
		r := len(s.Categories) + 2
		w.values(SheetCategories, r, "TOTAL")
		w.money(SheetCategories, r, 4, s.CategorySubtotalSum())
		w.bold(SheetCategories, r)
		return w.err
	}
}

// workbook wraps an excelize file and remembers the first error
type workbook struct {
	f      *excelize.File
	styles struct{ header, title, money, pct, bold int }
	err    error
}

func newWorkbook() (*workbook, error) {
	w := &workbook{f: excelize.NewFile()}
	var err error
	if w.styles.header, err = w.f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Border: thinBorders(),
	}); err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if w.styles.title, err = w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	if w.styles.money, err = w.f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	pctFmt := "0.0\"%\""
	if w.styles.pct, err = w.f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt}); err != nil {
		return nil, fmt.Errorf("create percent style: %w", err)
	}
	if w.styles.bold, err = w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4}); err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}
	return w, nil
}

// sheet creates a sheet (reusing the default first sheet) and sets column widths
func (w *workbook) sheet(name string, widths ...float64) error {
	if w.f.GetSheetName(0) == "Sheet1" && len(w.f.GetSheetList()) == 1 {
		if err := w.f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := w.f.SetColWidth(name, col, col, width); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}
	return nil
}

func (w *workbook) set(sheet string, col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(sheet, cell, v)
}

func (w *workbook) style(sheet string, col, row, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(sheet, cell, cell, style)
}

func (w *workbook) values(sheet string, row int, vals ...any) {
	for i, v := range vals {
		w.set(sheet, i+1, row, v)
	}
}

func (w *workbook) money(sheet string, row, startCol int, amounts ...decimal.Decimal) {
	for i, a := range amounts {
		w.set(sheet, startCol+i, row, a.InexactFloat64())
		w.style(sheet, startCol+i, row, w.styles.money)
	}
}

// metric writes a computed value as a number and a marker as its label
func (w *workbook) metric(sheet string, col, row int, m types.Metric, style int) {
	if v, ok := m.Value(); ok {
		w.set(sheet, col, row, v.InexactFloat64())
		w.style(sheet, col, row, style)
		return
	}
	w.set(sheet, col, row, m.String())
}

func (w *workbook) header(sheet string, row int, titles ...string) {
	for i, t := range titles {
		w.set(sheet, i+1, row, t)
		w.style(sheet, i+1, row, w.styles.header)
	}
}

func (w *workbook) title(sheet string, row int, text string) {
	w.set(sheet, 1, row, sanitize(text))
	w.style(sheet, 1, row, w.styles.title)
}

func (w *workbook) bold(sheet string, row int) {
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(8, row)
	w.err = w.f.SetCellStyle(sheet, first, last, w.styles.bold)
}

func (w *workbook) deltaRow(sheet string, row int, lead []any, d diff.Delta) {
	w.values(sheet, row, lead...)
	col := len(lead) + 1
	w.metric(sheet, col, row, d.A, w.styles.money)
	w.metric(sheet, col+1, row, d.B, w.styles.money)
	w.metric(sheet, col+2, row, d.Abs, w.styles.money)
	w.metric(sheet, col+3, row, d.Pct, w.styles.pct)
}

func (w *workbook) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	var buf bytes.Buffer
	if err := w.f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitize prevents spreadsheet formula injection from user-entered text
func sanitize(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
