package output

import (
	"fmt"
	"io"
	"strings"

	"solar-capex/core/diff"
	"solar-capex/core/types"
)

const (
	boxWidth   = 73
	labelWidth = 46
	valueWidth = 22

	cliTopDrivers = 5
)

// CLIFormatter renders boxed tables for a terminal
type CLIFormatter struct {
	opts Options
}

// NewCLIFormatter creates a table formatter
func NewCLIFormatter(opts Options) *CLIFormatter {
	if opts.Language == "" {
		opts.Language = "es"
	}
	return &CLIFormatter{opts: opts}
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render writes every non-empty section of the report
func (f *CLIFormatter) Render(w io.Writer, report *Report) error {
	t := &table{w: w}
	for _, s := range report.Scenarios {
		f.renderScenario(t, s)
	}
	if report.Comparison != nil {
		f.renderComparison(t, report.Comparison)
	}
	if report.Matrix != nil {
		f.renderMatrix(t, report.Matrix)
	}
	if report.Metadata.Duration != "" {
		t.printf("\nEvaluated in %s\n", report.Metadata.Duration)
	}
	return t.err
}

func (f *CLIFormatter) category(code string) string {
	return f.opts.Catalog.DisplayName(code, f.opts.Language)
}

func (f *CLIFormatter) renderScenario(t *table, s *types.ScenarioTotals) {
	t.top()
	t.title(fmt.Sprintf("%s (%s)", s.ScenarioName, s.Currency))
	t.divider()

	for _, c := range s.Categories {
		t.row(f.category(c.Code), Money(c.TotalInclVAT))
		if !f.opts.ShowItems {
			continue
		}
		for _, r := range s.Items {
			if r.Item.Category() != c.Code {
				continue
			}
			label := "  └─ " + r.Item.Name
			if !r.CostBasis {
				label += " (client)"
			}
			t.row(label, Money(r.Resolved.TotalInclVAT))
		}
	}

	t.divider()
	m := s.Markup
	t.row("Direct cost (excl. VAT)", Money(s.DirectCost.Base))
	if m.Enabled {
		t.row("  Administration", Money(m.Admin))
		t.row("  Contingency", Money(m.Contingency))
		t.row("  Profit", Money(m.Profit))
		if !m.ProfitTax.IsZero() {
			t.row("  Tax on profit", Money(m.ProfitTax))
		}
		t.row("AIU total", Money(m.Total))
	}
	t.row("VAT", Money(s.TotalVAT))
	t.divider()
	t.row("GRAND TOTAL (excl. VAT)", Money(s.GrandTotalExclVAT))
	t.row("GRAND TOTAL (incl. VAT)", Money(s.GrandTotalInclVAT))
	if !s.Client.Base.IsZero() {
		t.row("Client-supplied (excl. VAT)", Money(s.Client.Base))
		t.row("PROJECT TOTAL", Money(s.ProjectTotal))
	}
	t.divider()
	t.row("Cost per kWp", MetricMoney(s.Metrics.CostPerKWp))
	t.row("Cost per MWac", MetricMoney(s.Metrics.CostPerMWac))
	t.row("Cost per MWh (P50)", MetricMoney(s.Metrics.CostPerMWhP50))
	t.row("Cost per MWh (P90)", MetricMoney(s.Metrics.CostPerMWhP90))
	t.bottom()
}

func (f *CLIFormatter) renderComparison(t *table, c *diff.Comparison) {
	t.top()
	t.title(fmt.Sprintf("%s → %s", c.A.Name, c.B.Name))
	t.divider()
	for _, cat := range c.Categories {
		t.delta(f.category(cat.Code), cat.TotalInclVAT)
	}
	if f.opts.ShowItems {
		t.divider()
		for _, it := range c.Items {
			if it.ChangeType == diff.ChangeUnchanged {
				continue
			}
			t.delta(fmt.Sprintf("[%s] %s", it.ChangeType, itemLabel(it)), it.TotalInclVAT)
		}
	}
	t.divider()
	for _, total := range c.Totals {
		t.delta(total.Name, total.Delta)
	}
	if drivers := c.TopDrivers(cliTopDrivers); len(drivers) > 0 {
		t.divider()
		t.title("Top drivers (base excl. VAT)")
		for _, it := range drivers {
			t.delta(itemLabel(it), it.BaseExclVAT)
		}
	}
	if len(c.Anomalies) > 0 {
		t.divider()
		t.title("Anomalies")
		for _, an := range c.Anomalies {
			t.title(fmt.Sprintf("[%s] %s: %s", an.Scenario, an.ItemName, an.Detail))
		}
	}
	t.divider()
	t.printf("│ %-*s │\n", boxWidth-4, fmt.Sprintf("items: +%d added, -%d removed, ~%d modified, =%d unchanged",
		c.AddedCount, c.RemovedCount, c.ModifiedCount, c.UnchangedCount))
	t.bottom()
}

func itemLabel(it diff.ItemDiff) string {
	if it.Name == "" {
		return it.ID
	}
	return it.Name
}

func (f *CLIFormatter) renderMatrix(t *table, m *diff.ComparisonMatrix) {
	const colWidth = 18
	names := make([]string, len(m.Scenarios))
	for i, s := range m.Scenarios {
		names[i] = truncate(s.Name, colWidth)
	}

	line := func(label string, values []string) {
		var b strings.Builder
		fmt.Fprintf(&b, "%-28s", truncate(label, 28))
		for _, v := range values {
			fmt.Fprintf(&b, " %*s", colWidth, v)
		}
		t.printf("%s\n", b.String())
	}

	render := func(rows []diff.MatrixRow, label func(string) string) {
		for _, r := range rows {
			values := make([]string, len(r.Values))
			for i, v := range r.Values {
				values[i] = MetricMoney(v)
			}
			line(label(r.Key), values)
		}
	}

	t.printf("\n")
	line("", names)
	render(m.Rows, func(key string) string {
		switch key {
		case diff.RowAIU:
			return "AIU"
		case diff.RowTotalProject:
			return "Project total"
		}
		return f.category(key)
	})
	t.printf("\n")
	render(m.Overview, func(key string) string { return key })
}

// table writes box-drawn rows and remembers the first write error
type table struct {
	w   io.Writer
	err error
}

func (t *table) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *table) top()     { t.printf("┌%s┐\n", strings.Repeat("─", boxWidth-2)) }
func (t *table) divider() { t.printf("├%s┤\n", strings.Repeat("─", boxWidth-2)) }
func (t *table) bottom()  { t.printf("└%s┘\n", strings.Repeat("─", boxWidth-2)) }

func (t *table) title(s string) {
	t.printf("│ %-*s │\n", boxWidth-4, truncate(s, boxWidth-4))
}

func (t *table) row(label, value string) {
	t.printf("│ %-*s %*s │\n", labelWidth, truncate(label, labelWidth), valueWidth, value)
}

func (t *table) delta(label string, d diff.Delta) {
	t.printf("│ %-*s %*s %10s │\n", labelWidth-11, truncate(label, labelWidth-11), valueWidth, SignedMoney(d.Abs), MetricPercent(d.Pct))
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
