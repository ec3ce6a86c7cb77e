package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"solar-capex/adapters/export"
	"solar-capex/core/diff"
)

var exportOut string

// exportCmd writes XLSX or CSV files
var exportCmd = &cobra.Command{
	Use:   "export <scenario> [scenario-b]",
	Short: "Export a scenario (or a comparison of two) to XLSX or CSV",
	Long: `Write an evaluated scenario to a workbook (Inputs, Items, Categories,
Markup, Summary) or, with two scenarios, a Comparison workbook.
The format follows the --out extension: .xlsx or .csv.

Examples:
  solar-capex export --out budget.xlsx base.hcl
  solar-capex export --out items.csv base.hcl
  solar-capex export --out diff.xlsx base.hcl expanded.hcl`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (.xlsx or .csv)")
	_ = exportCmd.MarkFlagRequired("out")
	exportCmd.Flags().StringVar(&language, "lang", "es", "category name language (es, en)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ext := strings.ToLower(filepath.Ext(exportOut))
	if ext != ".xlsx" && ext != ".csv" {
		return fmt.Errorf("unsupported export extension %q (want .xlsx or .csv)", filepath.Ext(exportOut))
	}

	results, err := evaluateFiles(cmd.Context(), args)
	if err != nil {
		return err
	}
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	exporter := export.New(cat, language)

	var comparison *diff.Comparison
	if len(results) == 2 {
		if comparison, err = diff.Compare(results[0], results[1]); err != nil {
			return err
		}
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOut, err)
	}
	defer f.Close()

	if ext == ".xlsx" {
		var data []byte
		if comparison != nil {
			data, err = exporter.ComparisonXLSX(comparison)
		} else {
			data, err = exporter.ScenarioXLSX(results[0])
		}
		if err != nil {
			return err
		}
		_, err = f.Write(data)
	} else if comparison != nil {
		err = exporter.ComparisonCSV(f, comparison)
	} else {
		err = exporter.ItemsCSV(f, results[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOut)
	return nil
}
