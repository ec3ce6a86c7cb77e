// Package cmd - evaluate, compare and matrix commands
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solar-capex/core/cost"
	"solar-capex/core/diff"
	"solar-capex/core/output"
	"solar-capex/core/types"
	"solar-capex/internal/config"
	"solar-capex/internal/logging"
)

var (
	outputFormat string
	showItems    bool
	language     string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <scenario>...",
	Short: "Evaluate one or more scenario files",
	Long: `Resolve prices and VAT, allocate AIU markup and roll items up into
category and scenario totals.

Scenario files may be JSON (.json) or HCL (.hcl).

Examples:
  solar-capex evaluate base.hcl
  solar-capex evaluate --format json base.json expanded.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluate,
}

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Compare two scenarios (B minus A)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

// matrixCmd represents the matrix command
var matrixCmd = &cobra.Command{
	Use:   "matrix <scenario>...",
	Short: "Lay scenarios side by side by category",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runMatrix,
}

func init() {
	for _, c := range []*cobra.Command{evaluateCmd, compareCmd, matrixCmd} {
		c.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json); default from config")
		c.Flags().BoolVar(&showItems, "items", false, "show per-item lines")
		c.Flags().StringVar(&language, "lang", "es", "category name language (es, en)")
	}
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	results, err := evaluateFiles(cmd.Context(), args)
	if err != nil {
		return err
	}
	return render(cmd, &output.Report{Scenarios: results}, start, args)
}

func runCompare(cmd *cobra.Command, args []string) error {
	start := time.Now()
	results, err := evaluateFiles(cmd.Context(), args)
	if err != nil {
		return err
	}
	comparison, err := diff.Compare(results[0], results[1])
	if err != nil {
		return err
	}
	return render(cmd, &output.Report{Comparison: comparison}, start, args)
}

func runMatrix(cmd *cobra.Command, args []string) error {
	start := time.Now()
	results, err := evaluateFiles(cmd.Context(), args)
	if err != nil {
		return err
	}
	matrix, err := diff.Matrix(results...)
	if err != nil {
		return err
	}
	return render(cmd, &output.Report{Matrix: matrix}, start, args)
}

// evaluateFiles loads every file, then evaluates them concurrently
func evaluateFiles(ctx context.Context, paths []string) ([]*types.ScenarioTotals, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	loader, _, err := newLoader()
	if err != nil {
		return nil, err
	}

	scenarios := make([]*types.Scenario, len(paths))
	for i, path := range paths {
		s, err := loader.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios[i] = s
	}

	logging.Info("evaluating scenarios", zap.Int("count", len(scenarios)))
	return cost.AggregateAll(ctx, scenarios)
}

func render(cmd *cobra.Command, report *output.Report, start time.Time, sources []string) error {
	cfg := config.Get()
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	report.Metadata = output.Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  time.Since(start).String(),
		Version:   Version,
		Source:    strings.Join(sources, ", "),
	}

	registry := output.NewRegistry(output.Options{
		ShowItems: showItems || cfg.Output.ShowItems,
		Catalog:   cat,
		Language:  language,
	})
	return registry.Render(cmd.OutOrStdout(), format, report)
}
