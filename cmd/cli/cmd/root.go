// Package cmd provides the CLI commands for solar-capex.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"solar-capex/adapters/scenario"
	"solar-capex/core/catalog"
	"solar-capex/internal/config"
	"solar-capex/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "solar-capex",
	Short: "Evaluate and compare solar project CAPEX budgets",
	Long: `solar-capex evaluates itemized capital-expenditure budgets for solar
projects: VAT resolution, AIU markup, category subtotals and unit
economics (cost per kWp, per MWac, per MWh). Scenarios can be compared
item by item or laid side by side.

Examples:
  solar-capex evaluate base.hcl
  solar-capex compare base.hcl expanded.json
  solar-capex matrix a.hcl b.hcl c.hcl
  solar-capex export --out budget.xlsx base.hcl
  solar-capex serve --addr :8080`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.solar-capex.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.SilenceErrors = true

	// Add subcommands
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadCatalog returns the configured catalog, or the built-in one
func loadCatalog() (*catalog.Catalog, error) {
	if path := config.Get().Catalog.Path; path != "" {
		return catalog.Load(path)
	}
	return catalog.Default(), nil
}

func newLoader() (*scenario.Loader, *catalog.Catalog, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, err
	}
	return scenario.NewLoader(config.Get().Engine, cat), cat, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "solar-capex version %s\n", Version)
	},
}
