// Package config provides configuration management.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"solar-capex/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Engine contains calculation defaults
	Engine EngineConfig `json:"engine"`

	// Catalog contains category catalog settings
	Catalog CatalogConfig `json:"catalog"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EngineConfig holds defaults applied to scenarios that do not set them
type EngineConfig struct {
	// DefaultCurrency is used when a scenario omits its currency
	DefaultCurrency string `json:"default_currency"`

	// PricesIncludeVAT treats unit prices as VAT-inclusive
	PricesIncludeVAT bool `json:"prices_include_vat"`

	// ExcludeClientPays keeps client-paid items out of cost and markup bases
	ExcludeClientPays bool `json:"exclude_client_pays"`

	// DefaultVATRate is used for items that omit their VAT rate (percent)
	DefaultVATRate decimal.Decimal `json:"default_vat_rate"`

	// ProfitTaxRate is the default tax rate on the profit component (percent)
	ProfitTaxRate decimal.Decimal `json:"profit_tax_rate"`
}

// CatalogConfig contains category catalog settings
type CatalogConfig struct {
	// Path is an optional JSON catalog file; empty uses the built-in catalog
	Path string `json:"path,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowItems lists per-item results in CLI output
	ShowItems bool `json:"show_items"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Engine: EngineConfig{
			DefaultCurrency:   "COP",
			PricesIncludeVAT:  false,
			ExcludeClientPays: true,
			DefaultVATRate:    decimal.NewFromInt(19),
			ProfitTaxRate:     decimal.NewFromInt(19),
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowItems:     true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.solar-capex.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".solar-capex.json")
}

// Load loads configuration from a file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

var (
	mu           sync.RWMutex
	globalConfig = Default()
)

// Get returns the global configuration
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = config
}
