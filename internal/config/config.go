// Package config provides configuration loading and management for playbook.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	BudgetPoints int                `json:"budget_points" mapstructure:"budget_points"`
	KPIWeights   map[string]float64 `json:"kpi_weights"   mapstructure:"kpi_weights"`
	TitleAliases map[string]string  `json:"title_aliases" mapstructure:"title_aliases"`
	Timeouts     Timeouts           `json:"timeouts"      mapstructure:"timeouts"`
	Retries      int                `json:"retries,omitempty"   mapstructure:"retries"`
	Providers    ProviderConfig     `json:"providers"     mapstructure:"providers"`
	Retention    RetentionPolicy    `json:"retention,omitempty" mapstructure:"retention"`
}

// Timeouts bounds agent execution.
type Timeouts struct {
	PerAgent time.Duration `json:"per_agent" mapstructure:"per_agent"`
	Global   time.Duration `json:"global"    mapstructure:"global"`
}

// ProviderConfig selects the intelligence provider implementation.
type ProviderConfig struct {
	Type          string `json:"type"                     mapstructure:"type"`
	CatalogDir    string `json:"catalog_dir,omitempty"    mapstructure:"catalog_dir"`
	MarketContext string `json:"market_context,omitempty" mapstructure:"market_context"`
}

// RetentionPolicy defines how many old runs to keep.
type RetentionPolicy struct {
	KeepLast int `json:"keep_last,omitempty" mapstructure:"keep_last"`
	KeepDays int `json:"keep_days,omitempty" mapstructure:"keep_days"`
}

// Provider implementation names accepted in ProviderConfig.Type.
const (
	ProviderStatic  = "static"
	ProviderCatalog = "catalog"
)

// Default bounds applied when the config leaves them unset.
const (
	DefaultPerAgentTimeout = 30 * time.Second
	DefaultGlobalTimeout   = 2 * time.Minute
)

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeouts.PerAgent <= 0 {
		c.Timeouts.PerAgent = DefaultPerAgentTimeout
	}
	if c.Timeouts.Global <= 0 {
		c.Timeouts.Global = DefaultGlobalTimeout
	}
	if c.Providers.Type == "" {
		c.Providers.Type = ProviderStatic
	}
	if c.KPIWeights == nil {
		c.KPIWeights = map[string]float64{}
	}
	if c.TitleAliases == nil {
		c.TitleAliases = map[string]string{}
	}
}

// Validate checks cross-field constraints the JSON schema cannot express.
func (c Config) Validate() error {
	if c.BudgetPoints < 0 {
		return fmt.Errorf("budget_points must be >= 0, got %d", c.BudgetPoints)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0, got %d", c.Retries)
	}
	switch c.Providers.Type {
	case ProviderStatic:
	case ProviderCatalog:
		if c.Providers.CatalogDir == "" {
			return fmt.Errorf("providers.catalog_dir is required for the catalog provider")
		}
	default:
		return fmt.Errorf("unknown providers.type %q", c.Providers.Type)
	}
	for name, weight := range c.KPIWeights {
		if weight < 0 {
			return fmt.Errorf("kpi_weights[%q] must be >= 0, got %v", name, weight)
		}
	}
	return nil
}
