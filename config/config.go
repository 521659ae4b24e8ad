package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/calendar"
	"github.com/rustyeddy/rendafixa/index"
	"github.com/rustyeddy/rendafixa/sim"
)

// Config represents the complete simulation configuration
type Config struct {
	Portfolio  PortfolioConfig  `json:"portfolio" yaml:"portfolio"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Rates      RatesConfig      `json:"rates" yaml:"rates"`
	Scenarios  []ScenarioConfig `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// PortfolioConfig lists the instruments to simulate
type PortfolioConfig struct {
	Name        string             `json:"name" yaml:"name"`
	Instruments []InstrumentConfig `json:"instruments" yaml:"instruments"`
}

// InstrumentConfig contains the construction parameters of one instrument
type InstrumentConfig struct {
	Name      string        `json:"name" yaml:"name"`
	Kind      string        `json:"kind" yaml:"kind"` // inflation, interbank, fixed, policy_rate, generic
	Principal float64       `json:"principal" yaml:"principal"`
	Start     calendar.Date `json:"start" yaml:"start"`
	End       calendar.Date `json:"end" yaml:"end"`
	Rate      float64       `json:"rate" yaml:"rate"`
	Operator  string        `json:"operator,omitempty" yaml:"operator,omitempty"` // additive or multiplicative
	Index     string        `json:"index,omitempty" yaml:"index,omitempty"`
	IndexRate *float64      `json:"index_rate,omitempty" yaml:"index_rate,omitempty"`

	SemiannualCoupon bool  `json:"semiannual_coupon,omitempty" yaml:"semiannual_coupon,omitempty"`
	CouponMonths     []int `json:"coupon_months,omitempty" yaml:"coupon_months,omitempty"`
}

// SimulationConfig contains the simulation window and periodic deposits
type SimulationConfig struct {
	Start         calendar.Date      `json:"start" yaml:"start"`
	End           calendar.Date      `json:"end" yaml:"end"`
	Contributions []sim.Contribution `json:"contributions,omitempty" yaml:"contributions,omitempty"`
}

// RatesConfig selects the monthly index rates of the base scenario
type RatesConfig struct {
	// Historical uses the built-in 2020-2024 IPCA and CDI series.
	Historical bool `json:"historical,omitempty" yaml:"historical,omitempty"`
	// Monthly overrides the default constant rates; zero fields keep the default.
	Monthly index.Rates `json:"monthly" yaml:"monthly"`
}

// ScenarioConfig is an alternative path for the index rates
type ScenarioConfig struct {
	Name string `json:"name" yaml:"name"`
	// Rates replaces the base constant rates for the indices it sets.
	Rates     index.Rates    `json:"rates" yaml:"rates"`
	Overrides []RateOverride `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// RateOverride pins the rate of an index for a single month
type RateOverride struct {
	Index string        `json:"index" yaml:"index"`
	Month calendar.Date `json:"month" yaml:"month"`
	Rate  float64       `json:"rate" yaml:"rate"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type    string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Dir     string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	OrgPath string `json:"org_path,omitempty" yaml:"org_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = &Config{}
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid. Every instrument is built
// once so that parameter errors surface here rather than mid-run.
func (c *Config) Validate() error {
	if len(c.Portfolio.Instruments) == 0 {
		return invalid("portfolio.instruments must not be empty")
	}
	if c.Simulation.Start.IsZero() || c.Simulation.End.IsZero() {
		return invalid("simulation.start and simulation.end are required")
	}
	if !c.Simulation.End.After(c.Simulation.Start) {
		return fmt.Errorf("simulation.end must be after simulation.start: %w", apperrors.ErrRange)
	}
	p, err := c.Build(index.Defaults())
	if err != nil {
		return err
	}
	start, end := c.Window()
	for _, in := range p.Instruments() {
		if !in.Covers(start, end) {
			return invalid("instrument %q matures or starts outside the simulation window", in.Name())
		}
	}
	for i, s := range c.Simulation.Contributions {
		if s.Amount <= 0 || s.Every <= 0 {
			return invalid("simulation.contributions[%d] needs a positive amount and interval", i)
		}
	}

	seen := make(map[string]bool)
	for i, s := range c.Scenarios {
		if s.Name == "" {
			return invalid("scenarios[%d].name is required", i)
		}
		if seen[s.Name] {
			return invalid("scenario %q is defined twice", s.Name)
		}
		seen[s.Name] = true
		for _, o := range s.Overrides {
			if _, err := index.Parse(o.Index); err != nil {
				return fmt.Errorf("scenario %q: %w", s.Name, err)
			}
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.Dir == "" {
			return invalid("journal.dir required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return invalid("journal.db_path required for SQLite type")
		}
	default:
		return invalid("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), apperrors.ErrConfiguration)
}

// Default returns a configuration with a sample portfolio
func Default() *Config {
	start := calendar.NewDate(2024, 1, 1)
	return &Config{
		Portfolio: PortfolioConfig{
			Name: "Minha Carteira",
			Instruments: []InstrumentConfig{
				{
					Name:             "Tesouro IPCA+ 2035",
					Kind:             "inflation",
					Principal:        10000,
					Start:            start,
					End:              calendar.NewDate(2035, 5, 15),
					Rate:             0.055,
					SemiannualCoupon: true,
					CouponMonths:     []int{5, 11},
				},
				{
					Name:      "CDB 105% CDI",
					Kind:      "interbank",
					Principal: 5000,
					Start:     start,
					End:       calendar.NewDate(2028, 1, 1),
					Rate:      1.05,
				},
				{
					Name:      "Tesouro Prefixado 2029",
					Kind:      "fixed",
					Principal: 5000,
					Start:     start,
					End:       calendar.NewDate(2029, 1, 1),
					Rate:      0.12,
				},
				{
					Name:      "Tesouro Selic 2029",
					Kind:      "policy_rate",
					Principal: 5000,
					Start:     start,
					End:       calendar.NewDate(2029, 3, 1),
					Rate:      1.0,
				},
			},
		},
		Simulation: SimulationConfig{
			Start: start,
			End:   calendar.NewDate(2027, 12, 1),
		},
		Rates: RatesConfig{Monthly: index.Defaults()},
		Scenarios: []ScenarioConfig{
			{Name: "pessimista", Rates: index.Rates{Inflation: 0.006, Interbank: 0.007, PolicyRate: 0.007}},
			{Name: "otimista", Rates: index.Rates{Inflation: 0.003, Interbank: 0.009, PolicyRate: 0.009}},
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./rendafixa.db",
		},
	}
}
