package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/storage"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load facility parameters from a separate YAML (e.g.
	// examples/facilities/*.yaml). If both FacilityFile and Facility are
	// provided, Facility overrides FacilityFile.
	FacilityFile string          `yaml:"facility_file"`
	Facility     FacilityConfig  `yaml:"facility"`
	Valuation    ValuationConfig `yaml:"valuation"`
	Tree         TreeConfig      `yaml:"tree"`
}

type FacilityConfig struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	MinInventory float64 `yaml:"min_inventory"`
	MaxInventory float64 `yaml:"max_inventory"`

	MaxInjectionRate  float64 `yaml:"max_injection_rate"`
	MaxWithdrawalRate float64 `yaml:"max_withdrawal_rate"`

	PerUnitInjectionCost  float64 `yaml:"per_unit_injection_cost"`
	PerUnitWithdrawalCost float64 `yaml:"per_unit_withdrawal_cost"`

	PercentConsumedOnInject   float64 `yaml:"percent_consumed_on_inject"`
	PercentConsumedOnWithdraw float64 `yaml:"percent_consumed_on_withdraw"`

	MustBeEmptyAtEnd bool `yaml:"must_be_empty_at_end"`
}

type ValuationConfig struct {
	ValuationDate     string  `yaml:"valuation_date"`
	StartingInventory float64 `yaml:"starting_inventory"`

	InterestRate      float64 `yaml:"interest_rate"`
	SettlementLagDays int     `yaml:"settlement_lag_days"`

	// GridSpacing takes precedence over NumGridPoints when both are set.
	GridSpacing   float64 `yaml:"grid_spacing"`
	NumGridPoints int     `yaml:"num_grid_points"`

	Tolerance float64 `yaml:"tolerance"`
}

// TreeConfig parameterizes the trinomial price lattice for tree valuations.
type TreeConfig struct {
	MeanReversion  float64 `yaml:"mean_reversion"`
	SpotVolatility float64 `yaml:"spot_volatility"`
	TimeDelta      float64 `yaml:"time_delta"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If facility_file is set, load it and merge in any explicit overrides
	// from c.Facility.
	if c.FacilityFile != "" {
		facilityPath := c.FacilityFile
		if !filepath.IsAbs(facilityPath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, falling back to the path as given.
			cand := filepath.Join(filepath.Dir(path), facilityPath)
			if _, err := os.Stat(cand); err == nil {
				facilityPath = cand
			}
		}
		loaded, err := loadFacilityFile(facilityPath)
		if err != nil {
			return nil, err
		}
		c.Facility = MergeFacility(loaded, c.Facility)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	// Validate facility params by constructing a storage.Facility.
	if _, err := c.Facility.Build(); err != nil {
		return fmt.Errorf("facility config invalid: %w", err)
	}
	if c.Valuation.StartingInventory < 0 {
		return errors.New("valuation.starting_inventory must be >= 0")
	}
	if c.Valuation.GridSpacing < 0 {
		return errors.New("valuation.grid_spacing must be >= 0")
	}
	if c.Valuation.Tolerance < 0 {
		return errors.New("valuation.tolerance must be >= 0")
	}
	if c.Valuation.ValuationDate != "" {
		if _, err := period.Parse(c.Valuation.ValuationDate); err != nil {
			return fmt.Errorf("valuation.valuation_date: %w", err)
		}
	}
	return nil
}

// Build constructs the validated Facility described by the config.
func (fc FacilityConfig) Build() (*storage.Facility, error) {
	start, err := period.Parse(fc.Start)
	if err != nil {
		return nil, fmt.Errorf("facility.start: %w", err)
	}
	end, err := period.Parse(fc.End)
	if err != nil {
		return nil, fmt.Errorf("facility.end: %w", err)
	}
	return storage.NewSimple(storage.SimpleConfig{
		Start:                     start,
		End:                       end,
		MinInventory:              fc.MinInventory,
		MaxInventory:              fc.MaxInventory,
		MaxInjectionRate:          fc.MaxInjectionRate,
		MaxWithdrawalRate:         fc.MaxWithdrawalRate,
		PerUnitInjectionCost:      fc.PerUnitInjectionCost,
		PerUnitWithdrawalCost:     fc.PerUnitWithdrawalCost,
		PercentConsumedOnInject:   fc.PercentConsumedOnInject,
		PercentConsumedOnWithdraw: fc.PercentConsumedOnWithdraw,
		MustBeEmptyAtEnd:          fc.MustBeEmptyAtEnd,
	})
}

type facilityFileWrapper struct {
	Facility FacilityConfig `yaml:"facility"`
}

func loadFacilityFile(path string) (FacilityConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FacilityConfig{}, err
	}
	var w facilityFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return FacilityConfig{}, err
	}
	return w.Facility, nil
}

// MergeFacility overlays non-zero fields from override onto base.
// This is used when loading a facility file and then applying overrides from
// the request.
func MergeFacility(base, override FacilityConfig) FacilityConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Start != "" {
		out.Start = override.Start
	}
	if override.End != "" {
		out.End = override.End
	}
	if override.MinInventory != 0 {
		out.MinInventory = override.MinInventory
	}
	if override.MaxInventory != 0 {
		out.MaxInventory = override.MaxInventory
	}
	if override.MaxInjectionRate != 0 {
		out.MaxInjectionRate = override.MaxInjectionRate
	}
	if override.MaxWithdrawalRate != 0 {
		out.MaxWithdrawalRate = override.MaxWithdrawalRate
	}
	if override.PerUnitInjectionCost != 0 {
		out.PerUnitInjectionCost = override.PerUnitInjectionCost
	}
	if override.PerUnitWithdrawalCost != 0 {
		out.PerUnitWithdrawalCost = override.PerUnitWithdrawalCost
	}
	if override.PercentConsumedOnInject != 0 {
		out.PercentConsumedOnInject = override.PercentConsumedOnInject
	}
	if override.PercentConsumedOnWithdraw != 0 {
		out.PercentConsumedOnWithdraw = override.PercentConsumedOnWithdraw
	}
	if override.MustBeEmptyAtEnd {
		out.MustBeEmptyAtEnd = true
	}
	return out
}
