package storage

import (
	"fmt"
	"math"

	"github.com/BrokenHeaven/storage/internal/period"
)

// SimpleConfig describes the common case of constant bounds, constant
// rates, per-unit costs settled on the decision day, and fixed percentage
// commodity consumption. It compiles down to a full Config.
type SimpleConfig struct {
	Start period.Period
	End   period.Period

	MinInventory float64
	MaxInventory float64

	// Per-period rate limits, as positive magnitudes.
	MaxInjectionRate  float64
	MaxWithdrawalRate float64

	// Per-unit costs in currency per unit of volume moved.
	PerUnitInjectionCost  float64
	PerUnitWithdrawalCost float64

	// Fractions of the moved volume burned to perform the action, in [0,1).
	PercentConsumedOnInject   float64
	PercentConsumedOnWithdraw float64

	MustBeEmptyAtEnd bool

	// Optional; nil means leftover inventory is worthless.
	TerminalValue TerminalValueFunc
}

func NewSimple(cfg SimpleConfig) (*Facility, error) {
	if cfg.MinInventory < 0 {
		return nil, fmt.Errorf("min inventory must be >= 0, got %v", cfg.MinInventory)
	}
	if cfg.MaxInventory < cfg.MinInventory {
		return nil, fmt.Errorf("max inventory %v below min inventory %v", cfg.MaxInventory, cfg.MinInventory)
	}
	if cfg.MaxInjectionRate < 0 || cfg.MaxWithdrawalRate < 0 {
		return nil, fmt.Errorf("rate limits must be >= 0")
	}
	if cfg.PercentConsumedOnInject < 0 || cfg.PercentConsumedOnInject >= 1 ||
		cfg.PercentConsumedOnWithdraw < 0 || cfg.PercentConsumedOnWithdraw >= 1 {
		return nil, fmt.Errorf("consumed percentages must be in [0,1)")
	}
	if cfg.MustBeEmptyAtEnd && cfg.MinInventory > 0 {
		return nil, fmt.Errorf("must-be-empty facility cannot have min inventory %v > 0", cfg.MinInventory)
	}

	full := Config{
		Start:            cfg.Start,
		End:              cfg.End,
		MinInventory:     func(period.Period) float64 { return cfg.MinInventory },
		MaxInventory:     func(period.Period) float64 { return cfg.MaxInventory },
		MustBeEmptyAtEnd: cfg.MustBeEmptyAtEnd,
		TerminalValue:    cfg.TerminalValue,
	}

	full.FeasibleRange = func(p period.Period, inventory float64) InjectWithdrawRange {
		// Rate limits clipped so a single decision cannot leave the local
		// inventory bounds.
		maxInject := math.Min(cfg.MaxInjectionRate, cfg.MaxInventory-inventory)
		maxWithdraw := math.Min(cfg.MaxWithdrawalRate, inventory-cfg.MinInventory)
		if maxInject < 0 {
			maxInject = 0
		}
		if maxWithdraw < 0 {
			maxWithdraw = 0
		}
		return InjectWithdrawRange{MinVolume: -maxWithdraw, MaxVolume: maxInject}
	}

	if cfg.PerUnitInjectionCost != 0 {
		cost := cfg.PerUnitInjectionCost
		full.InjectionCost = func(p period.Period, _, volume float64) []Cashflow {
			return []Cashflow{{Date: p.Time(), Amount: cost * math.Abs(volume)}}
		}
	}
	if cfg.PerUnitWithdrawalCost != 0 {
		cost := cfg.PerUnitWithdrawalCost
		full.WithdrawalCost = func(p period.Period, _, volume float64) []Cashflow {
			return []Cashflow{{Date: p.Time(), Amount: cost * math.Abs(volume)}}
		}
	}
	if cfg.PercentConsumedOnInject != 0 {
		pct := cfg.PercentConsumedOnInject
		full.ConsumedOnInject = func(_ period.Period, _, volume float64) float64 {
			return pct * math.Abs(volume)
		}
	}
	if cfg.PercentConsumedOnWithdraw != 0 {
		pct := cfg.PercentConsumedOnWithdraw
		full.ConsumedOnWithdraw = func(_ period.Period, _, volume float64) float64 {
			return pct * math.Abs(volume)
		}
	}

	return New(full)
}
