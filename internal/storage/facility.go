package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/BrokenHeaven/storage/internal/period"
)

// InjectWithdrawRange is the feasible net volume range for one decision.
// Convention: positive = injection, negative = withdrawal.
type InjectWithdrawRange struct {
	MinVolume float64 // most negative (max withdrawal)
	MaxVolume float64 // most positive (max injection)
}

// Cashflow is a dated amount. Positive amounts are costs to the operator.
type Cashflow struct {
	Date   time.Time
	Amount float64
}

// InventoryFunc gives an inventory bound for a period.
type InventoryFunc func(p period.Period) float64

// RangeFunc gives the feasible net volume range at a period and inventory.
type RangeFunc func(p period.Period, inventory float64) InjectWithdrawRange

// CostFunc gives the cash flows incurred by performing volume at a period
// from the given starting inventory.
type CostFunc func(p period.Period, inventoryBefore, volume float64) []Cashflow

// ConsumedFunc gives the commodity volume consumed (burned, not stored or
// delivered) by performing volume at a period.
type ConsumedFunc func(p period.Period, inventoryBefore, volume float64) float64

// TerminalValueFunc values inventory left at the end period, given the spot
// price at that period.
type TerminalValueFunc func(price, inventory float64) float64

// Facility is an immutable storage contract over [StartPeriod, EndPeriod].
// Injection and withdrawal decisions occur at periods StartPeriod..EndPeriod-1;
// the end period carries only the terminal inventory value.
type Facility struct {
	start, end period.Period

	minInventory, maxInventory InventoryFunc
	feasibleRange              RangeFunc

	injectionCost, withdrawalCost         CostFunc
	consumedOnInject, consumedOnWithdraw ConsumedFunc

	terminalValue    TerminalValueFunc
	mustBeEmptyAtEnd bool
}

// Config fully describes a Facility. All cross-field validation happens once,
// in New; there is no staged construction.
type Config struct {
	Start period.Period
	End   period.Period

	MinInventory  InventoryFunc
	MaxInventory  InventoryFunc
	FeasibleRange RangeFunc

	// Optional; nil means zero cost.
	InjectionCost  CostFunc
	WithdrawalCost CostFunc

	// Optional; nil means no commodity consumed.
	ConsumedOnInject   ConsumedFunc
	ConsumedOnWithdraw ConsumedFunc

	// Optional; nil means leftover inventory is worthless.
	TerminalValue TerminalValueFunc

	MustBeEmptyAtEnd bool
}

func New(cfg Config) (*Facility, error) {
	if cfg.End <= cfg.Start {
		return nil, fmt.Errorf("end period %s must be after start period %s", cfg.End, cfg.Start)
	}
	if cfg.MinInventory == nil || cfg.MaxInventory == nil {
		return nil, errors.New("MinInventory and MaxInventory are required")
	}
	if cfg.FeasibleRange == nil {
		return nil, errors.New("FeasibleRange is required")
	}
	for p := cfg.Start; p <= cfg.End; p++ {
		if cfg.MinInventory(p) > cfg.MaxInventory(p) {
			return nil, fmt.Errorf("min inventory exceeds max inventory at %s", p)
		}
	}
	if cfg.MustBeEmptyAtEnd && cfg.MinInventory(cfg.End) > 0 {
		return nil, fmt.Errorf("must-be-empty facility has min inventory %v > 0 at end period", cfg.MinInventory(cfg.End))
	}

	f := &Facility{
		start:              cfg.Start,
		end:                cfg.End,
		minInventory:       cfg.MinInventory,
		maxInventory:       cfg.MaxInventory,
		feasibleRange:      cfg.FeasibleRange,
		injectionCost:      cfg.InjectionCost,
		withdrawalCost:     cfg.WithdrawalCost,
		consumedOnInject:   cfg.ConsumedOnInject,
		consumedOnWithdraw: cfg.ConsumedOnWithdraw,
		terminalValue:      cfg.TerminalValue,
		mustBeEmptyAtEnd:   cfg.MustBeEmptyAtEnd,
	}
	if f.injectionCost == nil {
		f.injectionCost = func(period.Period, float64, float64) []Cashflow { return nil }
	}
	if f.withdrawalCost == nil {
		f.withdrawalCost = func(period.Period, float64, float64) []Cashflow { return nil }
	}
	if f.consumedOnInject == nil {
		f.consumedOnInject = func(period.Period, float64, float64) float64 { return 0 }
	}
	if f.consumedOnWithdraw == nil {
		f.consumedOnWithdraw = func(period.Period, float64, float64) float64 { return 0 }
	}
	if f.terminalValue == nil {
		f.terminalValue = func(float64, float64) float64 { return 0 }
	}
	return f, nil
}

func (f *Facility) StartPeriod() period.Period { return f.start }
func (f *Facility) EndPeriod() period.Period   { return f.end }
func (f *Facility) MustBeEmptyAtEnd() bool     { return f.mustBeEmptyAtEnd }

func (f *Facility) MinInventory(p period.Period) float64 {
	if f.mustBeEmptyAtEnd && p == f.end {
		return 0
	}
	return f.minInventory(p)
}

// MaxInventory is forced to zero at the end period when the contract requires
// the facility to finish empty.
func (f *Facility) MaxInventory(p period.Period) float64 {
	if f.mustBeEmptyAtEnd && p == f.end {
		return 0
	}
	return f.maxInventory(p)
}

func (f *Facility) FeasibleRange(p period.Period, inventory float64) InjectWithdrawRange {
	return f.feasibleRange(p, inventory)
}

func (f *Facility) InjectionCashflows(p period.Period, inventoryBefore, volume float64) []Cashflow {
	return f.injectionCost(p, inventoryBefore, volume)
}

func (f *Facility) WithdrawalCashflows(p period.Period, inventoryBefore, volume float64) []Cashflow {
	return f.withdrawalCost(p, inventoryBefore, volume)
}

func (f *Facility) CmdtyConsumedOnInject(p period.Period, inventoryBefore, volume float64) float64 {
	return f.consumedOnInject(p, inventoryBefore, volume)
}

func (f *Facility) CmdtyConsumedOnWithdraw(p period.Period, inventoryBefore, volume float64) float64 {
	return f.consumedOnWithdraw(p, inventoryBefore, volume)
}

func (f *Facility) TerminalValue(price, inventory float64) float64 {
	return f.terminalValue(price, inventory)
}
