package models

import (
	"github.com/BrokenHeaven/storage/internal/config"
	"github.com/BrokenHeaven/storage/internal/data"
)

// FacilitySpec is the request-body shape of a storage facility.
type FacilitySpec struct {
	Name  string `json:"name"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`

	MinInventory float64 `json:"min_inventory"`
	MaxInventory float64 `json:"max_inventory" binding:"required"`

	MaxInjectionRate  float64 `json:"max_injection_rate"`
	MaxWithdrawalRate float64 `json:"max_withdrawal_rate"`

	PerUnitInjectionCost  float64 `json:"per_unit_injection_cost"`
	PerUnitWithdrawalCost float64 `json:"per_unit_withdrawal_cost"`

	PercentConsumedOnInject   float64 `json:"percent_consumed_on_inject"`
	PercentConsumedOnWithdraw float64 `json:"percent_consumed_on_withdraw"`

	MustBeEmptyAtEnd bool `json:"must_be_empty_at_end"`
}

func (s FacilitySpec) ToConfig() config.FacilityConfig {
	return config.FacilityConfig{
		Name:                      s.Name,
		Start:                     s.Start,
		End:                       s.End,
		MinInventory:              s.MinInventory,
		MaxInventory:              s.MaxInventory,
		MaxInjectionRate:          s.MaxInjectionRate,
		MaxWithdrawalRate:         s.MaxWithdrawalRate,
		PerUnitInjectionCost:      s.PerUnitInjectionCost,
		PerUnitWithdrawalCost:     s.PerUnitWithdrawalCost,
		PercentConsumedOnInject:   s.PercentConsumedOnInject,
		PercentConsumedOnWithdraw: s.PercentConsumedOnWithdraw,
		MustBeEmptyAtEnd:          s.MustBeEmptyAtEnd,
	}
}

// IntrinsicRequest is the body of POST /api/v1/value/intrinsic.
type IntrinsicRequest struct {
	Facility FacilitySpec      `json:"facility" binding:"required"`
	Curve    []data.CurvePoint `json:"curve" binding:"required"`

	ValuationDate     string  `json:"valuation_date" binding:"required"`
	StartingInventory float64 `json:"starting_inventory"`

	InterestRate      float64 `json:"interest_rate"`
	SettlementLagDays int     `json:"settlement_lag_days"`

	GridSpacing   float64 `json:"grid_spacing"`
	NumGridPoints int     `json:"num_grid_points"`
	Tolerance     float64 `json:"tolerance"`
}

// TreeRequest is the body of POST /api/v1/value/tree: an intrinsic request
// plus the trinomial diffusion parameters.
type TreeRequest struct {
	IntrinsicRequest

	SpotVolatility float64 `json:"spot_volatility" binding:"required"`
	MeanReversion  float64 `json:"mean_reversion"`
	TimeDelta      float64 `json:"time_delta"`
}
