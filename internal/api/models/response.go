package models

import (
	"github.com/BrokenHeaven/storage/internal/analysis"
	"github.com/BrokenHeaven/storage/internal/valuation"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ProfileRow struct {
	Period          string  `json:"period"`
	Price           float64 `json:"price"`
	Action          string  `json:"action"`
	Volume          float64 `json:"volume"`
	CmdtyConsumed   float64 `json:"cmdty_consumed"`
	InventoryBefore float64 `json:"inventory_before"`
	InventoryAfter  float64 `json:"inventory_after"`
	NPV             float64 `json:"npv"`
	CumNPV          float64 `json:"cum_npv"`
}

type Summary struct {
	Periods            int     `json:"periods"`
	InjectingPeriods   int     `json:"injecting_periods"`
	WithdrawingPeriods int     `json:"withdrawing_periods"`
	IdlePeriods        int     `json:"idle_periods"`
	TotalInjected      float64 `json:"total_injected"`
	TotalWithdrawn     float64 `json:"total_withdrawn"`
	TotalConsumed      float64 `json:"total_consumed"`
	Cycles             float64 `json:"cycles"`
	PeakInventory      float64 `json:"peak_inventory"`
}

type ValuationResponse struct {
	NPV     float64      `json:"npv"`
	Summary Summary      `json:"summary"`
	Profile []ProfileRow `json:"profile"`
}

func NewValuationResponse(npv float64, profile []valuation.ProfileRow) ValuationResponse {
	s := analysis.Summarize(npv, profile)
	resp := ValuationResponse{
		NPV: npv,
		Summary: Summary{
			Periods:            s.Periods,
			InjectingPeriods:   s.InjectingPeriods,
			WithdrawingPeriods: s.WithdrawingPeriods,
			IdlePeriods:        s.IdlePeriods,
			TotalInjected:      s.TotalInjected,
			TotalWithdrawn:     s.TotalWithdrawn,
			TotalConsumed:      s.TotalConsumed,
			Cycles:             s.Cycles,
			PeakInventory:      s.PeakInventory,
		},
		Profile: make([]ProfileRow, 0, len(profile)),
	}
	for _, r := range profile {
		resp.Profile = append(resp.Profile, ProfileRow{
			Period:          r.Period.String(),
			Price:           r.Price,
			Action:          string(r.Action),
			Volume:          r.Volume,
			CmdtyConsumed:   r.CmdtyConsumed,
			InventoryBefore: r.InventoryBefore,
			InventoryAfter:  r.InventoryAfter,
			NPV:             r.NPV,
			CumNPV:          r.CumNPV,
		})
	}
	return resp
}
