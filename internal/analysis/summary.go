package analysis

import (
	"math"

	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/valuation"
)

// Summary condenses a decision profile into the headline figures a desk
// looks at before the per-period detail.
type Summary struct {
	Start period.Period
	End   period.Period

	Periods          int
	InjectingPeriods int
	WithdrawingPeriods int
	IdlePeriods      int

	TotalInjected  float64
	TotalWithdrawn float64
	TotalConsumed  float64

	// Cycles is total withdrawn volume over peak inventory: how many times
	// the space effectively turned over.
	Cycles float64

	PeakInventory float64
	NPV           float64
}

func Summarize(npv float64, profile []valuation.ProfileRow) Summary {
	s := Summary{NPV: npv}
	if len(profile) == 0 {
		return s
	}
	s.Start = profile[0].Period
	s.End = profile[len(profile)-1].Period
	s.Periods = len(profile)

	for _, row := range profile {
		switch row.Action {
		case valuation.ActionInjecting:
			s.InjectingPeriods++
			s.TotalInjected += row.Volume
		case valuation.ActionWithdrawing:
			s.WithdrawingPeriods++
			s.TotalWithdrawn += -row.Volume
		default:
			s.IdlePeriods++
		}
		s.TotalConsumed += row.CmdtyConsumed
		s.PeakInventory = math.Max(s.PeakInventory, row.InventoryAfter)
	}
	if s.PeakInventory > 0 {
		s.Cycles = s.TotalWithdrawn / s.PeakInventory
	}
	return s
}
