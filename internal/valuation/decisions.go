package valuation

import (
	"math"

	"github.com/BrokenHeaven/storage/internal/storage"
)

// BangBangDecisionSet returns the finite candidate net volumes sufficient to
// contain the optimum at one (period, inventory): the extreme feasible
// injection and withdrawal clipped into the next period's inventory range,
// plus zero when idling is feasible. Candidates within tolerance of each
// other are collapsed. The result is ordered ascending.
//
// Storage cash flows are volume-monotone and continuation values are
// piecewise interpolated, so the arg-max over the feasible interval sits at
// one of these extremes.
func BangBangDecisionSet(feasible storage.InjectWithdrawRange, inventory float64, next InventoryRange, tolerance float64) []float64 {
	maxWithdraw := math.Max(feasible.MinVolume, next.Lower-inventory)
	maxInject := math.Min(feasible.MaxVolume, next.Upper-inventory)

	if maxWithdraw > maxInject {
		// Clipping crossed over; only possible through float noise when the
		// feasible interval is effectively a single point.
		if maxWithdraw-maxInject <= tolerance {
			mid := (maxWithdraw + maxInject) / 2
			return []float64{mid}
		}
		return nil
	}

	set := make([]float64, 0, 3)
	set = append(set, maxWithdraw)
	if feasible.MinVolume <= 0 && 0 <= feasible.MaxVolume &&
		next.Lower <= inventory && inventory <= next.Upper &&
		0-maxWithdraw > tolerance && maxInject-0 > tolerance {
		set = append(set, 0)
	}
	if maxInject-maxWithdraw > tolerance {
		set = append(set, maxInject)
	}
	return set
}
