package valuation

import (
	"fmt"

	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/storage"
)

// InventoryRange is the feasible inventory interval at one period, after
// intersecting local bounds with reachability toward the terminal constraint.
type InventoryRange struct {
	Lower float64
	Upper float64
}

// InventorySpace maps each period in [currentPeriod, facility end] to its
// InventoryRange. Index 0 is the current period, pinned to the single known
// starting inventory.
type InventorySpace struct {
	Start  period.Period
	Ranges []InventoryRange
}

// At returns the range for p. Panics outside the covered span; the engines
// only ever ask for periods they computed.
func (s InventorySpace) At(p period.Period) InventoryRange {
	return s.Ranges[p.Sub(s.Start)]
}

// CalculateInventorySpace derives, per period from currentPeriod to the
// facility end, the inventories that are both reachable from the starting
// inventory and consistent with eventually meeting the terminal constraint:
// a reverse pass from the end period intersected with a forward pass from
// the known starting inventory.
//
// The reachability bounds evaluate the feasible net-volume range at the local
// inventory bound being tightened, relying on rates being monotone in
// inventory.
func CalculateInventorySpace(f *storage.Facility, startingInventory float64, currentPeriod period.Period) (InventorySpace, error) {
	end := f.EndPeriod()
	n := end.Sub(currentPeriod) + 1
	ranges := make([]InventoryRange, n)

	// End period: empty-at-end collapses the range to zero.
	if f.MustBeEmptyAtEnd() {
		ranges[n-1] = InventoryRange{Lower: 0, Upper: 0}
	} else {
		ranges[n-1] = InventoryRange{Lower: f.MinInventory(end), Upper: f.MaxInventory(end)}
	}

	if currentPeriod == end {
		// Terminal fast path. The must-be-empty comparison is deliberately
		// exact: the contract requirement admits no tolerance.
		if f.MustBeEmptyAtEnd() && startingInventory > 0 {
			return InventorySpace{}, fmt.Errorf("%w: inventory %v at end period %s but facility must be empty",
				ErrConstraintInfeasible, startingInventory, end)
		}
		if startingInventory < f.MinInventory(end) || startingInventory > f.MaxInventory(end) {
			return InventorySpace{}, fmt.Errorf("%w: inventory %v outside bounds [%v, %v] at end period %s",
				ErrConstraintInfeasible, startingInventory, f.MinInventory(end), f.MaxInventory(end), end)
		}
		ranges[n-1] = InventoryRange{Lower: startingInventory, Upper: startingInventory}
		return InventorySpace{Start: currentPeriod, Ranges: ranges}, nil
	}

	for p := end.Add(-1); p >= currentPeriod; p = p.Add(-1) {
		next := ranges[p.Sub(currentPeriod)+1]
		minInv := f.MinInventory(p)
		maxInv := f.MaxInventory(p)

		// Largest inventory whose deepest withdrawal still lands at or below
		// the next range's upper bound.
		rangeAtMax := f.FeasibleRange(p, maxInv)
		upper := maxInv
		if maxInv+rangeAtMax.MinVolume > next.Upper {
			upper = next.Upper - rangeAtMax.MinVolume
		}
		// Smallest inventory whose fullest injection still reaches the next
		// range's lower bound.
		rangeAtMin := f.FeasibleRange(p, minInv)
		lower := minInv
		if minInv+rangeAtMin.MaxVolume < next.Lower {
			lower = next.Lower - rangeAtMin.MaxVolume
		}

		if upper > maxInv {
			upper = maxInv
		}
		if lower < minInv {
			lower = minInv
		}
		if lower > upper {
			return InventorySpace{}, fmt.Errorf("%w: no feasible inventory at period %s (computed range [%v, %v])",
				ErrConstraintInfeasible, p, lower, upper)
		}
		ranges[p.Sub(currentPeriod)] = InventoryRange{Lower: lower, Upper: upper}
	}

	first := ranges[0]
	if startingInventory < first.Lower || startingInventory > first.Upper {
		return InventorySpace{}, fmt.Errorf("%w: starting inventory %v outside feasible range [%v, %v] at period %s",
			ErrConstraintInfeasible, startingInventory, first.Lower, first.Upper, currentPeriod)
	}
	// The current period's inventory is known exactly.
	ranges[0] = InventoryRange{Lower: startingInventory, Upper: startingInventory}

	// Forward pass: tighten each range to inventories actually reachable from
	// the starting inventory under the rate limits.
	for t := 1; t < n; t++ {
		prev := ranges[t-1]
		per := currentPeriod.Add(t - 1)
		reachLower := prev.Lower + f.FeasibleRange(per, prev.Lower).MinVolume
		reachUpper := prev.Upper + f.FeasibleRange(per, prev.Upper).MaxVolume
		if reachLower > ranges[t].Lower {
			ranges[t].Lower = reachLower
		}
		if reachUpper < ranges[t].Upper {
			ranges[t].Upper = reachUpper
		}
		if ranges[t].Lower > ranges[t].Upper {
			return InventorySpace{}, fmt.Errorf("%w: no feasible inventory at period %s (computed range [%v, %v])",
				ErrConstraintInfeasible, currentPeriod.Add(t), ranges[t].Lower, ranges[t].Upper)
		}
	}

	return InventorySpace{Start: currentPeriod, Ranges: ranges}, nil
}
