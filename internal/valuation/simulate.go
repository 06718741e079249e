package valuation

import (
	"fmt"

	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/period"
)

// PricePath is one realized walk through the lattice: starting at the
// lattice's first node, Transitions[t] picks the transition taken out of the
// node occupied at period Start+t.
type PricePath struct {
	Start       period.Period
	Transitions []int
}

// SimulationResult is the realized outcome of operating optimally along one
// price path.
type SimulationResult struct {
	NPV     float64
	Profile []ProfileRow
}

// DecisionProfile is the realized period→net volume series.
func (r *SimulationResult) DecisionProfile() curves.Series {
	if len(r.Profile) <= 1 {
		return curves.Series{}
	}
	vols := make([]float64, 0, len(r.Profile)-1)
	for _, row := range r.Profile[:len(r.Profile)-1] {
		vols = append(vols, row.Volume)
	}
	return curves.New(r.Profile[0].Period, vols)
}

// ConsumptionProfile is the realized period→commodity consumed series.
func (r *SimulationResult) ConsumptionProfile() curves.Series {
	if len(r.Profile) <= 1 {
		return curves.Series{}
	}
	vols := make([]float64, 0, len(r.Profile)-1)
	for _, row := range r.Profile[:len(r.Profile)-1] {
		vols = append(vols, row.CmdtyConsumed)
	}
	return curves.New(r.Profile[0].Period, vols)
}

// SimulateDecisions replays optimal operation forward along one realized
// price path, reusing the backward pass's value functions: a single
// optimal-decision evaluation per period, no dynamic programming. The
// terminal value of the node reached at the end period is included.
func (r *TreeResult) SimulateDecisions(path PricePath) (*SimulationResult, error) {
	if len(r.Periods) == 0 {
		return nil, fmt.Errorf("%w: valuation result holds no periods", ErrArgumentInvalid)
	}
	n := len(r.Periods)
	if len(path.Transitions) == 0 && n > 1 {
		return nil, fmt.Errorf("%w: price path is empty", ErrArgumentInvalid)
	}
	if path.Start != r.lattice.Start() {
		return nil, fmt.Errorf("%w: price path starts at %s, lattice starts at %s", ErrArgumentInvalid, path.Start, r.lattice.Start())
	}
	if len(path.Transitions) < n-1 {
		return nil, fmt.Errorf("%w: price path ends more than one period before the lattice's last period", ErrArgumentInvalid)
	}

	inventory := r.startingInventory
	nodeIdx := 0
	cum := 0.0
	profile := make([]ProfileRow, 0, n)

	for t := 0; t < n-1; t++ {
		per := r.Periods[t]
		nodes, _ := r.lattice.NodesAt(per)
		node := nodes[nodeIdx]

		cont := expectedValueFunction{transitions: node.Transitions, next: r.ValueFunctions[t+1]}
		best, err := bestDecision(r.facility, per, inventory, node.Value, r.InventorySpace.Ranges[t+1], cont, r.settle, r.discount, r.tolerance)
		if err != nil {
			return nil, err
		}

		cum += best.immediateNPV
		profile = append(profile, ProfileRow{
			Period:          per,
			Price:           node.Value,
			Action:          ActionFromVolume(best.volume),
			Volume:          best.volume,
			CmdtyConsumed:   best.cmdtyConsumed,
			InventoryBefore: inventory,
			InventoryAfter:  inventory + best.volume,
			NPV:             best.immediateNPV,
			CumNPV:          cum,
		})
		inventory += best.volume

		choice := path.Transitions[t]
		if choice < 0 || choice >= len(node.Transitions) {
			return nil, fmt.Errorf("%w: transition choice %d out of range at period %s", ErrArgumentInvalid, choice, per)
		}
		nodeIdx = node.Transitions[choice].Destination
	}

	end := r.Periods[n-1]
	endNodes, _ := r.lattice.NodesAt(end)
	terminal := r.ValueFunctions[n-1][nodeIdx].Value(inventory)
	cum += terminal
	profile = append(profile, ProfileRow{
		Period:          end,
		Price:           endNodes[nodeIdx].Value,
		Action:          ActionIdle,
		Volume:          0,
		InventoryBefore: inventory,
		InventoryAfter:  inventory,
		NPV:             terminal,
		CumNPV:          cum,
	})

	return &SimulationResult{NPV: cum, Profile: profile}, nil
}
