package valuation

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/lattice"
	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/storage"
)

// TreeParams configures one lattice valuation. The lattice must begin at
// CurrentPeriod and span the facility's remaining life. Defaults follow
// IntrinsicParams.
type TreeParams struct {
	Facility          *storage.Facility
	StartingInventory float64
	CurrentPeriod     period.Period
	Lattice           lattice.Lattice

	Settlement   SettlementRule
	Discount     DiscountFactor
	Grid         GridStrategy
	Interpolator Interpolator

	Tolerance float64

	// Parallelism bounds the worker fan-out across price nodes within one
	// backward-pass period. Zero means GOMAXPROCS.
	Parallelism int
}

// TreeResult retains, beyond the headline NPV, everything a later decision
// simulation needs: per-period inventory grids and per-(period, node) value
// functions, optimal-NPV grids and optimal-decision grids. Immutable once
// returned.
type TreeResult struct {
	NPV float64

	// Profile is an indicative single path: the decision replay along each
	// node's most probable transition.
	Profile []ProfileRow

	InventorySpace InventorySpace
	Periods        []period.Period

	// InventoryGrids[t] spans decision period Periods[t]; the first grid
	// collapses to the single known starting inventory.
	InventoryGrids [][]float64

	// ValueFunctions[t][node]; the last period holds terminal value
	// functions per node.
	ValueFunctions [][]ValueFunction

	// NPVGrids[t][node][i] and DecisionGrids[t][node][i] are the optimal
	// value and net volume at InventoryGrids[t][i], for decision periods.
	NPVGrids      [][][]float64
	DecisionGrids [][][]float64

	facility          *storage.Facility
	lattice           lattice.Lattice
	settle            SettlementRule
	discount          DiscountFactor
	tolerance         float64
	startingInventory float64
}

// Tree values the facility against a stochastic price lattice: backward
// induction with one value function per (period, price node), sequential
// across periods and parallel across nodes within a period.
func Tree(params TreeParams) (*TreeResult, error) {
	p, err := normalizeTree(&params)
	if err != nil {
		return nil, err
	}
	f := p.Facility
	current, end := p.CurrentPeriod, f.EndPeriod()

	if current > end {
		return &TreeResult{}, nil
	}
	if !p.Lattice.Covers(current, end) || p.Lattice.Start() != current {
		return nil, fmt.Errorf("%w: lattice must start at %s and cover through %s", ErrArgumentInvalid, current, end)
	}
	if err := p.Lattice.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgumentInvalid, err)
	}

	space, err := CalculateInventorySpace(f, p.StartingInventory, current)
	if err != nil {
		return nil, err
	}

	n := end.Sub(current) + 1
	periods := period.Range(current, end)

	valueFuncs := make([][]ValueFunction, n)
	endNodes, _ := p.Lattice.NodesAt(end)
	valueFuncs[n-1] = make([]ValueFunction, len(endNodes))
	for j, node := range endNodes {
		valueFuncs[n-1][j] = terminalValueFunction{price: node.Value, facility: f}
	}

	if current == end {
		npv := 0.0
		for j, node := range endNodes {
			npv += node.Probability * valueFuncs[n-1][j].Value(p.StartingInventory)
		}
		return &TreeResult{
			NPV:               npv,
			InventorySpace:    space,
			Periods:           periods,
			ValueFunctions:    valueFuncs,
			facility:          f,
			lattice:           p.Lattice,
			settle:            p.Settlement,
			discount:          p.Discount,
			tolerance:         p.Tolerance,
			startingInventory: p.StartingInventory,
		}, nil
	}

	grids := make([][]float64, n-1)
	npvGrids := make([][][]float64, n-1)
	decisionGrids := make([][][]float64, n-1)

	// Backward pass. Periods are strictly sequential: period t starts only
	// after every period t+1 value function is finalized.
	for t := n - 2; t >= 0; t-- {
		per := periods[t]
		nodes, _ := p.Lattice.NodesAt(per)

		var gridPoints []float64
		if t == 0 {
			gridPoints = []float64{p.StartingInventory}
		} else {
			rng := space.Ranges[t]
			gridPoints = p.Grid.Points(rng.Lower, rng.Upper)
		}
		grids[t] = gridPoints

		valueFuncs[t] = make([]ValueFunction, len(nodes))
		npvGrids[t] = make([][]float64, len(nodes))
		decisionGrids[t] = make([][]float64, len(nodes))

		// Nodes share only read access to period t+1 state and each write
		// to their own output slot, so the fan-out needs no locking.
		g := new(errgroup.Group)
		g.SetLimit(p.Parallelism)
		for j := range nodes {
			j := j
			node := nodes[j]
			g.Go(func() error {
				cont := expectedValueFunction{transitions: node.Transitions, next: valueFuncs[t+1]}
				values := make([]float64, len(gridPoints))
				decisions := make([]float64, len(gridPoints))
				for i, inv := range gridPoints {
					best, err := bestDecision(f, per, inv, node.Value, space.Ranges[t+1], cont, p.Settlement, p.Discount, p.Tolerance)
					if err != nil {
						return err
					}
					values[i] = best.value
					decisions[i] = best.volume
				}
				vf, err := p.Interpolator.Build(gridPoints, values)
				if err != nil {
					return fmt.Errorf("building value function for %s node %d: %w", per, j, err)
				}
				valueFuncs[t][j] = vf
				npvGrids[t][j] = values
				decisionGrids[t][j] = decisions
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	startNodes, _ := p.Lattice.NodesAt(current)
	npv := 0.0
	for j, node := range startNodes {
		npv += node.Probability * valueFuncs[0][j].Value(p.StartingInventory)
	}

	result := &TreeResult{
		NPV:               npv,
		InventorySpace:    space,
		Periods:           periods,
		InventoryGrids:    grids,
		ValueFunctions:    valueFuncs,
		NPVGrids:          npvGrids,
		DecisionGrids:     decisionGrids,
		facility:          f,
		lattice:           p.Lattice,
		settle:            p.Settlement,
		discount:          p.Discount,
		tolerance:         p.Tolerance,
		startingInventory: p.StartingInventory,
	}

	sim, err := result.SimulateDecisions(mostProbablePath(p.Lattice))
	if err != nil {
		return nil, err
	}
	result.Profile = sim.Profile

	return result, nil
}

func normalizeTree(p *TreeParams) (*TreeParams, error) {
	base := IntrinsicParams{
		Facility:          p.Facility,
		StartingInventory: p.StartingInventory,
		CurrentPeriod:     p.CurrentPeriod,
		Settlement:        p.Settlement,
		Discount:          p.Discount,
		Grid:              p.Grid,
		Interpolator:      p.Interpolator,
		Tolerance:         p.Tolerance,
	}
	if _, err := normalizeIntrinsic(&base); err != nil {
		return nil, err
	}
	p.Settlement = base.Settlement
	p.Discount = base.Discount
	p.Grid = base.Grid
	p.Interpolator = base.Interpolator
	p.Tolerance = base.Tolerance
	if p.Parallelism < 0 {
		return nil, fmt.Errorf("%w: parallelism must be >= 0, got %d", ErrArgumentInvalid, p.Parallelism)
	}
	if p.Parallelism == 0 {
		p.Parallelism = runtime.GOMAXPROCS(0)
	}
	return p, nil
}

// expectedValueFunction is the probability-weighted continuation over a
// node's transitions into the next period's finalized value functions.
type expectedValueFunction struct {
	transitions []lattice.Transition
	next        []ValueFunction
}

func (f expectedValueFunction) Value(inventory float64) float64 {
	expected := 0.0
	for _, tr := range f.transitions {
		expected += tr.Probability * f.next[tr.Destination].Value(inventory)
	}
	return expected
}

// mostProbablePath follows each node's highest-probability transition from
// the lattice root; used for the indicative profile on the TreeResult.
func mostProbablePath(l lattice.Lattice) PricePath {
	path := PricePath{Start: l.Start()}
	nodeIdx := 0
	for p := l.Start(); p < l.End(); p = p.Next() {
		nodes, _ := l.NodesAt(p)
		node := nodes[nodeIdx]
		bestIdx, bestProb := 0, -1.0
		for i, tr := range node.Transitions {
			if tr.Probability > bestProb {
				bestIdx, bestProb = i, tr.Probability
			}
		}
		path.Transitions = append(path.Transitions, bestIdx)
		nodeIdx = node.Transitions[bestIdx].Destination
	}
	return path
}

// DecisionProfile extracts the period→net volume series of the indicative
// profile (terminal row excluded).
func (r *TreeResult) DecisionProfile() curves.Series {
	if len(r.Profile) <= 1 {
		return curves.Series{}
	}
	vols := make([]float64, 0, len(r.Profile)-1)
	for _, row := range r.Profile[:len(r.Profile)-1] {
		vols = append(vols, row.Volume)
	}
	return curves.New(r.Profile[0].Period, vols)
}
