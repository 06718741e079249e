package valuation

import (
	"fmt"
	"math"

	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/storage"
)

// Defaults matching the library's historical front-end.
const (
	DefaultTolerance  = 1e-12
	DefaultGridPoints = 100
)

// IntrinsicParams configures one intrinsic valuation. Settlement, Discount,
// Grid and Interpolator default to delivery-day settlement, no discounting,
// a 100-point grid and linear interpolation when left nil.
type IntrinsicParams struct {
	Facility          *storage.Facility
	StartingInventory float64
	CurrentPeriod     period.Period
	ForwardCurve      curves.Series

	Settlement   SettlementRule
	Discount     DiscountFactor
	Grid         GridStrategy
	Interpolator Interpolator

	// Tolerance is the numerical tolerance used in decision-set clipping.
	// Zero selects DefaultTolerance; negative is rejected.
	Tolerance float64
}

// ProfileRow records what optimal operation does in one period.
type ProfileRow struct {
	Period period.Period
	Price  float64

	Action Action
	Volume float64

	CmdtyConsumed float64

	InventoryBefore float64
	InventoryAfter  float64

	NPV    float64 // immediate contribution of this period's decision
	CumNPV float64
}

// IntrinsicResult is immutable once returned.
type IntrinsicResult struct {
	NPV     float64
	Profile []ProfileRow

	// InventorySpace as computed for the valuation, retained for inspection.
	InventorySpace InventorySpace
}

// DecisionProfile extracts the period→net volume series over the decision
// periods (the terminal row is excluded).
func (r *IntrinsicResult) DecisionProfile() curves.Series {
	if len(r.Profile) <= 1 {
		return curves.Series{}
	}
	vols := make([]float64, 0, len(r.Profile)-1)
	for _, row := range r.Profile[:len(r.Profile)-1] {
		vols = append(vols, row.Volume)
	}
	return curves.New(r.Profile[0].Period, vols)
}

// Intrinsic values the facility against a single deterministic forward curve
// by backward induction over interpolated value functions, then replays the
// optimal decisions forward from the known starting inventory.
func Intrinsic(params IntrinsicParams) (*IntrinsicResult, error) {
	p, err := normalizeIntrinsic(&params)
	if err != nil {
		return nil, err
	}
	f := p.Facility
	current, end := p.CurrentPeriod, f.EndPeriod()

	if current > end {
		return &IntrinsicResult{}, nil
	}
	if !p.ForwardCurve.Covers(current, end) {
		return nil, fmt.Errorf("%w: forward curve does not cover [%s, %s]", ErrArgumentInvalid, current, end)
	}

	space, err := CalculateInventorySpace(f, p.StartingInventory, current)
	if err != nil {
		return nil, err
	}

	endPrice := p.ForwardCurve.MustAt(end)
	if current == end {
		npv := f.TerminalValue(endPrice, p.StartingInventory)
		return &IntrinsicResult{
			NPV: npv,
			Profile: []ProfileRow{{
				Period:          end,
				Price:           endPrice,
				Action:          ActionIdle,
				InventoryBefore: p.StartingInventory,
				InventoryAfter:  p.StartingInventory,
				NPV:             npv,
				CumNPV:          npv,
			}},
			InventorySpace: space,
		}, nil
	}

	n := end.Sub(current) + 1
	valueFuncs := make([]ValueFunction, n)
	valueFuncs[n-1] = terminalValueFunction{price: endPrice, facility: f}

	// Backward pass: one interpolated value function per period.
	for t := n - 2; t >= 0; t-- {
		per := current.Add(t)
		price := p.ForwardCurve.MustAt(per)
		var gridPoints []float64
		if t == 0 {
			// Inventory at the current period is known exactly.
			gridPoints = []float64{p.StartingInventory}
		} else {
			rng := space.Ranges[t]
			gridPoints = p.Grid.Points(rng.Lower, rng.Upper)
		}
		values := make([]float64, len(gridPoints))
		for i, inv := range gridPoints {
			best, err := bestDecision(f, per, inv, price, space.Ranges[t+1], valueFuncs[t+1], p.Settlement, p.Discount, p.Tolerance)
			if err != nil {
				return nil, err
			}
			values[i] = best.value
		}
		vf, err := p.Interpolator.Build(gridPoints, values)
		if err != nil {
			return nil, fmt.Errorf("building value function for %s: %w", per, err)
		}
		valueFuncs[t] = vf
	}

	npv := valueFuncs[0].Value(p.StartingInventory)

	// Forward pass: re-derive the concrete decision path.
	profile := make([]ProfileRow, 0, n)
	inventory := p.StartingInventory
	cum := 0.0
	for t := 0; t < n-1; t++ {
		per := current.Add(t)
		price := p.ForwardCurve.MustAt(per)
		best, err := bestDecision(f, per, inventory, price, space.Ranges[t+1], valueFuncs[t+1], p.Settlement, p.Discount, p.Tolerance)
		if err != nil {
			return nil, err
		}
		cum += best.immediateNPV
		profile = append(profile, ProfileRow{
			Period:          per,
			Price:           price,
			Action:          ActionFromVolume(best.volume),
			Volume:          best.volume,
			CmdtyConsumed:   best.cmdtyConsumed,
			InventoryBefore: inventory,
			InventoryAfter:  inventory + best.volume,
			NPV:             best.immediateNPV,
			CumNPV:          cum,
		})
		inventory += best.volume
	}

	terminal := f.TerminalValue(endPrice, inventory)
	cum += terminal
	profile = append(profile, ProfileRow{
		Period:          end,
		Price:           endPrice,
		Action:          ActionIdle,
		InventoryBefore: inventory,
		InventoryAfter:  inventory,
		NPV:             terminal,
		CumNPV:          cum,
	})

	return &IntrinsicResult{NPV: npv, Profile: profile, InventorySpace: space}, nil
}

func normalizeIntrinsic(p *IntrinsicParams) (*IntrinsicParams, error) {
	if p.Facility == nil {
		return nil, fmt.Errorf("%w: facility is required", ErrArgumentInvalid)
	}
	if p.StartingInventory < 0 {
		return nil, fmt.Errorf("%w: starting inventory must be >= 0, got %v", ErrArgumentInvalid, p.StartingInventory)
	}
	if p.CurrentPeriod < p.Facility.StartPeriod() {
		return nil, fmt.Errorf("%w: current period %s before facility start %s", ErrArgumentInvalid, p.CurrentPeriod, p.Facility.StartPeriod())
	}
	if p.Tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance must be > 0, got %v", ErrArgumentInvalid, p.Tolerance)
	}
	if p.Tolerance == 0 {
		p.Tolerance = DefaultTolerance
	}
	if p.Grid == nil {
		p.Grid = FixedPointCountGrid{NumPoints: DefaultGridPoints}
	}
	if err := validateGrid(p.Grid); err != nil {
		return nil, err
	}
	if p.Interpolator == nil {
		p.Interpolator = LinearInterpolator{}
	}
	if p.Settlement == nil {
		p.Settlement = SettleOnDeliveryDay()
	}
	if p.Discount == nil {
		p.Discount = NoDiscounting()
	}
	return p, nil
}

// terminalValueFunction adapts the facility terminal value at a fixed price
// into a ValueFunction over inventory.
type terminalValueFunction struct {
	price    float64
	facility *storage.Facility
}

func (f terminalValueFunction) Value(inventory float64) float64 {
	return f.facility.TerminalValue(f.price, inventory)
}

type decision struct {
	volume        float64
	value         float64 // immediate NPV + continuation
	immediateNPV  float64
	cmdtyConsumed float64
}

// bestDecision enumerates the bang-bang candidate set at one (period,
// inventory) and keeps the candidate maximizing immediate NPV plus the
// continuation value at the resulting inventory.
func bestDecision(f *storage.Facility, per period.Period, inventory, price float64,
	nextRange InventoryRange, nextVF ValueFunction,
	settle SettlementRule, discount DiscountFactor, tolerance float64) (decision, error) {

	feasible := f.FeasibleRange(per, inventory)
	set := BangBangDecisionSet(feasible, inventory, nextRange, tolerance)
	if len(set) == 0 {
		return decision{}, fmt.Errorf("%w: no feasible decision at period %s inventory %v", ErrConstraintInfeasible, per, inventory)
	}

	best := decision{value: math.Inf(-1)}
	for _, volume := range set {
		immediate, consumed := ImmediateNPVForDecision(f, per, inventory, volume, price, settle, discount)
		total := immediate + nextVF.Value(inventory+volume)
		if total > best.value {
			best = decision{volume: volume, value: total, immediateNPV: immediate, cmdtyConsumed: consumed}
		}
	}
	return best, nil
}
