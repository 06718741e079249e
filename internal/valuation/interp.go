package valuation

import "fmt"

// ValueFunction maps inventory to NPV for one period (and, in tree mode, one
// price node).
type ValueFunction interface {
	Value(inventory float64) float64
}

// Interpolator turns a finite (grid, values) table into a continuous
// ValueFunction over inventory.
type Interpolator interface {
	Build(points, values []float64) (ValueFunction, error)
}

// LinearInterpolator builds piecewise-linear value functions. Evaluation
// clamps at the grid edges: inventories there are only ever a numerical
// tolerance outside the feasible range.
type LinearInterpolator struct{}

func (LinearInterpolator) Build(points, values []float64) (ValueFunction, error) {
	if len(points) == 0 || len(points) != len(values) {
		return nil, fmt.Errorf("interpolation needs equal non-empty points and values, got %d and %d", len(points), len(values))
	}
	for i := 1; i < len(points); i++ {
		if points[i] <= points[i-1] {
			return nil, fmt.Errorf("interpolation points must be strictly increasing")
		}
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(values))
	copy(xs, points)
	copy(ys, values)
	return &LinearValueFunction{xs: xs, ys: ys}, nil
}

// LinearValueFunction owns its grid and value arrays outright, so value
// functions from one backward-pass period share no state with the next.
type LinearValueFunction struct {
	xs, ys []float64
}

func (f *LinearValueFunction) Value(inventory float64) float64 {
	xs, ys := f.xs, f.ys
	if inventory <= xs[0] {
		return ys[0]
	}
	if inventory >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	// Binary search for the bracketing segment.
	lo, hi := 0, len(xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= inventory {
			lo = mid
		} else {
			hi = mid
		}
	}
	frac := (inventory - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo]*(1-frac) + ys[hi]*frac
}
