package valuation

import (
	"fmt"
	"math"
)

// GridStrategy produces the ordered inventory sample points spanning one
// period's feasible inventory range. Implementations must return points
// sorted ascending with the first equal to lower and the last equal to upper.
type GridStrategy interface {
	Points(lower, upper float64) []float64
}

// FixedSpacingGrid samples every Spacing units of inventory. The upper bound
// is always included even when the last step is short.
type FixedSpacingGrid struct {
	Spacing float64
}

func (g FixedSpacingGrid) Points(lower, upper float64) []float64 {
	if upper <= lower {
		return []float64{lower}
	}
	n := int(math.Floor((upper-lower)/g.Spacing)) + 1
	points := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		points = append(points, lower+float64(i)*g.Spacing)
	}
	if points[len(points)-1] < upper {
		points = append(points, upper)
	} else {
		points[len(points)-1] = upper
	}
	return points
}

func (g FixedSpacingGrid) validate() error {
	if g.Spacing <= 0 {
		return fmt.Errorf("%w: grid spacing must be > 0, got %v", ErrArgumentInvalid, g.Spacing)
	}
	return nil
}

// FixedPointCountGrid samples NumPoints evenly spaced inventories. This is
// the default strategy with 100 points.
type FixedPointCountGrid struct {
	NumPoints int
}

func (g FixedPointCountGrid) Points(lower, upper float64) []float64 {
	if upper <= lower || g.NumPoints < 2 {
		return []float64{lower}
	}
	points := make([]float64, g.NumPoints)
	step := (upper - lower) / float64(g.NumPoints-1)
	for i := range points {
		points[i] = lower + float64(i)*step
	}
	points[len(points)-1] = upper
	return points
}

func (g FixedPointCountGrid) validate() error {
	if g.NumPoints <= 0 {
		return fmt.Errorf("%w: grid point count must be > 0, got %d", ErrArgumentInvalid, g.NumPoints)
	}
	return nil
}

func validateGrid(g GridStrategy) error {
	type validator interface{ validate() error }
	if g == nil {
		return fmt.Errorf("%w: grid strategy is required", ErrArgumentInvalid)
	}
	if v, ok := g.(validator); ok {
		return v.validate()
	}
	return nil
}
