package curves

import (
	"fmt"
	"sort"

	"github.com/BrokenHeaven/storage/internal/period"
)

// Series is a dense, ordered mapping from contiguous daily periods to values.
// It is the shape both forward curves and decision profiles travel in.
type Series struct {
	start  period.Period
	values []float64
}

// New builds a Series starting at start with one value per subsequent period.
func New(start period.Period, values []float64) Series {
	v := make([]float64, len(values))
	copy(v, values)
	return Series{start: start, values: v}
}

// Point is one (period, value) observation used to assemble a Series.
type Point struct {
	Period period.Period
	Value  float64
}

// FromPoints sorts the points and requires them to form a contiguous run of
// periods with no gaps or duplicates.
func FromPoints(points []Point) (Series, error) {
	if len(points) == 0 {
		return Series{}, fmt.Errorf("no points")
	}
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Period < sorted[j].Period })

	values := make([]float64, len(sorted))
	for i, pt := range sorted {
		if want := sorted[0].Period.Add(i); pt.Period != want {
			return Series{}, fmt.Errorf("points are not contiguous: expected %s, got %s", want, pt.Period)
		}
		values[i] = pt.Value
	}
	return Series{start: sorted[0].Period, values: values}, nil
}

// Constant builds a Series holding the same value over [start, end].
func Constant(start, end period.Period, value float64) Series {
	values := make([]float64, end.Sub(start)+1)
	for i := range values {
		values[i] = value
	}
	return Series{start: start, values: values}
}

func (s Series) Len() int { return len(s.values) }

func (s Series) Start() period.Period { return s.start }

// End returns the last covered period. Undefined for an empty series.
func (s Series) End() period.Period { return s.start.Add(len(s.values) - 1) }

// At looks up the value for p; ok is false when p is outside the series.
func (s Series) At(p period.Period) (float64, bool) {
	idx := p.Sub(s.start)
	if idx < 0 || idx >= len(s.values) {
		return 0, false
	}
	return s.values[idx], true
}

// MustAt is At for callers that have already checked coverage.
func (s Series) MustAt(p period.Period) float64 {
	v, ok := s.At(p)
	if !ok {
		panic(fmt.Sprintf("series does not cover period %s", p))
	}
	return v
}

// Covers reports whether the series spans [a, b] entirely.
func (s Series) Covers(a, b period.Period) bool {
	if len(s.values) == 0 || a > b {
		return false
	}
	return s.start <= a && b <= s.End()
}

// Slice returns the sub-series over [a, b] clipped to the covered range.
func (s Series) Slice(a, b period.Period) Series {
	if len(s.values) == 0 || a > b {
		return Series{}
	}
	if a < s.start {
		a = s.start
	}
	if b > s.End() {
		b = s.End()
	}
	if a > b {
		return Series{}
	}
	return Series{start: a, values: s.values[a.Sub(s.start) : b.Sub(s.start)+1]}
}

// Points expands the series back into (period, value) pairs in order.
func (s Series) Points() []Point {
	out := make([]Point, len(s.values))
	for i, v := range s.values {
		out[i] = Point{Period: s.start.Add(i), Value: v}
	}
	return out
}
