package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedSpacingGridCoversBounds(t *testing.T) {
	pts := FixedSpacingGrid{Spacing: 30}.Points(0, 100)
	require.NotEmpty(t, pts)
	assert.Equal(t, 0.0, pts[0])
	assert.Equal(t, 100.0, pts[len(pts)-1])
	// 0, 30, 60, 90, then the short final step to 100.
	assert.Equal(t, []float64{0, 30, 60, 90, 100}, pts)
}

func TestFixedSpacingGridExactFit(t *testing.T) {
	pts := FixedSpacingGrid{Spacing: 25}.Points(0, 100)
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, pts)
}

func TestFixedSpacingGridDegenerateRange(t *testing.T) {
	pts := FixedSpacingGrid{Spacing: 10}.Points(42, 42)
	assert.Equal(t, []float64{42}, pts)
}

func TestFixedPointCountGrid(t *testing.T) {
	pts := FixedPointCountGrid{NumPoints: 5}.Points(0, 100)
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, pts)

	single := FixedPointCountGrid{NumPoints: 100}.Points(10, 10)
	assert.Equal(t, []float64{10}, single)
}

func TestValidateGrid(t *testing.T) {
	assert.ErrorIs(t, validateGrid(nil), ErrArgumentInvalid)
	assert.ErrorIs(t, validateGrid(FixedSpacingGrid{Spacing: -1}), ErrArgumentInvalid)
	assert.ErrorIs(t, validateGrid(FixedPointCountGrid{NumPoints: 0}), ErrArgumentInvalid)
	assert.NoError(t, validateGrid(FixedSpacingGrid{Spacing: 5}))
	assert.NoError(t, validateGrid(FixedPointCountGrid{NumPoints: 100}))
}

func TestLinearInterpolation(t *testing.T) {
	vf, err := LinearInterpolator{}.Build([]float64{0, 50, 100}, []float64{0, 10, 40})
	require.NoError(t, err)

	// Exact at the knots.
	assert.Equal(t, 0.0, vf.Value(0))
	assert.Equal(t, 10.0, vf.Value(50))
	assert.Equal(t, 40.0, vf.Value(100))

	// Linear between them.
	assert.InDelta(t, 5.0, vf.Value(25), 1e-12)
	assert.InDelta(t, 25.0, vf.Value(75), 1e-12)

	// Clamped at the edges.
	assert.Equal(t, 0.0, vf.Value(-5))
	assert.Equal(t, 40.0, vf.Value(105))
}

func TestLinearInterpolationSinglePoint(t *testing.T) {
	vf, err := LinearInterpolator{}.Build([]float64{30}, []float64{12.5})
	require.NoError(t, err)
	assert.Equal(t, 12.5, vf.Value(30))
	assert.Equal(t, 12.5, vf.Value(0))
	assert.Equal(t, 12.5, vf.Value(99))
}

func TestLinearInterpolationRejectsBadInput(t *testing.T) {
	_, err := LinearInterpolator{}.Build(nil, nil)
	require.Error(t, err)
	_, err = LinearInterpolator{}.Build([]float64{0, 1}, []float64{1})
	require.Error(t, err)
	_, err = LinearInterpolator{}.Build([]float64{0, 0}, []float64{1, 2})
	require.Error(t, err)
}
