package lattice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/period"
)

func flatCurve(n int, price float64) curves.Series {
	start := period.Date(2024, time.April, 1)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = price
	}
	return curves.New(start, vals)
}

func TestTrinomialStructure(t *testing.T) {
	curve := flatCurve(10, 25)
	tree, err := Trinomial(TrinomialConfig{
		ForwardCurve:   curve,
		SpotVolatility: curves.Constant(curve.Start(), curve.End(), 0.8),
		MeanReversion:  14,
	})
	require.NoError(t, err)
	require.NoError(t, tree.Validate())

	assert.Equal(t, curve.Start(), tree.Start())
	assert.Equal(t, curve.End(), tree.End())

	root, ok := tree.NodesAt(tree.Start())
	require.True(t, ok)
	require.Len(t, root, 1)
	assert.Equal(t, 1.0, root[0].Probability)

	second, _ := tree.NodesAt(tree.Start().Next())
	assert.Len(t, second, 3)
}

func TestTrinomialReachProbabilitiesSumToOne(t *testing.T) {
	curve := flatCurve(15, 40)
	tree, err := Trinomial(TrinomialConfig{
		ForwardCurve:   curve,
		SpotVolatility: curves.Constant(curve.Start(), curve.End(), 1.1),
		MeanReversion:  20,
	})
	require.NoError(t, err)

	for p := tree.Start(); p <= tree.End(); p = p.Next() {
		nodes, _ := tree.NodesAt(p)
		sum := 0.0
		for _, n := range nodes {
			sum += n.Probability
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "reach probabilities at %s", p)
	}
}

func TestTrinomialRecalibratedToForward(t *testing.T) {
	start := period.Date(2024, time.April, 1)
	vals := []float64{20, 22, 25, 31, 28, 24, 21, 20}
	curve := curves.New(start, vals)
	tree, err := Trinomial(TrinomialConfig{
		ForwardCurve:   curve,
		SpotVolatility: curves.Constant(curve.Start(), curve.End(), 0.9),
		MeanReversion:  10,
	})
	require.NoError(t, err)

	for i, want := range vals {
		nodes, _ := tree.NodesAt(start.Add(i))
		weighted := 0.0
		for _, n := range nodes {
			weighted += n.Probability * n.Value
		}
		assert.InDelta(t, want, weighted, 1e-9, "expected spot at %s", start.Add(i))
	}
}

func TestTrinomialZeroVolCollapses(t *testing.T) {
	curve := flatCurve(6, 33)
	tree, err := Trinomial(TrinomialConfig{
		ForwardCurve:   curve,
		SpotVolatility: curves.Constant(curve.Start(), curve.End(), 0),
		MeanReversion:  5,
	})
	require.NoError(t, err)

	for p := tree.Start(); p <= tree.End(); p = p.Next() {
		nodes, _ := tree.NodesAt(p)
		require.Len(t, nodes, 1)
		assert.InDelta(t, 33.0, nodes[0].Value, 1e-12)
	}
}

func TestTrinomialRejectsShortVolCurve(t *testing.T) {
	curve := flatCurve(10, 25)
	_, err := Trinomial(TrinomialConfig{
		ForwardCurve:   curve,
		SpotVolatility: curves.Constant(curve.Start(), curve.End().Add(-2), 0.5),
		MeanReversion:  10,
	})
	require.Error(t, err)
}

func TestFromForwardCurve(t *testing.T) {
	start := period.Date(2024, time.April, 1)
	curve := curves.New(start, []float64{10, 12, 11})
	l := FromForwardCurve(curve)
	require.NoError(t, l.Validate())
	assert.Equal(t, 3, l.Len())

	nodes, ok := l.NodesAt(start.Add(1))
	require.True(t, ok)
	require.Len(t, nodes, 1)
	assert.Equal(t, 12.0, nodes[0].Value)
	assert.Equal(t, 1.0, nodes[0].Probability)
	require.Len(t, nodes[0].Transitions, 1)
	assert.Equal(t, 0, nodes[0].Transitions[0].Destination)
}

func TestValidateCatchesBadTransitions(t *testing.T) {
	start := period.Date(2024, time.April, 1)
	l := New(start, [][]Node{
		{{Value: 10, Probability: 1, Transitions: []Transition{{Probability: 0.5, Destination: 0}}}},
		{{Value: 11, Probability: 1}},
	})
	require.Error(t, l.Validate())
}
