package lattice

import (
	"fmt"
	"math"

	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/period"
)

// Transition moves to a node at the next period, identified by its index in
// that period's node slice.
type Transition struct {
	Probability float64
	Destination int
}

// Node is one discretized price state. Probability is the chance of reaching
// this node from the lattice root.
type Node struct {
	Value       float64
	Probability float64
	Transitions []Transition
}

// Lattice stores nodes in a flat slice per period; transitions refer to
// next-period nodes by index, so there is no cross-period aliasing.
type Lattice struct {
	start  period.Period
	levels [][]Node
}

func New(start period.Period, levels [][]Node) Lattice {
	return Lattice{start: start, levels: levels}
}

func (l Lattice) Start() period.Period { return l.start }
func (l Lattice) End() period.Period   { return l.start.Add(len(l.levels) - 1) }
func (l Lattice) Len() int             { return len(l.levels) }

// NodesAt returns the node slice for p; ok is false outside the lattice.
func (l Lattice) NodesAt(p period.Period) ([]Node, bool) {
	idx := p.Sub(l.start)
	if idx < 0 || idx >= len(l.levels) {
		return nil, false
	}
	return l.levels[idx], true
}

// Covers reports whether the lattice spans [a, b] entirely.
func (l Lattice) Covers(a, b period.Period) bool {
	if len(l.levels) == 0 || a > b {
		return false
	}
	return l.start <= a && b <= l.End()
}

// Validate checks structural soundness: every non-terminal node's transitions
// land inside the next level and its probabilities sum to one.
func (l Lattice) Validate() error {
	for i, level := range l.levels {
		if len(level) == 0 {
			return fmt.Errorf("period %s has no nodes", l.start.Add(i))
		}
		last := i == len(l.levels)-1
		for j, node := range level {
			if last {
				continue
			}
			if len(node.Transitions) == 0 {
				return fmt.Errorf("node %d at %s has no transitions", j, l.start.Add(i))
			}
			sum := 0.0
			for _, tr := range node.Transitions {
				if tr.Destination < 0 || tr.Destination >= len(l.levels[i+1]) {
					return fmt.Errorf("node %d at %s has transition to out-of-range node %d", j, l.start.Add(i), tr.Destination)
				}
				if tr.Probability < 0 {
					return fmt.Errorf("node %d at %s has negative transition probability", j, l.start.Add(i))
				}
				sum += tr.Probability
			}
			if math.Abs(sum-1) > 1e-9 {
				return fmt.Errorf("node %d at %s transition probabilities sum to %v", j, l.start.Add(i), sum)
			}
		}
	}
	return nil
}

// FromForwardCurve builds the zero-volatility degenerate lattice: one node
// per period holding the forward price, with a certain transition forward.
func FromForwardCurve(curve curves.Series) Lattice {
	levels := make([][]Node, curve.Len())
	for i := 0; i < curve.Len(); i++ {
		node := Node{
			Value:       curve.MustAt(curve.Start().Add(i)),
			Probability: 1,
		}
		if i < curve.Len()-1 {
			node.Transitions = []Transition{{Probability: 1, Destination: 0}}
		}
		levels[i] = []Node{node}
	}
	return Lattice{start: curve.Start(), levels: levels}
}
