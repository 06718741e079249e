package lattice

import (
	"fmt"
	"math"

	"github.com/BrokenHeaven/storage/internal/curves"
)

// TrinomialConfig parameterizes a one-factor mean-reverting trinomial tree
// for the log spot price deviation from the forward curve.
type TrinomialConfig struct {
	ForwardCurve curves.Series

	// SpotVolatility per period, annualized. Must cover the curve span.
	SpotVolatility curves.Series

	// MeanReversion is the annualized mean reversion rate of the one factor.
	MeanReversion float64

	// TimeDelta is the year fraction of one period step (e.g. 1/365 for
	// daily periods). Defaults to 1/365.
	TimeDelta float64
}

// Trinomial builds the tree: node spacing sigma*sqrt(3*dt) per step, capped
// branching under mean reversion, and node prices recalibrated so that each
// period's probability-weighted spot equals the forward price.
func Trinomial(cfg TrinomialConfig) (Lattice, error) {
	curve := cfg.ForwardCurve
	if curve.Len() == 0 {
		return Lattice{}, fmt.Errorf("forward curve is empty")
	}
	if !cfg.SpotVolatility.Covers(curve.Start(), curve.End()) {
		return Lattice{}, fmt.Errorf("spot volatility does not cover curve span [%s, %s]", curve.Start(), curve.End())
	}
	if cfg.MeanReversion < 0 {
		return Lattice{}, fmt.Errorf("mean reversion must be >= 0, got %v", cfg.MeanReversion)
	}
	dt := cfg.TimeDelta
	if dt == 0 {
		dt = 1.0 / 365.0
	}
	if dt < 0 {
		return Lattice{}, fmt.Errorf("time delta must be > 0, got %v", dt)
	}

	// Width cap: beyond jMax, valid branching under mean reversion fails
	// (the classic 0.184/(a*dt) bound). No cap without mean reversion.
	jMax := math.MaxInt32 / 2
	if cfg.MeanReversion*dt > 0 {
		jMax = int(math.Ceil(0.184 / (cfg.MeanReversion * dt)))
	}

	n := curve.Len()
	xs := make([][]float64, n)      // factor value per node
	spacing := make([]float64, n)   // node spacing at each level
	xs[0] = []float64{0}

	levelWidth := func(i int) int {
		if i > jMax {
			return jMax
		}
		return i
	}

	for i := 1; i < n; i++ {
		sigma := cfg.SpotVolatility.MustAt(curve.Start().Add(i - 1))
		if sigma < 0 {
			return Lattice{}, fmt.Errorf("negative volatility at %s", curve.Start().Add(i-1))
		}
		h := sigma * math.Sqrt(3*dt)
		if h == 0 {
			// Deterministic step: the level collapses to a single node
			// carrying the mean-reverted factor of the parent row center.
			spacing[i] = 0
			xs[i] = []float64{0}
			continue
		}
		spacing[i] = h
		w := levelWidth(i)
		level := make([]float64, 2*w+1)
		for j := -w; j <= w; j++ {
			level[j+w] = float64(j) * h
		}
		xs[i] = level
	}

	levels := make([][]Node, n)
	for i := range levels {
		levels[i] = make([]Node, len(xs[i]))
		for j := range levels[i] {
			levels[i][j] = Node{}
		}
	}

	// Transition construction: from factor x, drift m = x*(1-a*dt); pick the
	// central destination nearest m and match mean and variance against the
	// next level's spacing.
	for i := 0; i < n-1; i++ {
		hNext := spacing[i+1]
		nextLen := len(xs[i+1])
		for j, x := range xs[i] {
			m := x * (1 - cfg.MeanReversion*dt)
			if hNext == 0 || nextLen == 1 {
				levels[i][j].Transitions = []Transition{{Probability: 1, Destination: 0}}
				continue
			}
			wNext := (nextLen - 1) / 2
			k := int(math.Round(m / hNext))
			if k > wNext-1 {
				k = wNext - 1
			}
			if k < -(wNext - 1) {
				k = -(wNext - 1)
			}
			eta := m - float64(k)*hNext
			sigma := cfg.SpotVolatility.MustAt(curve.Start().Add(i))
			v := sigma * sigma * dt
			pu := (v+eta*eta)/(2*hNext*hNext) + eta/(2*hNext)
			pd := (v+eta*eta)/(2*hNext*hNext) - eta/(2*hNext)
			pm := 1 - pu - pd
			levels[i][j].Transitions = []Transition{
				{Probability: pd, Destination: k - 1 + wNext},
				{Probability: pm, Destination: k + wNext},
				{Probability: pu, Destination: k + 1 + wNext},
			}
		}
	}

	// Forward pass: reach probabilities.
	levels[0][0].Probability = 1
	for i := 0; i < n-1; i++ {
		for j := range levels[i] {
			for _, tr := range levels[i][j].Transitions {
				levels[i+1][tr.Destination].Probability += levels[i][j].Probability * tr.Probability
			}
		}
	}

	// Price each node off the forward curve and recalibrate multiplicatively
	// so the probability-weighted spot matches the forward price exactly.
	for i := 0; i < n; i++ {
		forward := curve.MustAt(curve.Start().Add(i))
		weighted := 0.0
		for j := range levels[i] {
			weighted += levels[i][j].Probability * math.Exp(xs[i][j])
		}
		for j := range levels[i] {
			levels[i][j].Value = forward * math.Exp(xs[i][j]) / weighted
		}
	}

	l := Lattice{start: curve.Start(), levels: levels}
	if err := l.Validate(); err != nil {
		return Lattice{}, fmt.Errorf("trinomial construction produced invalid lattice: %w", err)
	}
	return l, nil
}
