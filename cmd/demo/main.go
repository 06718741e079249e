package main

import (
	"fmt"
	"time"

	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/lattice"
	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/storage"
	"github.com/BrokenHeaven/storage/internal/valuation"
)

// Demo:
// - Build a small gas cavern over one injection/withdrawal season
// - Value it intrinsically against a seasonal forward curve
// - Value it on a trinomial lattice and compare the extrinsic uplift
func main() {
	start := period.Date(2024, time.October, 1)
	end := start.Add(120)

	facility, err := storage.NewSimple(storage.SimpleConfig{
		Start:                 start,
		End:                   end,
		MinInventory:          0,
		MaxInventory:          50_000,
		MaxInjectionRate:      1_000,
		MaxWithdrawalRate:     1_500,
		PerUnitInjectionCost:  0.02,
		PerUnitWithdrawalCost: 0.01,
		MustBeEmptyAtEnd:      true,
	})
	if err != nil {
		panic(err)
	}

	// Seasonal shape: cheap autumn, expensive mid-winter.
	prices := make([]float64, end.Sub(start)+1)
	for i := range prices {
		peak := 60
		dist := i - peak
		if dist < 0 {
			dist = -dist
		}
		prices[i] = 30 + 12*(1-float64(dist)/float64(peak))
	}
	curve := curves.New(start, prices)

	intrinsic, err := valuation.Intrinsic(valuation.IntrinsicParams{
		Facility:          facility,
		StartingInventory: 0,
		CurrentPeriod:     start,
		ForwardCurve:      curve,
		Discount:          valuation.FlatInterestRate(0.03, start.Time()),
		Grid:              valuation.FixedSpacingGrid{Spacing: 500},
	})
	if err != nil {
		panic(err)
	}

	tree, err := lattice.Trinomial(lattice.TrinomialConfig{
		ForwardCurve:   curve,
		SpotVolatility: curves.Constant(start, end, 0.7),
		MeanReversion:  12,
	})
	if err != nil {
		panic(err)
	}

	treeResult, err := valuation.Tree(valuation.TreeParams{
		Facility:          facility,
		StartingInventory: 0,
		CurrentPeriod:     start,
		Lattice:           tree,
		Discount:          valuation.FlatInterestRate(0.03, start.Time()),
		Grid:              valuation.FixedSpacingGrid{Spacing: 500},
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Facility: %s to %s, capacity 50000\n", start, end)
	fmt.Printf("Intrinsic NPV: %12.2f\n", intrinsic.NPV)
	fmt.Printf("Tree NPV:      %12.2f\n", treeResult.NPV)
	fmt.Printf("Extrinsic uplift: %9.2f\n\n", treeResult.NPV-intrinsic.NPV)

	fmt.Println("First intrinsic decisions:")
	for i := 0; i < 10 && i < len(intrinsic.Profile); i++ {
		r := intrinsic.Profile[i]
		fmt.Printf("%s price=%6.2f action=%-11s volume=%9.1f inventory=%9.1f cum=%12.2f\n",
			r.Period, r.Price, string(r.Action), r.Volume, r.InventoryAfter, r.CumNPV)
	}
}
