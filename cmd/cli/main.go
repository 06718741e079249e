package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BrokenHeaven/storage/internal/analysis"
	"github.com/BrokenHeaven/storage/internal/config"
	"github.com/BrokenHeaven/storage/internal/curves"
	"github.com/BrokenHeaven/storage/internal/data"
	"github.com/BrokenHeaven/storage/internal/lattice"
	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/valuation"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "intrinsic":
		cmdIntrinsic(os.Args[2:])
	case "tree":
		cmdTree(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli intrinsic --config examples/config.yaml --curve curve.json --out results/profile.csv")
	fmt.Println("  cli tree      --config examples/config.yaml --curve curve.json --out results/profile.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - intrinsic values against the forward curve; tree builds a trinomial lattice")
	fmt.Println("  - output CSV has one row per period with action=INJECTING/IDLE/WITHDRAWING")
}

func cmdIntrinsic(args []string) {
	cfg, curve, valDate := loadInputs("intrinsic", args)

	f, err := cfg.Facility.Build()
	if err != nil {
		fatal(err)
	}

	result, err := valuation.Intrinsic(valuation.IntrinsicParams{
		Facility:          f,
		StartingInventory: cfg.Valuation.StartingInventory,
		CurrentPeriod:     valDate,
		ForwardCurve:      curve,
		Settlement:        valuation.SettleWithLag(cfg.Valuation.SettlementLagDays),
		Discount:          valuation.FlatInterestRate(cfg.Valuation.InterestRate, valDate.Time()),
		Grid:              gridFromConfig(cfg),
		Tolerance:         cfg.Valuation.Tolerance,
	})
	if err != nil {
		fatal(err)
	}
	report(result.NPV, result.Profile)
}

func cmdTree(args []string) {
	cfg, curve, valDate := loadInputs("tree", args)

	f, err := cfg.Facility.Build()
	if err != nil {
		fatal(err)
	}

	span := curve.Slice(valDate, f.EndPeriod())
	tree, err := lattice.Trinomial(lattice.TrinomialConfig{
		ForwardCurve:   span,
		SpotVolatility: curves.Constant(span.Start(), span.End(), cfg.Tree.SpotVolatility),
		MeanReversion:  cfg.Tree.MeanReversion,
		TimeDelta:      cfg.Tree.TimeDelta,
	})
	if err != nil {
		fatal(err)
	}

	result, err := valuation.Tree(valuation.TreeParams{
		Facility:          f,
		StartingInventory: cfg.Valuation.StartingInventory,
		CurrentPeriod:     valDate,
		Lattice:           tree,
		Settlement:        valuation.SettleWithLag(cfg.Valuation.SettlementLagDays),
		Discount:          valuation.FlatInterestRate(cfg.Valuation.InterestRate, valDate.Time()),
		Grid:              gridFromConfig(cfg),
		Tolerance:         cfg.Valuation.Tolerance,
	})
	if err != nil {
		fatal(err)
	}
	report(result.NPV, result.Profile)
}

var outPath string

func loadInputs(name string, args []string) (*config.Config, curves.Series, period.Period) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	curvePath := fs.String("curve", "", "Path to forward curve JSON")
	out := fs.String("out", "results/profile.csv", "Output CSV path")
	_ = fs.Parse(args)
	outPath = *out

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	if *curvePath == "" {
		fmt.Println("--curve is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	curve, err := data.LoadCurveJSON(*curvePath)
	if err != nil {
		fatal(err)
	}

	valDate := curve.Start()
	if cfg.Valuation.ValuationDate != "" {
		valDate, err = period.Parse(cfg.Valuation.ValuationDate)
		if err != nil {
			fatal(err)
		}
	}
	return cfg, curve, valDate
}

func gridFromConfig(cfg *config.Config) valuation.GridStrategy {
	if cfg.Valuation.GridSpacing > 0 {
		return valuation.FixedSpacingGrid{Spacing: cfg.Valuation.GridSpacing}
	}
	if cfg.Valuation.NumGridPoints > 0 {
		return valuation.FixedPointCountGrid{NumPoints: cfg.Valuation.NumGridPoints}
	}
	return nil
}

func report(npv float64, profile []valuation.ProfileRow) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := valuation.WriteProfileCSV(outPath, profile); err != nil {
		fatal(err)
	}

	s := analysis.Summarize(npv, profile)
	fmt.Printf("Wrote %d rows to %s\n", len(profile), outPath)
	fmt.Printf("NPV=%.2f\n", npv)
	fmt.Printf("Injected=%.1f Withdrawn=%.1f Consumed=%.1f Cycles=%.2f Peak=%.1f\n",
		s.TotalInjected, s.TotalWithdrawn, s.TotalConsumed, s.Cycles, s.PeakInventory)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
