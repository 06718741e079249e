package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BrokenHeaven/storage/internal/storage"
)

func TestBangBangExtremesAndZero(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: -50, MaxVolume: 100}
	set := BangBangDecisionSet(feasible, 50, InventoryRange{Lower: 0, Upper: 100}, 1e-12)
	assert.Equal(t, []float64{-50, 0, 50}, set)
}

func TestBangBangClipsToNextRange(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: -50, MaxVolume: 50}
	// Next period can hold at most 30, so injection is clipped to 30-20=10;
	// withdrawal to the full rate.
	set := BangBangDecisionSet(feasible, 20, InventoryRange{Lower: 0, Upper: 30}, 1e-12)
	assert.Equal(t, []float64{-20, 0, 10}, set)
}

func TestBangBangForcedWithdrawalOmitsZero(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: -50, MaxVolume: 50}
	// Inventory sits above what the next period admits: idling is infeasible.
	set := BangBangDecisionSet(feasible, 80, InventoryRange{Lower: 0, Upper: 60}, 1e-12)
	assert.Equal(t, []float64{-50, -20}, set)
}

func TestBangBangForcedInjection(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: -50, MaxVolume: 50}
	set := BangBangDecisionSet(feasible, 10, InventoryRange{Lower: 40, Upper: 100}, 1e-12)
	assert.Equal(t, []float64{30, 50}, set)
}

func TestBangBangCollapsesNearbyCandidates(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: 0, MaxVolume: 1e-14}
	set := BangBangDecisionSet(feasible, 0, InventoryRange{Lower: 0, Upper: 100}, 1e-12)
	assert.Len(t, set, 1)
}

func TestBangBangDegenerateSinglePoint(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: -10, MaxVolume: 10}
	// Next range forces exactly one reachable inventory.
	set := BangBangDecisionSet(feasible, 50, InventoryRange{Lower: 55, Upper: 55}, 1e-12)
	assert.Equal(t, []float64{5}, set)
}

func TestBangBangCrossoverWithinToleranceReturnsMidpoint(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: -10, MaxVolume: 10}
	next := InventoryRange{Lower: 60 + 5e-13, Upper: 60 - 5e-13}
	set := BangBangDecisionSet(feasible, 50, next, 1e-12)
	assert.Len(t, set, 1)
	assert.InDelta(t, 10, set[0], 1e-9)
}

func TestBangBangInfeasibleBeyondTolerance(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: -10, MaxVolume: 10}
	set := BangBangDecisionSet(feasible, 0, InventoryRange{Lower: 50, Upper: 60}, 1e-12)
	assert.Nil(t, set)
}

func TestBangBangAscendingOrder(t *testing.T) {
	feasible := storage.InjectWithdrawRange{MinVolume: -30, MaxVolume: 70}
	set := BangBangDecisionSet(feasible, 40, InventoryRange{Lower: 0, Upper: 200}, 1e-12)
	for i := 1; i < len(set); i++ {
		assert.Less(t, set[i-1], set[i])
	}
}
