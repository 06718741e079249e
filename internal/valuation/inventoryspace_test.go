package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrokenHeaven/storage/internal/period"
	"github.com/BrokenHeaven/storage/internal/storage"
)

func testFacility(t *testing.T, cfg storage.SimpleConfig) *storage.Facility {
	t.Helper()
	f, err := storage.NewSimple(cfg)
	require.NoError(t, err)
	return f
}

func TestInventorySpaceBoundsNested(t *testing.T) {
	start := period.Date(2024, time.April, 1)
	end := start.Add(10)
	f := testFacility(t, storage.SimpleConfig{
		Start:             start,
		End:               end,
		MaxInventory:      100,
		MaxInjectionRate:  20,
		MaxWithdrawalRate: 25,
		MustBeEmptyAtEnd:  true,
	})

	space, err := CalculateInventorySpace(f, 0, start)
	require.NoError(t, err)
	require.Len(t, space.Ranges, 11)

	for i, rng := range space.Ranges {
		p := start.Add(i)
		assert.LessOrEqual(t, rng.Lower, rng.Upper, "range at %s", p)
		assert.GreaterOrEqual(t, rng.Lower, f.MinInventory(p), "lower bound at %s", p)
		assert.LessOrEqual(t, rng.Upper, f.MaxInventory(p), "upper bound at %s", p)
	}

	// Current period pinned to the known inventory.
	assert.Equal(t, InventoryRange{Lower: 0, Upper: 0}, space.Ranges[0])
	// Must be empty at end.
	assert.Equal(t, InventoryRange{Lower: 0, Upper: 0}, space.Ranges[10])
	// One period before end, nothing above one full withdrawal can remain.
	assert.Equal(t, 25.0, space.Ranges[9].Upper)
	// One period in, nothing above one full injection is reachable.
	assert.Equal(t, 20.0, space.Ranges[1].Upper)
}

func TestInventorySpaceTerminalMustBeEmptyExact(t *testing.T) {
	start := period.Date(2024, time.April, 1)
	end := start.Add(10)
	f := testFacility(t, storage.SimpleConfig{
		Start:             start,
		End:               end,
		MaxInventory:      100,
		MaxInjectionRate:  20,
		MaxWithdrawalRate: 25,
		MustBeEmptyAtEnd:  true,
	})

	// Any inventory at all at the end period is rejected, with no tolerance.
	_, err := CalculateInventorySpace(f, 1e-14, end)
	require.ErrorIs(t, err, ErrConstraintInfeasible)

	space, err := CalculateInventorySpace(f, 0, end)
	require.NoError(t, err)
	require.Len(t, space.Ranges, 1)
}

func TestInventorySpaceTerminalBounds(t *testing.T) {
	start := period.Date(2024, time.April, 1)
	end := start.Add(5)
	f := testFacility(t, storage.SimpleConfig{
		Start:             start,
		End:               end,
		MaxInventory:      100,
		MaxInjectionRate:  20,
		MaxWithdrawalRate: 25,
	})

	_, err := CalculateInventorySpace(f, 150, end)
	require.ErrorIs(t, err, ErrConstraintInfeasible)

	space, err := CalculateInventorySpace(f, 60, end)
	require.NoError(t, err)
	assert.Equal(t, InventoryRange{Lower: 60, Upper: 60}, space.Ranges[0])
}

func TestInventorySpaceRejectsUnreachableStart(t *testing.T) {
	start := period.Date(2024, time.April, 1)
	end := start.Add(3)
	f := testFacility(t, storage.SimpleConfig{
		Start:             start,
		End:               end,
		MaxInventory:      100,
		MaxInjectionRate:  20,
		MaxWithdrawalRate: 10, // can shed at most 30 over three decisions
		MustBeEmptyAtEnd:  true,
	})

	_, err := CalculateInventorySpace(f, 90, start)
	require.ErrorIs(t, err, ErrConstraintInfeasible)

	_, err = CalculateInventorySpace(f, 30, start)
	require.NoError(t, err)
}
