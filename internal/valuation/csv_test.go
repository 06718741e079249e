package valuation

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrokenHeaven/storage/internal/period"
)

func TestWriteProfileCSV(t *testing.T) {
	start := period.Date(2024, time.April, 1)
	profile := []ProfileRow{
		{Period: start, Price: 10, Action: ActionInjecting, Volume: 100, InventoryAfter: 100, NPV: -1000, CumNPV: -1000},
		{Period: start.Add(1), Price: 12, Action: ActionWithdrawing, Volume: -100, InventoryBefore: 100, NPV: 1200, CumNPV: 200},
	}

	path := filepath.Join(t.TempDir(), "profile.csv")
	require.NoError(t, WriteProfileCSV(path, profile))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "period", rows[0][0])
	assert.Equal(t, "2024-04-01", rows[1][0])
	assert.Equal(t, string(ActionInjecting), rows[1][2])
	assert.Equal(t, "100.000000", rows[1][3])
	assert.Equal(t, "-100.000000", rows[2][3])
	assert.Equal(t, "200.000000", rows[2][8])
}
