package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
facility:
  name: test-cavern
  start: "2024-04-01"
  end: "2024-10-01"
  max_inventory: 1000
  max_injection_rate: 40
  max_withdrawal_rate: 60
  must_be_empty_at_end: true
valuation:
  valuation_date: "2024-04-01"
  starting_inventory: 100
  interest_rate: 0.05
  settlement_lag_days: 20
  num_grid_points: 100
tree:
  mean_reversion: 14
  spot_volatility: 0.8
`

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", validConfig)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-cavern", c.Facility.Name)
	assert.Equal(t, 1000.0, c.Facility.MaxInventory)
	assert.True(t, c.Facility.MustBeEmptyAtEnd)
	assert.Equal(t, 100.0, c.Valuation.StartingInventory)
	assert.Equal(t, 0.05, c.Valuation.InterestRate)
	assert.Equal(t, 14.0, c.Tree.MeanReversion)

	f, err := c.Facility.Build()
	require.NoError(t, err)
	assert.Equal(t, 1000.0, f.MaxInventory(f.StartPeriod()))
}

func TestLoadRejectsInvalidFacility(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
facility:
  start: "2024-10-01"
  end: "2024-04-01"
  max_inventory: 1000
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadDate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
facility:
  start: "2024-04-01"
  end: "2024-10-01"
  max_inventory: 1000
valuation:
  valuation_date: "04/01/2024"
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMergesFacilityFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cavern.yaml", `
facility:
  name: shared-cavern
  start: "2024-04-01"
  end: "2024-10-01"
  max_inventory: 500
  max_injection_rate: 20
  max_withdrawal_rate: 30
`)
	path := writeFile(t, dir, "config.yaml", `
facility_file: cavern.yaml
facility:
  max_inventory: 800
`)

	c, err := Load(path)
	require.NoError(t, err)
	// Overridden field wins, the rest come from the facility file.
	assert.Equal(t, "shared-cavern", c.Facility.Name)
	assert.Equal(t, 800.0, c.Facility.MaxInventory)
	assert.Equal(t, 20.0, c.Facility.MaxInjectionRate)
}

func TestLoadMissingFacilityFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
facility_file: nope.yaml
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestMergeFacilityKeepsBaseZeroOverrides(t *testing.T) {
	base := FacilityConfig{Name: "base", Start: "2024-04-01", End: "2024-10-01", MaxInventory: 100}
	out := MergeFacility(base, FacilityConfig{MaxWithdrawalRate: 25})
	assert.Equal(t, "base", out.Name)
	assert.Equal(t, 100.0, out.MaxInventory)
	assert.Equal(t, 25.0, out.MaxWithdrawalRate)
}
