package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournal(t *testing.T) {
	dir := t.TempDir()
	fillsPath := filepath.Join(dir, "fills.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(fillsPath, equityPath)
	require.NoError(t, err)

	t1 := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordFill(FillRecord{
		Time: t1, Side: "buy", Price: 4.05, Units: 246.913580, Commission: 0, Reason: "monthly-dca",
	}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Time: t1, Cash: 9_000, PositionValue: 1_000, Equity: 10_000,
	}))
	require.NoError(t, j.Close())

	fills := readAll(t, fillsPath)
	require.Len(t, fills, 2)
	assert.Equal(t, []string{"time", "side", "price", "units", "commission", "reason"}, fills[0])
	assert.Equal(t, "buy", fills[1][1])
	assert.Equal(t, "4.050000", fills[1][2])
	assert.Equal(t, "monthly-dca", fills[1][5])

	equity := readAll(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, []string{"time", "cash", "position_value", "equity"}, equity[0])
	assert.Equal(t, "10000.000000", equity[1][3])
}

func TestCSVFlushPerRecord(t *testing.T) {
	dir := t.TempDir()
	fillsPath := filepath.Join(dir, "fills.csv")

	j, err := NewCSV(fillsPath, filepath.Join(dir, "equity.csv"))
	require.NoError(t, err)

	require.NoError(t, j.RecordFill(FillRecord{
		Time: time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC),
		Side: "buy", Price: 1, Units: 1, Reason: "monthly-dca",
	}))

	// Visible before Close.
	rows := readAll(t, fillsPath)
	assert.Len(t, rows, 2)

	require.NoError(t, j.Close())
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
