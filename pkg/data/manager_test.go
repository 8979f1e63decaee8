package data

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDataManager_LoadBars verifies the facade picks the provider by
// extension and runs the integrity checks.
func TestDataManager_LoadBars(t *testing.T) {
	dm := NewDataManager()

	xlsx := writeWorkbook(t, [][]interface{}{
		barHeader(),
		{"2024-01-08", "10:00", 100.0, 101.0, 99.0, 100.5, 11.0, 100.0, 1.2, "Понедельник", "2024-W02", ""},
		{"2024-01-08", "10:30", 100.5, 102.0, 100.0, 101.5, 13.0, 100.1, 1.3, "Понедельник", "2024-W02", ""},
	})
	bars, err := dm.LoadBars(xlsx)
	require.NoError(t, err)
	assert.Len(t, bars, 2)

	csvPath := writeCSV(t, "date,time,open,high,low,close,volume,vwap,sigma\n2024-01-08,10:00,100,101,99,100.5,11,100,1.2\n")
	bars, err = dm.LoadBars(csvPath)
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	_, err = dm.LoadBars(filepath.Join(t.TempDir(), "bars.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

// TestDataManager_RejectsDisorderedFile verifies a workbook whose rows
// run backwards never reaches the simulation.
func TestDataManager_RejectsDisorderedFile(t *testing.T) {
	dm := NewDataManager()

	xlsx := writeWorkbook(t, [][]interface{}{
		{"date", "time", "open", "high", "low", "close", "volume", "vwap", "sigma"},
		{"2024-01-08", "10:30", 100.0, 101.0, 99.0, 100.5, 11.0, 100.0, 1.2},
		{"2024-01-08", "10:00", 100.5, 102.0, 100.0, 101.5, 13.0, 100.1, 1.3},
	})

	_, err := dm.LoadBars(xlsx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of order")
}
