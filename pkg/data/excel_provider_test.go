package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// writeWorkbook saves the given rows into a temp .xlsx and returns its
// path.
func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "bars.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func barHeader() []interface{} {
	return []interface{}{"date", "time", "open", "high", "low", "close", "volume", "VWAP", "σ", "День", "week_key", "symbol"}
}

// TestExcelProvider_LoadBars round-trips a small workbook with
// Cyrillic weekday labels through the provider.
func TestExcelProvider_LoadBars(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		barHeader(),
		{"2024-01-08", "10:00", 100.0, 101.0, 99.0, 100.5, 11.0, 100.0, 1.2, "Понедельник", "2024-W02", "ETHUSDT"},
		{"2024-01-08", "10:30", 100.5, 102.0, 100.0, 101.5, 13.0, 100.1, 1.3, "Понедельник", "2024-W02", "ETHUSDT"},
	})

	bars, err := NewExcelProvider().LoadBars(path)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	first := bars[0]
	assert.Equal(t, "2024-01-08", first.Date)
	assert.Equal(t, "10:00", first.Time)
	assert.Equal(t, time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, 100.5, first.Close)
	assert.Equal(t, 1.2, first.Sigma)
	assert.Equal(t, 100.0, first.VWAP)
	assert.Equal(t, "Monday", first.Weekday, "Cyrillic labels must normalize")
	assert.Equal(t, "2024-W02", first.WeekKey)
	assert.Equal(t, "ETHUSDT", first.Symbol)
	assert.Equal(t, 13.0, bars[1].Volume)
}

// TestExcelProvider_SerialCells verifies unformatted workbooks whose
// date and time columns hold raw Excel serial numbers still load.
func TestExcelProvider_SerialCells(t *testing.T) {
	// 45299 is 2024-01-08, 0.4375 is 10:30
	path := writeWorkbook(t, [][]interface{}{
		{"date", "time", "open", "high", "low", "close", "volume", "vwap", "sigma"},
		{45299, 0.4375, 100.0, 101.0, 99.0, 100.5, 11.0, 100.0, 1.2},
	})

	bars, err := NewExcelProvider().LoadBars(path)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "2024-01-08", bars[0].Date)
	assert.Equal(t, "10:30", bars[0].Time)
	assert.Equal(t, "Monday", bars[0].Weekday)
}

// TestExcelProvider_PrefersDataSheet verifies a workbook with a "Data"
// sheet is read from that sheet even when it is not the first one.
func TestExcelProvider_PrefersDataSheet(t *testing.T) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(first, "A1", &[]interface{}{"notes"}))

	_, err := f.NewSheet(DataSheet)
	require.NoError(t, err)
	header := barHeader()
	require.NoError(t, f.SetSheetRow(DataSheet, "A1", &header))
	row := []interface{}{"2024-01-08", "10:00", 100.0, 101.0, 99.0, 100.5, 11.0, 100.0, 1.2, "Понедельник", "2024-W02", ""}
	require.NoError(t, f.SetSheetRow(DataSheet, "A2", &row))

	path := filepath.Join(t.TempDir(), "two_sheets.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	bars, err := NewExcelProvider().LoadBars(path)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 100.5, bars[0].Close)
}

// TestExcelProvider_Rejections covers the fail-fast diagnostics:
// missing columns, malformed cells, and empty sheets.
func TestExcelProvider_Rejections(t *testing.T) {
	t.Run("missing columns", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"date", "time", "open", "close"},
			{"2024-01-08", "10:00", 100.0, 100.5},
		})
		_, err := NewExcelProvider().LoadBars(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required columns")
		assert.Contains(t, err.Error(), "sigma")
	})

	t.Run("malformed cell names row and field", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"date", "time", "open", "high", "low", "close", "volume", "vwap", "sigma"},
			{"2024-01-08", "10:00", 100.0, 101.0, 99.0, "oops", 11.0, 100.0, 1.2},
		})
		_, err := NewExcelProvider().LoadBars(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
		assert.Contains(t, err.Error(), "close")
	})

	t.Run("header only", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{barHeader()})
		_, err := NewExcelProvider().LoadBars(path)
		assert.Error(t, err)
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{barHeader()})
		_, err := NewExcelProviderWithSheet("Data").LoadBars(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Data")
	})
}

// TestExcelProvider_ValidateFile checks the pre-flight diagnostics.
func TestExcelProvider_ValidateFile(t *testing.T) {
	provider := NewExcelProvider()

	good := writeWorkbook(t, [][]interface{}{
		barHeader(),
		{"2024-01-08", "10:00", 100.0, 101.0, 99.0, 100.5, 11.0, 100.0, 1.2, "Понедельник", "2024-W02", ""},
	})
	assert.NoError(t, provider.ValidateFile(good))

	assert.Error(t, provider.ValidateFile(filepath.Join(t.TempDir(), "absent.xlsx")))
	assert.Error(t, provider.ValidateFile(t.TempDir()), "a directory is not a workbook")

	bad := writeWorkbook(t, [][]interface{}{{"date", "time"}})
	err := provider.ValidateFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

// TestValidateBars covers the shared integrity checks.
func TestValidateBars(t *testing.T) {
	mk := func(ts time.Time, open, high, low, close float64) types.Bar {
		return types.Bar{Timestamp: ts, Open: open, High: high, Low: low, Close: close}
	}
	base := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

	ok := []types.Bar{
		mk(base, 100, 101, 99, 100.5),
		mk(base.Add(30*time.Minute), 100.5, 102, 100, 101),
	}
	assert.NoError(t, validateBars(ok))

	assert.Error(t, validateBars(nil), "empty series must fail")

	unsorted := []types.Bar{ok[1], ok[0]}
	err := validateBars(unsorted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chronological")

	inverted := []types.Bar{mk(base, 100, 99, 101, 100)}
	assert.Error(t, validateBars(inverted), "high below low must fail")

	free := []types.Bar{mk(base, 0, 101, 99, 100.5)}
	assert.Error(t, validateBars(free), "non-positive prices must fail")
}

// TestDetectAsset covers the symbol column and the price-scale
// fallback.
func TestDetectAsset(t *testing.T) {
	withSymbol := func(symbol string, close float64) []types.Bar {
		return []types.Bar{{Symbol: symbol, Close: close}}
	}

	assert.Equal(t, "BTC", DetectAsset(withSymbol("BTCUSDT", 100)))
	assert.Equal(t, "ETH", DetectAsset(withSymbol("ethusdt", 50000)), "symbol beats price scale")
	assert.Equal(t, "BTC", DetectAsset(withSymbol("", 50000)))
	assert.Equal(t, "ETH", DetectAsset(withSymbol("", 2000)))
	assert.Equal(t, "ETH", DetectAsset(withSymbol("XAUUSD", 1900)), "unknown symbols fall back to price")
	assert.Equal(t, "ETH", DetectAsset(nil))
}
