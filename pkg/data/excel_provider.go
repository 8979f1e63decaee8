package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// DataSheet is the sheet name the upstream data pipeline writes bars to.
const DataSheet = "Data"

// ExcelProvider implements BarProvider for .xlsx workbooks produced by
// the upstream data pipeline: one header row followed by the bar
// table. By default the "Data" sheet is read, falling back to the
// workbook's first sheet so plain single-sheet exports stay loadable.
type ExcelProvider struct {
	sheet string
}

// NewExcelProvider creates an Excel bar provider with the default
// sheet preference.
func NewExcelProvider() *ExcelProvider {
	return &ExcelProvider{}
}

// NewExcelProviderWithSheet creates an Excel bar provider pinned to a
// named sheet.
func NewExcelProviderWithSheet(sheet string) *ExcelProvider {
	return &ExcelProvider{sheet: sheet}
}

// GetName returns the name of the provider
func (p *ExcelProvider) GetName() string {
	return "Excel Provider"
}

// LoadBars loads the bar table from an .xlsx workbook. Rows with
// invalid cells fail the load with a diagnosis naming the row and
// field: silently dropping a bar would shift the rolling volume
// window for every bar after it.
func (p *ExcelProvider) LoadBars(source string) ([]types.Bar, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", source, err)
	}
	defer f.Close()

	sheet, err := p.pickSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	cm, err := resolveColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	bars := make([]types.Bar, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		bar, err := parseBarRow(cm, convertSerialCells(cm, row), i+1)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("sheet %q contains no bars", sheet)
	}

	return bars, nil
}

// pickSheet returns the configured sheet. With no explicit sheet it
// prefers the "Data" sheet and falls back to the workbook's first one.
func (p *ExcelProvider) pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if p.sheet == "" {
		for _, s := range sheets {
			if s == DataSheet {
				return s, nil
			}
		}
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == p.sheet {
			return s, nil
		}
	}
	return "", fmt.Errorf("workbook has no sheet %q", p.sheet)
}

// convertSerialCells rewrites Excel serial date and time cells into
// their textual forms. Unformatted workbooks surface the date column
// as a raw day count and the time column as a day fraction.
func convertSerialCells(cm columnMap, row []string) []string {
	out := make([]string, len(row))
	copy(out, row)

	if idx := cm["date"]; idx >= 0 && idx < len(out) {
		if serial, err := strconv.ParseFloat(strings.TrimSpace(out[idx]), 64); err == nil {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				out[idx] = t.Format("2006-01-02")
			}
		}
	}
	if idx := cm["time"]; idx >= 0 && idx < len(out) {
		if frac, err := strconv.ParseFloat(strings.TrimSpace(out[idx]), 64); err == nil && frac >= 0 && frac < 1 {
			if t, err := excelize.ExcelDateToTime(frac, false); err == nil {
				out[idx] = t.Format("15:04")
			}
		}
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ValidateBars validates the integrity of loaded bars
func (p *ExcelProvider) ValidateBars(bars []types.Bar) error {
	return validateBars(bars)
}

// ValidateFile checks that a path points to a readable workbook with
// the expected header before any parsing work starts.
func (p *ExcelProvider) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("data file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a workbook", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("%s is not an .xlsx workbook", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet, err := p.pickSheet(f)
	if err != nil {
		return err
	}
	header, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer header.Close()
	if !header.Next() {
		return fmt.Errorf("sheet %q is empty", sheet)
	}
	cells, err := header.Columns()
	if err != nil {
		return fmt.Errorf("failed to read header of sheet %q: %w", sheet, err)
	}
	if _, err := resolveColumns(cells); err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return nil
}

// validateBars runs the shared integrity checks: the series must be
// non-empty, chronological, and carry sane prices.
func validateBars(bars []types.Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars provided")
	}
	var prev time.Time
	for i, bar := range bars {
		if bar.Open <= 0 || bar.Close <= 0 {
			return fmt.Errorf("invalid bar at index %d: open and close must be positive", i)
		}
		if bar.High < bar.Low {
			return fmt.Errorf("invalid bar at index %d: high (%.4f) below low (%.4f)", i, bar.High, bar.Low)
		}
		if i > 0 && bar.Timestamp.Before(prev) {
			return fmt.Errorf("invalid bar at index %d: timestamps must be chronological", i)
		}
		prev = bar.Timestamp
	}
	return nil
}

// DetectAsset infers the traded asset from the bars: an explicit
// symbol wins, otherwise the price scale decides. BTC trades four
// digits above ETH, so the average close separates them cleanly.
func DetectAsset(bars []types.Bar) string {
	for _, bar := range bars {
		symbol := strings.ToUpper(bar.Symbol)
		if symbol == "" {
			continue
		}
		if strings.Contains(symbol, "BTC") {
			return "BTC"
		}
		if strings.Contains(symbol, "ETH") {
			return "ETH"
		}
		break
	}

	if len(bars) == 0 {
		return "ETH"
	}
	var sum float64
	for _, bar := range bars {
		sum += bar.Close
	}
	if sum/float64(len(bars)) > 10000 {
		return "BTC"
	}
	return "ETH"
}
