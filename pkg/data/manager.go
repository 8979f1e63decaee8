package data

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// DataManager combines the providers, filter and locator behind one
// convenient interface. It hands out raw bars: feature derivation is
// the caller's job, since the lookback belongs to the strategy
// configuration.
type DataManager struct {
	excel   *ExcelProvider
	csv     *CSVProvider
	filter  BarFilter
	locator WorkbookLocator
}

// NewDataManager creates a new data manager with default components
func NewDataManager() *DataManager {
	return &DataManager{
		excel:   NewExcelProvider(),
		csv:     NewCSVProvider(),
		filter:  NewDefaultBarFilter(),
		locator: NewDefaultWorkbookLocator(),
	}
}

// ProviderFor selects the provider matching the file's extension.
func (dm *DataManager) ProviderFor(path string) (BarProvider, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return dm.excel, nil
	case ".csv":
		return dm.csv, nil
	default:
		return nil, fmt.Errorf("unsupported data file type: %s", path)
	}
}

// LoadBars loads a bar table from a file and runs the integrity
// checks, so callers receive a series that is safe to simulate.
func (dm *DataManager) LoadBars(path string) ([]types.Bar, error) {
	provider, err := dm.ProviderFor(path)
	if err != nil {
		return nil, err
	}
	bars, err := provider.LoadBars(path)
	if err != nil {
		return nil, err
	}
	if err := dm.filter.ValidateSequence(bars); err != nil {
		return nil, err
	}
	if err := provider.ValidateBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// FilterByPeriod keeps the trailing period of the series.
func (dm *DataManager) FilterByPeriod(bars []types.Bar, period time.Duration) []types.Bar {
	return dm.filter.FilterByPeriod(bars, period)
}

// ListWorkbooks lists the candidate data files in a directory.
func (dm *DataManager) ListWorkbooks(dir string) ([]string, error) {
	return dm.locator.ListWorkbooks(dir)
}

// FindWorkbook resolves a user-supplied name to an existing data file.
func (dm *DataManager) FindWorkbook(dir, name string) (string, error) {
	return dm.locator.FindWorkbook(dir, name)
}
