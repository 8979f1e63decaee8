package data

import (
	"time"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// BarProvider interface for loading bar tables from various sources
type BarProvider interface {
	// LoadBars loads the raw bar table from the specified source
	LoadBars(source string) ([]types.Bar, error)

	// ValidateBars validates the integrity of the loaded bars
	ValidateBars(bars []types.Bar) error

	// GetName returns the name of the provider
	GetName() string
}

// BarFilter interface for filtering and checking bar sequences
type BarFilter interface {
	// FilterByPeriod keeps the trailing period of the series
	FilterByPeriod(bars []types.Bar, period time.Duration) []types.Bar

	// FilterByDateRange keeps bars inside [start, end]
	FilterByDateRange(bars []types.Bar, start, end time.Time) []types.Bar

	// ValidateSequence ensures bars are in chronological order
	ValidateSequence(bars []types.Bar) error
}

// WorkbookLocator interface for finding input files
type WorkbookLocator interface {
	// ListWorkbooks returns the candidate data files in a directory
	ListWorkbooks(dir string) ([]string, error)

	// FindWorkbook resolves a user-supplied name to an existing file
	FindWorkbook(dir, name string) (string, error)
}
