// Package reporting renders backtest and optimization results to the
// console and to Excel workbooks.
package reporting

import (
	"time"

	"github.com/Arbuzovtd/Backtester/internal/backtest"
	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// ConsoleReporter defines the interface for console output
type ConsoleReporter interface {
	PrintConfig(cfg *config.StrategyConfig, asset string)
	PrintSummary(s types.Summary)
	PrintTopRows(rows []backtest.Row, n int)
	PrintFailures(rows []backtest.Row)
}

// FileReporter defines the interface for workbook output
type FileReporter interface {
	WriteReportXLSX(report *BacktestReport, path string) error
	WriteTradesXLSX(trades []types.Trade, path string) error
	WriteOptimizationXLSX(report *OptimizationReport, path string) error
}

// PathManager defines the interface for output path management
type PathManager interface {
	ReportWorkbookPath(dir, asset string, at time.Time) string
	TradesWorkbookPath(dir, asset string, at time.Time) string
	OptimizationWorkbookPath(dir, asset string, at time.Time) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds the style IDs shared by all workbook writers
type ExcelStyles struct {
	HeaderStyle        int
	BaseStyle          int
	LabelStyle         int
	CurrencyStyle      int
	PercentStyle       int
	GreenCurrencyStyle int
	RedCurrencyStyle   int
	ErrorStyle         int
}
