package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// timestampLayout is embedded in every output filename so repeated runs
// against the same data never overwrite each other.
const timestampLayout = "20060102_150405"

// DefaultPathManager implements output path management
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// ReportWorkbookPath returns the path for a full backtest report workbook,
// e.g. results/report_ETH_20240108_103000.xlsx.
func (p *DefaultPathManager) ReportWorkbookPath(dir, asset string, at time.Time) string {
	return workbookPath(dir, "report", asset, at)
}

// TradesWorkbookPath returns the path for a standalone trades workbook.
func (p *DefaultPathManager) TradesWorkbookPath(dir, asset string, at time.Time) string {
	return workbookPath(dir, "trades", asset, at)
}

// OptimizationWorkbookPath returns the path for an optimization results workbook.
func (p *DefaultPathManager) OptimizationWorkbookPath(dir, asset string, at time.Time) string {
	return workbookPath(dir, "optimization", asset, at)
}

// EnsureDirectoryExists creates the parent directory of path if needed
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func workbookPath(dir, kind, asset string, at time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.xlsx", kind, normalizeAsset(asset), at.Format(timestampLayout))
	return filepath.Join(dir, name)
}

func normalizeAsset(asset string) string {
	s := strings.ToUpper(strings.TrimSpace(asset))
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// Package-level convenience functions

func ReportWorkbookPath(dir, asset string, at time.Time) string {
	return NewDefaultPathManager().ReportWorkbookPath(dir, asset, at)
}

func TradesWorkbookPath(dir, asset string, at time.Time) string {
	return NewDefaultPathManager().TradesWorkbookPath(dir, asset, at)
}

func OptimizationWorkbookPath(dir, asset string, at time.Time) string {
	return NewDefaultPathManager().OptimizationWorkbookPath(dir, asset, at)
}
