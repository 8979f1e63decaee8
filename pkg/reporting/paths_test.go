package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookPaths(t *testing.T) {
	at := time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC)

	assert.Equal(t,
		filepath.Join("results", "trades_ETH_20240108_103000.xlsx"),
		TradesWorkbookPath("results", "eth", at))
	assert.Equal(t,
		filepath.Join("results", "report_BTC_20240108_103000.xlsx"),
		ReportWorkbookPath("results", "BTC", at))
	assert.Equal(t,
		filepath.Join("out", "optimization_ETH_20240108_103000.xlsx"),
		OptimizationWorkbookPath("out", " eth ", at))

	// Unknown asset still yields a usable filename
	assert.Equal(t,
		filepath.Join("results", "trades_UNKNOWN_20240108_103000.xlsx"),
		TradesWorkbookPath("results", "", at))
}

func TestEnsureDirectoryExists(t *testing.T) {
	p := NewDefaultPathManager()

	path := filepath.Join(t.TempDir(), "a", "b", "report.xlsx")
	require.NoError(t, p.EnsureDirectoryExists(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// A bare filename has no parent to create
	assert.NoError(t, p.EnsureDirectoryExists("report.xlsx"))
}
