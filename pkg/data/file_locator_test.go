package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"eth_30m.xlsx", "btc_30m.xlsx", "eth_30m.csv", "~$eth_30m.xlsx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0755))
	return dir
}

// TestListWorkbooks verifies only data files are listed and Excel lock
// files are skipped.
func TestListWorkbooks(t *testing.T) {
	dir := seedDataDir(t)

	files, err := NewDefaultWorkbookLocator().ListWorkbooks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"btc_30m.xlsx", "eth_30m.csv", "eth_30m.xlsx"}, files)

	_, err = NewDefaultWorkbookLocator().ListWorkbooks(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

// TestFindWorkbook covers direct paths, names relative to the data
// directory, extension completion and case-insensitive matching.
func TestFindWorkbook(t *testing.T) {
	dir := seedDataDir(t)
	locator := NewDefaultWorkbookLocator()

	direct, err := locator.FindWorkbook(dir, filepath.Join(dir, "eth_30m.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "eth_30m.xlsx"), direct)

	named, err := locator.FindWorkbook(dir, "btc_30m.xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "btc_30m.xlsx"), named)

	completed, err := locator.FindWorkbook(dir, "eth_30m")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "eth_30m.xlsx"), completed)

	folded, err := locator.FindWorkbook(dir, "ETH_30M.XLSX")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "eth_30m.xlsx"), folded)

	_, err = locator.FindWorkbook(dir, "missing")
	assert.Error(t, err)
	_, err = locator.FindWorkbook(dir, "")
	assert.Error(t, err)
}
