package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultWorkbookLocator implements WorkbookLocator over a flat data
// directory, the layout the upstream pipeline drops its exports into.
type DefaultWorkbookLocator struct{}

// NewDefaultWorkbookLocator creates a new workbook locator
func NewDefaultWorkbookLocator() *DefaultWorkbookLocator {
	return &DefaultWorkbookLocator{}
}

// ListWorkbooks returns the data files in a directory: .xlsx workbooks
// and .csv exports, skipping Excel's "~$" lock files. The listing is
// sorted by name.
func (l *DefaultWorkbookLocator) ListWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list data directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".xlsx" || ext == ".csv" {
			files = append(files, name)
		}
	}
	return files, nil
}

// FindWorkbook resolves a user-supplied name to an existing file: an
// exact path wins, then the name inside dir, then the name with an
// .xlsx extension added, then a case-insensitive directory match.
func (l *DefaultWorkbookLocator) FindWorkbook(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("no data file specified")
	}

	candidates := []string{
		name,
		filepath.Join(dir, name),
		filepath.Join(dir, name+".xlsx"),
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	files, err := l.ListWorkbooks(dir)
	if err == nil {
		for _, f := range files {
			if strings.EqualFold(f, name) || strings.EqualFold(f, name+".xlsx") {
				return filepath.Join(dir, f), nil
			}
		}
	}

	return "", fmt.Errorf("data file %q not found (searched %s)", name, dir)
}
