package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// CSVProvider implements BarProvider for comma-separated exports of
// the same bar table the workbooks carry: a header row naming the
// columns, then one bar per line.
type CSVProvider struct{}

// NewCSVProvider creates a new CSV bar provider
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{}
}

// GetName returns the name of the provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadBars loads the bar table from a CSV file. Like the Excel
// provider it fails on the first invalid cell rather than skipping
// rows, to keep the rolling volume window intact.
func (p *CSVProvider) LoadBars(source string) ([]types.Bar, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cm, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var bars []types.Bar
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV at line %d: %w", line+1, err)
		}
		line++

		if isEmptyRow(record) {
			continue
		}
		bar, err := parseBarRow(cm, record, line)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s contains no bars", source)
	}

	return bars, nil
}

// ValidateBars validates the integrity of loaded bars
func (p *CSVProvider) ValidateBars(bars []types.Bar) error {
	return validateBars(bars)
}
