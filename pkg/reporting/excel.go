package reporting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Arbuzovtd/Backtester/internal/backtest"
	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// BacktestReport bundles a finished single run for the report workbook
type BacktestReport struct {
	Asset    string
	DataFile string
	Config   *config.StrategyConfig
	Summary  types.Summary
	Trades   []types.Trade
}

// OptimizationReport bundles a finished parameter sweep for the
// optimization workbook. Rows must already be in ranked order.
type OptimizationReport struct {
	RunID    string
	Asset    string
	DataFile string
	Base     *config.StrategyConfig
	Grid     *backtest.Grid
	Rows     []backtest.Row
	Elapsed  time.Duration
}

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteReportXLSX writes the full backtest report workbook: configuration,
// aggregated statistics, the trade ledger and a monthly rollup.
func (r *DefaultExcelReporter) WriteReportXLSX(report *BacktestReport, path string) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const parametersSheet = "Parameters"
	const statisticsSheet = "Statistics"
	const tradesSheet = "Trades"
	const monthlySheet = "Monthly"

	// Replace default sheet and create additional sheets
	fx.SetSheetName(fx.GetSheetName(0), parametersSheet)
	fx.NewSheet(statisticsSheet)
	fx.NewSheet(tradesSheet)
	fx.NewSheet(monthlySheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return fmt.Errorf("failed to create Excel styles: %w", err)
	}

	if err := r.writeParametersSheet(fx, parametersSheet, report, styles); err != nil {
		return fmt.Errorf("failed to write parameters sheet: %w", err)
	}
	if err := r.writeStatisticsSheet(fx, statisticsSheet, report.Summary, styles); err != nil {
		return fmt.Errorf("failed to write statistics sheet: %w", err)
	}
	if err := r.writeTradesSheet(fx, tradesSheet, report.Trades, styles); err != nil {
		return fmt.Errorf("failed to write trades sheet: %w", err)
	}
	if err := r.writeMonthlySheet(fx, monthlySheet, report.Trades, styles); err != nil {
		return fmt.Errorf("failed to write monthly sheet: %w", err)
	}

	return fx.SaveAs(path)
}

// WriteTradesXLSX writes the trade ledger alone to a workbook
func (r *DefaultExcelReporter) WriteTradesXLSX(trades []types.Trade, path string) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const tradesSheet = "Trades"
	fx.SetSheetName(fx.GetSheetName(0), tradesSheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return fmt.Errorf("failed to create Excel styles: %w", err)
	}

	if err := r.writeTradesSheet(fx, tradesSheet, trades, styles); err != nil {
		return fmt.Errorf("failed to write trades sheet: %w", err)
	}

	return fx.SaveAs(path)
}

// WriteOptimizationXLSX writes the sweep results workbook: one ranked row
// per combination plus a run summary sheet.
func (r *DefaultExcelReporter) WriteOptimizationXLSX(report *OptimizationReport, path string) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const resultsSheet = "Results"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), resultsSheet)
	fx.NewSheet(summarySheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return fmt.Errorf("failed to create Excel styles: %w", err)
	}

	if err := r.writeResultsSheet(fx, resultsSheet, report, styles); err != nil {
		return fmt.Errorf("failed to write results sheet: %w", err)
	}
	if err := r.writeSweepSummarySheet(fx, summarySheet, report, styles); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	return fx.SaveAs(path)
}

// createExcelStyles creates all workbook styles
func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	// Header style - white bold text on dark slate gray
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Base style (light borders)
	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Label style for the left column of label/value sheets
	styles.LabelStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Currency style (right aligned, $ format)
	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7, // Currency format with $ symbol
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Percentage style (right aligned, % format)
	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10, // Percentage format with two decimals
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Green currency style for profits
	styles.GreenCurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Font: &excelize.Font{
			Color: "008000",
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Red currency style for losses
	styles.RedCurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Font: &excelize.Font{
			Color: "FF0000",
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Error style for rejected optimizer combinations
	styles.ErrorStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color: "9C0006",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

// writeParametersSheet writes run context and the resolved configuration
func (r *DefaultExcelReporter) writeParametersSheet(fx *excelize.File, sheet string, report *BacktestReport, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 20)
	fx.SetColWidth(sheet, "B", "B", 36)

	fx.SetCellValue(sheet, "A1", "Parameter")
	fx.SetCellValue(sheet, "B1", "Value")
	fx.SetCellStyle(sheet, "A1", "B1", styles.HeaderStyle)

	rows := [][2]string{
		{"Asset", normalizeAsset(report.Asset)},
		{"Data file", report.DataFile},
	}
	rows = append(rows, configRows(report.Config)...)

	for i, kv := range rows {
		rowNum := i + 2
		fx.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), kv[0])
		fx.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), kv[1])
		fx.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), styles.LabelStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("B%d", rowNum), fmt.Sprintf("B%d", rowNum), styles.BaseStyle)
	}

	return nil
}

// writeStatisticsSheet writes the aggregated summary as a single table row
func (r *DefaultExcelReporter) writeStatisticsSheet(fx *excelize.File, sheet string, s types.Summary, styles ExcelStyles) error {
	headers := []string{"Trades", "TP", "SL", "STOP0", "FC", "Net", "Max Drawdown", "Net/DD", "Win Rate"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, header)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
		col, _ := excelize.ColumnNumberToName(i + 1)
		fx.SetColWidth(sheet, col, col, 12)
	}

	counts := []int{s.Trades, s.TP, s.SL, s.Stop0, s.FC}
	for i, v := range counts {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		fx.SetCellValue(sheet, cell, v)
		fx.SetCellStyle(sheet, cell, cell, styles.BaseStyle)
	}

	fx.SetCellValue(sheet, "F2", round2(s.Net))
	fx.SetCellStyle(sheet, "F2", "F2", currencyStyleFor(s.Net, styles))

	fx.SetCellValue(sheet, "G2", round2(s.Drawdown))
	fx.SetCellStyle(sheet, "G2", "G2", currencyStyleFor(s.Drawdown, styles))

	setRatioCell(fx, sheet, "H2", s.Ratio, styles)

	fx.SetCellValue(sheet, "I2", s.WinRate/100)
	fx.SetCellStyle(sheet, "I2", "I2", styles.PercentStyle)

	return nil
}

// writeTradesSheet writes the trade ledger with a running cumulative PnL
func (r *DefaultExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, trades []types.Trade, styles ExcelStyles) error {
	widths := []float64{5, 7, 12, 10, 12, 12, 10, 12, 11, 11, 9, 10}
	headers := []string{
		"#", "Side", "Entry Date", "Entry Time", "Entry Price",
		"Exit Date", "Exit Time", "Exit Price", "PnL", "Cum PnL", "Outcome", "Week",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, header)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
		col, _ := excelize.ColumnNumberToName(i + 1)
		fx.SetColWidth(sheet, col, col, widths[i])
	}

	cum := 0.0
	for i, t := range trades {
		rowNum := i + 2
		cum += t.PnL

		fx.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), i+1)
		fx.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), t.Side.String())
		fx.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), t.EntryTime.Format("2006-01-02"))
		fx.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), t.EntryTime.Format("15:04"))
		fx.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), t.EntryPrice)
		fx.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), t.ExitTime.Format("2006-01-02"))
		fx.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), t.ExitTime.Format("15:04"))
		fx.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), t.ExitPrice)
		fx.SetCellValue(sheet, fmt.Sprintf("I%d", rowNum), round2(t.PnL))
		fx.SetCellValue(sheet, fmt.Sprintf("J%d", rowNum), round2(cum))
		fx.SetCellValue(sheet, fmt.Sprintf("K%d", rowNum), string(t.Outcome))
		fx.SetCellValue(sheet, fmt.Sprintf("L%d", rowNum), t.WeekKey)

		fx.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("D%d", rowNum), styles.BaseStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("E%d", rowNum), fmt.Sprintf("E%d", rowNum), styles.CurrencyStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("F%d", rowNum), fmt.Sprintf("G%d", rowNum), styles.BaseStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("H%d", rowNum), fmt.Sprintf("H%d", rowNum), styles.CurrencyStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("I%d", rowNum), fmt.Sprintf("I%d", rowNum), currencyStyleFor(t.PnL, styles))
		fx.SetCellStyle(sheet, fmt.Sprintf("J%d", rowNum), fmt.Sprintf("J%d", rowNum), styles.CurrencyStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("K%d", rowNum), fmt.Sprintf("L%d", rowNum), styles.BaseStyle)
	}

	if err := freezeHeaderRow(fx, sheet); err != nil {
		return err
	}
	return fx.AutoFilter(sheet, fmt.Sprintf("A1:L%d", len(trades)+1), []excelize.AutoFilterOptions{})
}

// writeMonthlySheet writes per-month trade counts and PnL, grouped by the
// month the position was opened in.
func (r *DefaultExcelReporter) writeMonthlySheet(fx *excelize.File, sheet string, trades []types.Trade, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 10)
	fx.SetColWidth(sheet, "B", "B", 8)
	fx.SetColWidth(sheet, "C", "C", 12)
	fx.SetColWidth(sheet, "D", "D", 9)
	fx.SetColWidth(sheet, "E", "E", 12)

	headers := []string{"Month", "Trades", "Net", "TP Count", "Cum Net"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, header)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	type monthlyRollup struct {
		month  string
		trades int
		net    float64
		tp     int
	}

	// Trades arrive in chronological order, so first-seen order is
	// already chronological.
	var months []*monthlyRollup
	index := make(map[string]*monthlyRollup)
	for _, t := range trades {
		key := t.EntryTime.Format("2006-01")
		m := index[key]
		if m == nil {
			m = &monthlyRollup{month: key}
			index[key] = m
			months = append(months, m)
		}
		m.trades++
		m.net += t.PnL
		if t.Outcome == types.OutcomeTP {
			m.tp++
		}
	}

	cum := 0.0
	for i, m := range months {
		rowNum := i + 2
		cum += m.net

		fx.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), m.month)
		fx.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), m.trades)
		fx.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), round2(m.net))
		fx.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), m.tp)
		fx.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), round2(cum))

		fx.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("B%d", rowNum), styles.BaseStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("C%d", rowNum), fmt.Sprintf("C%d", rowNum), currencyStyleFor(m.net, styles))
		fx.SetCellStyle(sheet, fmt.Sprintf("D%d", rowNum), fmt.Sprintf("D%d", rowNum), styles.BaseStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("E%d", rowNum), fmt.Sprintf("E%d", rowNum), styles.CurrencyStyle)
	}

	return nil
}

// writeResultsSheet writes one ranked row per optimizer combination.
// Parameter columns follow the grid's axis order; failed combinations
// carry their diagnostic in the trailing error column.
func (r *DefaultExcelReporter) writeResultsSheet(fx *excelize.File, sheet string, report *OptimizationReport, styles ExcelStyles) error {
	names := optimizationParamNames(report)
	headers := append([]string{"Rank"}, names...)
	headers = append(headers, "Trades", "Net", "Max DD", "Net/DD", "Win Rate", "Error")

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, header)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)

		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 12.0
		switch {
		case i == 0:
			width = 6
		case header == "Error":
			width = 42
		}
		fx.SetColWidth(sheet, col, col, width)
	}

	statsStart := len(names) + 2 // first column after rank and parameters
	for i, row := range report.Rows {
		rowNum := i + 2

		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		fx.SetCellValue(sheet, cell, i+1)
		fx.SetCellStyle(sheet, cell, cell, styles.BaseStyle)

		for j, a := range row.Params {
			cell, _ := excelize.CoordinatesToCellName(j+2, rowNum)
			if a.Value.Unset {
				fx.SetCellValue(sheet, cell, "null")
			} else {
				fx.SetCellValue(sheet, cell, a.Value.Value)
			}
			fx.SetCellStyle(sheet, cell, cell, styles.BaseStyle)
		}

		if row.Failed() {
			cell, _ := excelize.CoordinatesToCellName(statsStart+5, rowNum)
			fx.SetCellValue(sheet, cell, row.Err)
			fx.SetCellStyle(sheet, cell, cell, styles.ErrorStyle)
			continue
		}

		tradesCell, _ := excelize.CoordinatesToCellName(statsStart, rowNum)
		fx.SetCellValue(sheet, tradesCell, row.Summary.Trades)
		fx.SetCellStyle(sheet, tradesCell, tradesCell, styles.BaseStyle)

		netCell, _ := excelize.CoordinatesToCellName(statsStart+1, rowNum)
		fx.SetCellValue(sheet, netCell, round2(row.Summary.Net))
		fx.SetCellStyle(sheet, netCell, netCell, currencyStyleFor(row.Summary.Net, styles))

		ddCell, _ := excelize.CoordinatesToCellName(statsStart+2, rowNum)
		fx.SetCellValue(sheet, ddCell, round2(row.Summary.Drawdown))
		fx.SetCellStyle(sheet, ddCell, ddCell, currencyStyleFor(row.Summary.Drawdown, styles))

		ratioCell, _ := excelize.CoordinatesToCellName(statsStart+3, rowNum)
		setRatioCell(fx, sheet, ratioCell, row.Summary.Ratio, styles)

		winCell, _ := excelize.CoordinatesToCellName(statsStart+4, rowNum)
		fx.SetCellValue(sheet, winCell, row.Summary.WinRate/100)
		fx.SetCellStyle(sheet, winCell, winCell, styles.PercentStyle)
	}

	if err := freezeHeaderRow(fx, sheet); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	return fx.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, len(report.Rows)+1), []excelize.AutoFilterOptions{})
}

// writeSweepSummarySheet writes run metadata, the base configuration and
// the best combination as label/value pairs.
func (r *DefaultExcelReporter) writeSweepSummarySheet(fx *excelize.File, sheet string, report *OptimizationReport, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 18)
	fx.SetColWidth(sheet, "B", "B", 44)

	fx.SetCellValue(sheet, "A1", "OPTIMIZATION RUN")
	fx.SetCellStyle(sheet, "A1", "B1", styles.HeaderStyle)
	fx.MergeCell(sheet, "A1", "B1")

	failures := 0
	for _, row := range report.Rows {
		if row.Failed() {
			failures++
		}
	}

	rowNum := 3
	writePair := func(label, value string) {
		fx.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), label)
		fx.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), value)
		fx.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("A%d", rowNum), styles.LabelStyle)
		fx.SetCellStyle(sheet, fmt.Sprintf("B%d", rowNum), fmt.Sprintf("B%d", rowNum), styles.BaseStyle)
		rowNum++
	}
	writeSection := func(title string) {
		rowNum++
		fx.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), title)
		fx.SetCellStyle(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("B%d", rowNum), styles.HeaderStyle)
		fx.MergeCell(sheet, fmt.Sprintf("A%d", rowNum), fmt.Sprintf("B%d", rowNum))
		rowNum++
	}

	writePair("Run ID", report.RunID)
	writePair("Data file", report.DataFile)
	writePair("Asset", normalizeAsset(report.Asset))
	writePair("Combinations", fmt.Sprintf("%d", len(report.Rows)))
	writePair("Failures", fmt.Sprintf("%d", failures))
	writePair("Elapsed", report.Elapsed.Round(time.Millisecond).String())

	if report.Base != nil {
		writeSection("BASE CONFIGURATION")
		for _, kv := range configRows(report.Base) {
			writePair(kv[0], kv[1])
		}
	}

	writeSection("BEST COMBINATION")
	best := firstSuccess(report.Rows)
	if best == nil {
		writePair("Result", "no successful combinations")
		return nil
	}
	writePair("Parameters", formatAssignments(best.Params))
	writePair("Trades", fmt.Sprintf("%d", best.Summary.Trades))
	writePair("Net", fmt.Sprintf("%.2f", best.Summary.Net))
	writePair("Max DD", fmt.Sprintf("%.2f", best.Summary.Drawdown))
	writePair("Net/DD", formatRatio(best.Summary.Ratio))
	writePair("Win rate", fmt.Sprintf("%.1f%%", best.Summary.WinRate))

	return nil
}

// configRows renders a strategy configuration as label/value pairs. Shared
// by the parameters sheet, the sweep summary sheet and the console config
// table.
func configRows(cfg *config.StrategyConfig) [][2]string {
	maxSigma := "none"
	if cfg.MaxSigma != nil {
		maxSigma = fmt.Sprintf("%.2f", *cfg.MaxSigma)
	}
	noEntry := "none"
	if len(cfg.NoEntryDays) > 0 {
		noEntry = strings.Join(cfg.NoEntryDays, ", ")
	}

	return [][2]string{
		{"Entry sigma", fmt.Sprintf("%.2f", cfg.EntrySigma)},
		{"Max sigma", maxSigma},
		{"Volume spike", fmt.Sprintf("%.1fx over %d bars", cfg.VolMultiplier, cfg.VolLookback)},
		{"Body range", fmt.Sprintf("%.1f%% to %.1f%%", cfg.MinBodyPct, cfg.MaxBodyPct)},
		{"Take profit", fmt.Sprintf("$%.2f", cfg.TP)},
		{"Stop loss", fmt.Sprintf("$%.2f", cfg.SL)},
		{"Trail trigger", fmt.Sprintf("$%.2f, then break-even stop", cfg.TrailTrigger)},
		{"No-entry days", noEntry},
		{"Forced close", cfg.FCDay + " " + cfg.FCTime},
		{"Commission", fmt.Sprintf("%.3f%%", cfg.Commission*100)},
		{"Skip zero sigma", fmt.Sprintf("%t", cfg.SkipZeroSigma)},
	}
}

// optimizationParamNames returns parameter column names in grid axis order
func optimizationParamNames(report *OptimizationReport) []string {
	if report.Grid != nil {
		var names []string
		for _, p := range report.Grid.Params() {
			names = append(names, p.Name)
		}
		return names
	}
	if len(report.Rows) > 0 {
		var names []string
		for _, a := range report.Rows[0].Params {
			names = append(names, a.Name)
		}
		return names
	}
	return nil
}

func firstSuccess(rows []backtest.Row) *backtest.Row {
	for i := range rows {
		if !rows[i].Failed() {
			return &rows[i]
		}
	}
	return nil
}

// setRatioCell writes the net/drawdown ratio, rendering the no-drawdown
// sentinel as the infinity sign instead of an invalid numeric cell.
func setRatioCell(fx *excelize.File, sheet, cell string, ratio float64, styles ExcelStyles) {
	if math.IsInf(ratio, 1) {
		fx.SetCellValue(sheet, cell, "∞")
		fx.SetCellStyle(sheet, cell, cell, styles.BaseStyle)
		return
	}
	fx.SetCellValue(sheet, cell, round2(ratio))
	fx.SetCellStyle(sheet, cell, cell, styles.BaseStyle)
}

func currencyStyleFor(v float64, styles ExcelStyles) int {
	switch {
	case v > 0:
		return styles.GreenCurrencyStyle
	case v < 0:
		return styles.RedCurrencyStyle
	}
	return styles.CurrencyStyle
}

func freezeHeaderRow(fx *excelize.File, sheet string) error {
	return fx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func ensureParentDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package-level convenience functions

func WriteReportXLSX(report *BacktestReport, path string) error {
	return NewDefaultExcelReporter().WriteReportXLSX(report, path)
}

func WriteTradesXLSX(trades []types.Trade, path string) error {
	return NewDefaultExcelReporter().WriteTradesXLSX(trades, path)
}

func WriteOptimizationXLSX(report *OptimizationReport, path string) error {
	return NewDefaultExcelReporter().WriteOptimizationXLSX(report, path)
}
