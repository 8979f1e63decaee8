package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Arbuzovtd/Backtester/cmd/common"
	"github.com/Arbuzovtd/Backtester/internal/backtest"
	"github.com/Arbuzovtd/Backtester/internal/features"
	"github.com/Arbuzovtd/Backtester/internal/logger"
	"github.com/Arbuzovtd/Backtester/internal/monitoring"
	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/data"
	"github.com/Arbuzovtd/Backtester/pkg/reporting"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// runInput carries everything both run modes need once the data file
// and strategy configuration have been resolved. bars already carry
// the derived features for cfg's lookback.
type runInput struct {
	dataFile string
	asset    string
	cfg      *config.StrategyConfig
	bars     []types.Bar
	outDir   string
	fileLog  *logger.Logger
}

func main() {
	flags := NewBacktestFlags()
	flag.Parse()

	common.CheckHelpAndVersion(flags.Common, buildUsage())
	common.SetupLogger(flags.Common)
	if *flags.Common.NoColors {
		reporting.DisableColors()
	}
	common.LoadEnvFile(*flags.Common.EnvFile)

	common.Header(common.GetFullVersion())

	dataFile := resolveDataFile(flags)
	if *flags.Interactive && dataFile == "" {
		picked, err := selectWorkbook(common.GetEnvWithDefault("GOLD_BACKTEST_DATA_DIR", "."))
		if err != nil {
			fatal("Data file selection failed: %v", err)
		}
		dataFile = picked
	}

	outDir := resolveOutputDir(flags)

	if v := validateFlags(flags, dataFile, outDir); v.HasErrors() {
		v.PrintErrors()
		os.Exit(1)
	}

	in, err := prepareRun(flags, dataFile, outDir)
	if err != nil {
		fatal("%v", err)
	}
	if in.fileLog != nil {
		defer in.fileLog.Close()
	}

	if *flags.Optimize {
		runOptimization(flags, in)
	} else {
		runSingleBacktest(in, *flags.NoReport)
	}
}

// resolveDataFile prefers the -data flag, falling back to the first
// positional argument.
func resolveDataFile(flags *BacktestFlags) string {
	if *flags.DataFile != "" {
		return *flags.DataFile
	}
	return flag.Arg(0)
}

// resolveOutputDir resolves the report directory: flag, then
// environment, then the stock default.
func resolveOutputDir(flags *BacktestFlags) string {
	if *flags.OutputDir != "" {
		return *flags.OutputDir
	}
	return common.GetEnvWithDefault("GOLD_BACKTEST_OUTPUT_DIR", config.ResultsDir)
}

// selectWorkbook lists the data files in dir and lets the user pick
// one by number or type a path directly.
func selectWorkbook(dir string) (string, error) {
	dm := data.NewDataManager()
	files, err := dm.ListWorkbooks(dir)
	if err != nil {
		return "", err
	}

	common.Section("Available data files")
	if len(files) == 0 {
		common.Info("No data files found in %s", dir)
	}
	for i, name := range files {
		common.Quiet("%d. %s", i+1, name)
	}

	fmt.Print("\nSelect a file by number, or enter a path: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("could not read selection: %w", err)
	}
	choice := strings.TrimSpace(line)
	if choice == "" {
		return "", fmt.Errorf("nothing selected")
	}

	if n, convErr := strconv.Atoi(choice); convErr == nil {
		if n < 1 || n > len(files) {
			return "", fmt.Errorf("selection %d is out of range 1..%d", n, len(files))
		}
		return filepath.Join(dir, files[n-1]), nil
	}
	return dm.FindWorkbook(dir, choice)
}

// prepareRun validates and loads the data file, resolves the strategy
// configuration, and derives the per-bar features both modes consume.
func prepareRun(flags *BacktestFlags, dataFile, outDir string) (*runInput, error) {
	dm := data.NewDataManager()

	if strings.EqualFold(filepath.Ext(dataFile), ".xlsx") {
		common.Progress("Validating %s", dataFile)
		if err := data.NewExcelProvider().ValidateFile(dataFile); err != nil {
			return nil, err
		}
	}

	bars, err := dm.LoadBars(dataFile)
	if err != nil {
		return nil, err
	}
	if size, sizeErr := common.DefaultFileUtils.GetFileSize(dataFile); sizeErr == nil {
		common.Success("Loaded %d bars from %s (%s)", len(bars), dataFile, common.FormatFileSize(size))
	} else {
		common.Success("Loaded %d bars from %s", len(bars), dataFile)
	}
	common.Quiet("%s .. %s",
		bars[0].Timestamp.Format("2006-01-02 15:04"),
		bars[len(bars)-1].Timestamp.Format("2006-01-02 15:04"))

	if *flags.Period != "" {
		period, _ := data.ParseTrailingPeriod(*flags.Period)
		total := len(bars)
		bars = dm.FilterByPeriod(bars, period)
		common.Info("Trailing %s window: %d of %d bars", *flags.Period, len(bars), total)
		if len(bars) == 0 {
			return nil, fmt.Errorf("no bars left after the %s period filter", *flags.Period)
		}
	}

	asset := data.DetectAsset(bars)
	common.Info("Detected asset: %s", asset)

	cfg, err := config.NewManager().Resolve(*flags.Config)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.ForAsset(asset)
		common.Info("Using the built-in %s preset", asset)
	} else if !strings.EqualFold(*flags.Config, asset) {
		common.Warn("Explicit -config %s overrides the auto-detected %s preset", *flags.Config, asset)
	}

	reporting.PrintConfig(cfg, asset)

	in := &runInput{
		dataFile: dataFile,
		asset:    asset,
		cfg:      cfg,
		bars:     features.Derive(bars, cfg.VolLookback),
		outDir:   outDir,
	}

	if *flags.LogToFile {
		fileLog, logErr := logger.NewLogger(outDir, asset)
		if logErr != nil {
			common.Warn("Session log disabled: %v", logErr)
		} else {
			common.Info("Session log: %s", fileLog.Path())
			fileLog.Info("data file %s, %d bars, asset %s", dataFile, len(bars), asset)
			in.fileLog = fileLog
		}
	}

	return in, nil
}

// runSingleBacktest replays the series once and reports the outcome.
func runSingleBacktest(in *runInput, noReport bool) {
	common.Section("Backtest")

	start := time.Now()
	trades := backtest.NewEngine(in.cfg).Run(in.bars)
	summary := backtest.Summarize(trades)
	for _, trade := range trades {
		monitoring.RecordTrade(in.asset, string(trade.Outcome))
	}
	common.Success("Simulated %d trades in %s", summary.Trades, common.FormatDuration(time.Since(start)))

	reporting.PrintSummary(summary)

	if in.fileLog != nil {
		in.fileLog.LogSummary(summary)
	}

	if noReport {
		return
	}

	now := time.Now()
	tradesPath := reporting.TradesWorkbookPath(in.outDir, in.asset, now)
	if err := reporting.WriteTradesXLSX(trades, tradesPath); err != nil {
		common.Warn("Failed to save trades workbook: %v", err)
	} else {
		common.Success("Trades saved: %s", tradesPath)
	}

	report := &reporting.BacktestReport{
		Asset:    in.asset,
		DataFile: in.dataFile,
		Config:   in.cfg,
		Summary:  summary,
		Trades:   trades,
	}
	reportPath := reporting.ReportWorkbookPath(in.outDir, in.asset, now)
	if err := reporting.WriteReportXLSX(report, reportPath); err != nil {
		common.Warn("Failed to save report: %v", err)
	} else {
		common.Success("Report saved: %s", reportPath)
	}
}

// runOptimization sweeps a parameter grid over the series and reports
// the ranked combinations.
func runOptimization(flags *BacktestFlags, in *runInput) {
	grid, err := resolveGrid(*flags.GridFile, in.asset)
	if err != nil {
		fatal("Grid error: %v", err)
	}
	total := grid.Size()
	if total == 0 {
		fatal("The grid has no combinations to evaluate")
	}

	common.Section("Optimization")
	common.Info("Sweeping %d combinations on %d workers", total, *flags.Workers)

	runID := uuid.New().String()
	if in.fileLog != nil {
		runID = in.fileLog.RunID()
	}

	var health *monitoring.HealthChecker
	if *flags.MetricsAddr != "" {
		health = monitoring.NewHealthChecker()
		monitoring.StartMetricsServer(*flags.MetricsAddr, health, common.Error)
		health.StartRun(in.dataFile, in.asset, total)
		common.Info("Serving metrics on %s", *flags.MetricsAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		common.Warn("Interrupt received, stopping the sweep")
		cancel()
	}()

	progress := backtest.NewSweepProgress(total)
	best := math.Inf(-1)

	opt := backtest.NewOptimizer(*flags.Workers)
	opt.OnResult(func(row backtest.Row, completed, total int) {
		progress.Record(row.Failed())
		monitoring.RecordCombination(in.asset, row.Failed())
		monitoring.UpdateSweepProgress(in.asset, float64(completed)/float64(total))
		if health != nil {
			health.Progress(completed)
		}
		if !row.Failed() && row.Summary.Net > best {
			best = row.Summary.Net
			monitoring.UpdateBestNet(in.asset, best)
		}
		if completed == total || decileCrossed(completed, total) {
			common.Progress("%d/%d combinations, ETA %s", completed, total, common.FormatDuration(progress.ETA()))
		}
	})

	start := time.Now()
	rows, err := opt.Optimize(ctx, in.bars, in.cfg, grid)
	elapsed := time.Since(start)

	if err != nil {
		if len(rows) == 0 {
			fatal("Sweep aborted: %v", err)
		}
		common.Warn("Sweep interrupted (%v), reporting the %d finished combinations", err, len(rows))
	}

	monitoring.ObserveSweepDuration(in.asset, elapsed.Seconds())
	if health != nil {
		health.Finish()
	}

	completed, failed, _, _ := progress.Snapshot()
	common.Success("Sweep finished in %s: %d combinations, %d failed",
		common.FormatDuration(elapsed), completed, failed)

	reporting.PrintTopRows(rows, 5)
	reporting.PrintFailures(rows)

	if in.fileLog != nil {
		in.fileLog.LogSweep(completed, failed, total, elapsed)
	}

	if bestRow := firstSuccess(rows); bestRow != nil {
		common.Success("Best combination nets %s", common.FormatCurrency(bestRow.Summary.Net))
		configPath := filepath.Join(in.outDir, fmt.Sprintf("best_config_%s.json", in.asset))
		if saveErr := config.NewManager().SaveConfig(bestRow.Config, configPath); saveErr != nil {
			common.Warn("Failed to save best config: %v", saveErr)
		} else {
			common.Success("Best config saved: %s", configPath)
		}
	}

	if *flags.NoReport {
		return
	}
	report := &reporting.OptimizationReport{
		RunID:    runID,
		Asset:    in.asset,
		DataFile: in.dataFile,
		Base:     in.cfg,
		Grid:     grid,
		Rows:     rows,
		Elapsed:  elapsed,
	}
	workbookPath := reporting.OptimizationWorkbookPath(in.outDir, in.asset, time.Now())
	if saveErr := reporting.WriteOptimizationXLSX(report, workbookPath); saveErr != nil {
		common.Warn("Failed to save optimization workbook: %v", saveErr)
	} else {
		common.Success("Optimization workbook saved: %s", workbookPath)
	}
}

// resolveGrid loads the grid file when one was given, otherwise falls
// back to the stock grid for the asset.
func resolveGrid(path, asset string) (*backtest.Grid, error) {
	if path == "" {
		return backtest.DefaultGridForAsset(asset), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read grid file: %w", err)
	}
	grid := backtest.NewGrid()
	if err := json.Unmarshal(raw, grid); err != nil {
		return nil, fmt.Errorf("could not parse grid file %s: %w", path, err)
	}
	return grid, nil
}

// decileCrossed reports whether completed just crossed a 10% boundary,
// keeping progress output to about ten lines per sweep.
func decileCrossed(completed, total int) bool {
	return completed*10/total != (completed-1)*10/total
}

// firstSuccess returns the best-ranked successful row, nil when every
// combination failed.
func firstSuccess(rows []backtest.Row) *backtest.Row {
	for i := range rows {
		if !rows[i].Failed() {
			return &rows[i]
		}
	}
	return nil
}

// fatal prints a red diagnostic and exits with code 1.
func fatal(format string, args ...interface{}) {
	common.Error(format, args...)
	os.Exit(1)
}
