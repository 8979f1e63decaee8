package main

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/Arbuzovtd/Backtester/cmd/common"
	"github.com/Arbuzovtd/Backtester/pkg/data"
)

// BacktestFlags holds all command line flags for the gold-backtest command
type BacktestFlags struct {
	// Input
	DataFile *string
	Config   *string
	Period   *string

	// Optimization
	Optimize *bool
	GridFile *string
	Workers  *int

	// Output
	OutputDir   *string
	NoReport    *bool
	LogToFile   *bool
	MetricsAddr *string

	// Mode
	Interactive *bool

	Common *common.CommonFlags
}

// NewBacktestFlags creates and registers all command line flags
func NewBacktestFlags() *BacktestFlags {
	return &BacktestFlags{
		DataFile: flag.String("data", "", "Path to the bar data file (.xlsx or .csv); a bare positional argument works too"),
		Config:   flag.String("config", "", "Preset name (btc, eth) or path to a JSON config file"),
		Period:   flag.String("period", "", "Limit data to a trailing period (7d, 30d, 180d, 365d)"),

		Optimize: flag.Bool("optimize", false, "Run a parameter grid sweep instead of a single backtest"),
		GridFile: flag.String("grid", "", "Path to a JSON grid file (default: built-in grid for the detected asset)"),
		Workers:  flag.Int("workers", runtime.NumCPU(), "Parallel workers for the sweep"),

		OutputDir:   flag.String("output", "", "Output directory for reports (default: results, or GOLD_BACKTEST_OUTPUT_DIR)"),
		NoReport:    flag.Bool("no-report", false, "Skip Excel report generation"),
		LogToFile:   flag.Bool("log", false, "Write a session log file to the output directory"),
		MetricsAddr: flag.String("metrics-addr", "", "Serve Prometheus metrics on this address during sweeps (e.g. :9090)"),

		Interactive: flag.Bool("interactive", false, "Pick the data file interactively from the data directory"),

		Common: common.RegisterCommonFlags(),
	}
}

// buildUsage assembles the usage text shown by -help
func buildUsage() *common.UsageFormatter {
	return common.NewUsageFormatter(common.ProjectName, "backtester for the rule-based gold candle strategy").
		AddExample("gold-backtest -data eth_30m.xlsx").
		AddExample("gold-backtest btc_30m.xlsx -config btc").
		AddExample("gold-backtest -data eth_30m.xlsx -config tuned.json -period 180d").
		AddExample("gold-backtest -data eth_30m.xlsx -optimize -workers 8 -log").
		AddExample("gold-backtest -data eth_30m.xlsx -optimize -grid grids/wide.json -metrics-addr :9090").
		AddExample("gold-backtest -interactive")
}

// validateFlags checks the resolved flag values before any heavy work
// starts. dataFile and outDir are the values after positional-argument
// and environment fallbacks.
func validateFlags(flags *BacktestFlags, dataFile, outDir string) *common.FlagValidator {
	v := common.NewFlagValidator()

	if dataFile == "" {
		v.AddError("no data file: pass -data <file.xlsx>, a positional path, or -interactive")
	} else {
		v.ValidateFile("data", dataFile)
	}
	v.ValidateInt("workers", *flags.Workers, 1, 1024)
	v.ValidateDirectory("output", outDir)

	if *flags.GridFile != "" {
		if !*flags.Optimize {
			v.AddError("-grid only makes sense together with -optimize")
		}
		v.ValidateFile("grid", *flags.GridFile)
	}
	if *flags.Period != "" {
		if _, ok := data.ParseTrailingPeriod(*flags.Period); !ok {
			v.AddError(fmt.Sprintf("invalid -period %q (use 7d, 30d, 180d, 365d)", *flags.Period))
		}
	}
	return v
}
