package reporting

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Arbuzovtd/Backtester/internal/backtest"
	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct {
	out     io.Writer
	noColor bool
}

// NewDefaultConsoleReporter creates a console reporter writing to stdout
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a console reporter writing to out
func NewConsoleReporterTo(out io.Writer) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: out}
}

// DisableColors turns off ANSI coloring of PnL values
func (r *DefaultConsoleReporter) DisableColors() {
	r.noColor = true
}

// PrintConfig renders the resolved strategy configuration as a table
func (r *DefaultConsoleReporter) PrintConfig(cfg *config.StrategyConfig, asset string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("Strategy Configuration (%s)", normalizeAsset(asset))
	t.SetStyle(table.StyleRounded)

	for _, kv := range configRows(cfg) {
		t.AppendRow(table.Row{kv[0], kv[1]})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 16, WidthMax: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 24, WidthMax: 40, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintSummary renders the aggregated results of a single backtest run
func (r *DefaultConsoleReporter) PrintSummary(s types.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("Backtest Results")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"Trades", fmt.Sprintf("%d", s.Trades)},
		{"Take profit", fmt.Sprintf("%d (%.1f%%)", s.TP, shareOf(s.TP, s.Trades))},
		{"Stop loss", fmt.Sprintf("%d (%.1f%%)", s.SL, shareOf(s.SL, s.Trades))},
		{"Break-even stop", fmt.Sprintf("%d", s.Stop0)},
		{"Forced close", fmt.Sprintf("%d", s.FC)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Net PnL", r.pnl(s.Net)},
		{"Max drawdown", fmt.Sprintf("%.2f", s.Drawdown)},
		{"Net / DD", formatRatio(s.Ratio)},
		{"Win rate", fmt.Sprintf("%.1f%%", s.WinRate)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 16, WidthMax: 20, Align: text.AlignLeft},
		{Number: 2, WidthMin: 14, WidthMax: 24, Align: text.AlignRight},
	})
	t.Render()
}

// PrintTopRows renders the n best optimizer combinations as a leaderboard.
// Failed combinations are never ranked; use PrintFailures for those.
func (r *DefaultConsoleReporter) PrintTopRows(rows []backtest.Row, n int) {
	var best []backtest.Row
	for _, row := range rows {
		if row.Failed() {
			continue
		}
		best = append(best, row)
		if len(best) == n {
			break
		}
	}
	if len(best) == 0 {
		fmt.Fprintln(r.out, "No successful combinations to rank.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("Top %d Combinations", len(best))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"#", "Parameters", "Trades", "Net", "Max DD", "Net/DD", "Win %"})
	for i, row := range best {
		t.AppendRow(table.Row{
			i + 1,
			formatAssignments(row.Params),
			row.Summary.Trades,
			r.pnl(row.Summary.Net),
			fmt.Sprintf("%.2f", row.Summary.Drawdown),
			formatRatio(row.Summary.Ratio),
			fmt.Sprintf("%.1f", row.Summary.WinRate),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 3, Align: text.AlignRight},
		{Number: 2, WidthMin: 24, WidthMax: 48, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, WidthMin: 10, Align: text.AlignRight},
		{Number: 5, WidthMin: 10, Align: text.AlignRight},
		{Number: 6, WidthMin: 8, Align: text.AlignRight},
		{Number: 7, WidthMin: 7, Align: text.AlignRight},
	})
	t.Render()
}

// PrintFailures lists combinations the optimizer rejected, one line each
func (r *DefaultConsoleReporter) PrintFailures(rows []backtest.Row) {
	var failed []backtest.Row
	for _, row := range rows {
		if row.Failed() {
			failed = append(failed, row)
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(r.out, "%d combination(s) failed validation:\n", len(failed))
	for _, row := range failed {
		fmt.Fprintf(r.out, "  #%d %s: %s\n", row.Index, formatAssignments(row.Params), row.Err)
	}
}

// pnl formats a PnL value, colored green/red unless colors are disabled
func (r *DefaultConsoleReporter) pnl(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if r.noColor {
		return s
	}
	switch {
	case v > 0:
		return text.FgGreen.Sprint(s)
	case v < 0:
		return text.FgRed.Sprint(s)
	}
	return s
}

// formatRatio renders the net/drawdown ratio, with the no-drawdown
// sentinel shown as the infinity sign.
func formatRatio(ratio float64) string {
	if math.IsInf(ratio, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", ratio)
}

// formatAssignments renders grid assignments as "tp=200 sl=75"
func formatAssignments(params []backtest.Assignment) string {
	if len(params) == 0 {
		return "(base config)"
	}
	out := ""
	for i, a := range params {
		if i > 0 {
			out += " "
		}
		out += a.Name + "=" + a.Value.String()
	}
	return out
}

func shareOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// DefaultReporter backs the package-level print functions, writing to
// stdout.
var DefaultReporter = NewDefaultConsoleReporter()

// DisableColors turns off ANSI coloring on the default reporter
func DisableColors() {
	DefaultReporter.DisableColors()
}

// Package-level convenience functions

func PrintConfig(cfg *config.StrategyConfig, asset string) {
	DefaultReporter.PrintConfig(cfg, asset)
}

func PrintSummary(s types.Summary) {
	DefaultReporter.PrintSummary(s)
}

func PrintTopRows(rows []backtest.Row, n int) {
	DefaultReporter.PrintTopRows(rows, n)
}

func PrintFailures(rows []backtest.Row) {
	DefaultReporter.PrintFailures(rows)
}
