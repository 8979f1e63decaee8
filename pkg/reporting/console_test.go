package reporting

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Arbuzovtd/Backtester/internal/backtest"
	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

func captureReporter() (*DefaultConsoleReporter, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf)
	r.DisableColors()
	return r, &buf
}

func TestConsoleReporter_Summary(t *testing.T) {
	r, buf := captureReporter()

	r.PrintSummary(types.Summary{
		Trades:   4,
		TP:       2,
		SL:       1,
		Stop0:    1,
		Net:      123.45,
		Drawdown: -10,
		Ratio:    12.34,
		WinRate:  50,
	})

	out := buf.String()
	assert.Contains(t, out, "Backtest Results")
	assert.Contains(t, out, "123.45")
	assert.Contains(t, out, "2 (50.0%)")
	assert.Contains(t, out, "Win rate")
	assert.Contains(t, out, "50.0%")
}

func TestConsoleReporter_InfiniteRatio(t *testing.T) {
	r, buf := captureReporter()

	r.PrintSummary(types.Summary{Trades: 2, TP: 2, Net: 10, Ratio: math.Inf(1), WinRate: 100})

	assert.Contains(t, buf.String(), "∞")
}

func TestConsoleReporter_Config(t *testing.T) {
	r, buf := captureReporter()

	r.PrintConfig(config.NewDefaultConfig(), "eth")

	out := buf.String()
	assert.Contains(t, out, "Strategy Configuration (ETH)")
	assert.Contains(t, out, "Entry sigma")
	assert.Contains(t, out, "2.10")
	assert.Contains(t, out, "Sunday 23:30")
}

func leaderboardRows() []backtest.Row {
	return []backtest.Row{
		{
			Index:   2,
			Params:  []backtest.Assignment{{Name: "tp", Value: backtest.Val(200)}},
			Summary: types.Summary{Trades: 5, Net: 20, Drawdown: -4, Ratio: 5, WinRate: 80},
		},
		{
			Index:   0,
			Params:  []backtest.Assignment{{Name: "tp", Value: backtest.Val(150)}},
			Summary: types.Summary{Trades: 5, Net: 5, Drawdown: -10, Ratio: 0.5, WinRate: 40},
		},
		{
			Index:  1,
			Params: []backtest.Assignment{{Name: "tp", Value: backtest.Val(-1)}},
			Err:    "tp must be positive",
		},
	}
}

func TestConsoleReporter_TopRows(t *testing.T) {
	r, buf := captureReporter()

	r.PrintTopRows(leaderboardRows(), 5)

	out := buf.String()
	assert.Contains(t, out, "Top 2 Combinations")
	assert.Contains(t, out, "tp=200")
	assert.Contains(t, out, "tp=150")
	assert.NotContains(t, out, "tp must be positive", "failed rows do not belong in the leaderboard")
}

func TestConsoleReporter_TopRowsAllFailed(t *testing.T) {
	r, buf := captureReporter()

	r.PrintTopRows([]backtest.Row{{Index: 0, Err: "boom"}}, 5)

	assert.Contains(t, buf.String(), "No successful combinations")
}

func TestConsoleReporter_Failures(t *testing.T) {
	r, buf := captureReporter()

	r.PrintFailures(leaderboardRows())

	out := buf.String()
	assert.Contains(t, out, "1 combination(s) failed validation")
	assert.Contains(t, out, "#1 tp=-1: tp must be positive")

	buf.Reset()
	r.PrintFailures(leaderboardRows()[:2])
	assert.Empty(t, buf.String(), "nothing to report when every combination succeeded")
}

func TestFormatAssignments(t *testing.T) {
	assert.Equal(t, "(base config)", formatAssignments(nil))
	assert.Equal(t, "tp=200 max_sigma=null", formatAssignments([]backtest.Assignment{
		{Name: "tp", Value: backtest.Val(200)},
		{Name: "max_sigma", Value: backtest.Unbounded()},
	}))
}
