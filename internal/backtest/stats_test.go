package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

func tradeWith(pnl float64, outcome types.Outcome) types.Trade {
	return types.Trade{Side: types.SideLong, PnL: pnl, Outcome: outcome}
}

// TestSummarize_Empty verifies an empty ledger reduces to the zero
// summary, ratio included.
func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, types.Summary{}, Summarize(nil))
	assert.Equal(t, types.Summary{}, Summarize([]types.Trade{}))
}

// TestSummarize_Metrics checks net, drawdown, recovery ratio, win rate
// and the per-outcome counts on a mixed ledger. A break-even trade
// must not count as a win.
func TestSummarize_Metrics(t *testing.T) {
	trades := []types.Trade{
		tradeWith(10, types.OutcomeTP),
		tradeWith(-4, types.OutcomeSL),
		tradeWith(6, types.OutcomeTP),
		tradeWith(0, types.OutcomeStop0),
	}

	s := Summarize(trades)

	assert.Equal(t, 4, s.Trades)
	assert.InDelta(t, 12.0, s.Net, 1e-12)
	// cumulative curve 10, 6, 12, 12: the only dip is 6 against peak 10
	assert.InDelta(t, -4.0, s.Drawdown, 1e-12)
	assert.InDelta(t, 3.0, s.Ratio, 1e-12)
	assert.InDelta(t, 50.0, s.WinRate, 1e-12)
	assert.Equal(t, 2, s.TP)
	assert.Equal(t, 1, s.SL)
	assert.Equal(t, 1, s.Stop0)
	assert.Equal(t, 0, s.FC)
}

// TestSummarize_NoDrawdown verifies the all-new-highs case reports an
// infinite recovery ratio, distinct from the empty-ledger zero.
func TestSummarize_NoDrawdown(t *testing.T) {
	s := Summarize([]types.Trade{
		tradeWith(5, types.OutcomeTP),
		tradeWith(3, types.OutcomeTP),
	})

	assert.InDelta(t, 0.0, s.Drawdown, 1e-12)
	assert.True(t, math.IsInf(s.Ratio, 1))
	assert.InDelta(t, 100.0, s.WinRate, 1e-12)
}

// TestSummarize_LosingLedger verifies drawdown is measured against
// the first peak, so a ledger that only loses still anchors at its
// opening trade, and the ratio goes negative with the net.
func TestSummarize_LosingLedger(t *testing.T) {
	s := Summarize([]types.Trade{
		tradeWith(-5, types.OutcomeSL),
		tradeWith(-3, types.OutcomeFC),
	})

	// curve -5, -8 peaks at -5: the drawdown is the further -3 slide
	assert.InDelta(t, -3.0, s.Drawdown, 1e-12)
	assert.InDelta(t, -8.0, s.Net, 1e-12)
	assert.InDelta(t, -8.0/3.0, s.Ratio, 1e-12)
	assert.InDelta(t, 0.0, s.WinRate, 1e-12)
	assert.Equal(t, 1, s.FC)
}

// TestCumulativePnL verifies the running curve keeps ledger order.
func TestCumulativePnL(t *testing.T) {
	curve := CumulativePnL([]types.Trade{
		tradeWith(1, types.OutcomeTP),
		tradeWith(-2, types.OutcomeSL),
		tradeWith(3, types.OutcomeTP),
	})

	assert.Equal(t, []float64{1, -1, 2}, curve)
	assert.Empty(t, CumulativePnL(nil))
}
