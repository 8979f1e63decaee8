package backtest

import (
	"math"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// Summarize reduces a trade ledger to its headline metrics. An empty
// ledger yields the zero Summary. Drawdown is the most negative gap
// between the cumulative profit curve and its running maximum, so it
// is never positive; when every trade only pushes the curve to new
// highs the recovery ratio is reported as +Inf.
func Summarize(trades []types.Trade) types.Summary {
	if len(trades) == 0 {
		return types.Summary{}
	}

	s := types.Summary{Trades: len(trades)}

	var cum, drawdown float64
	runningMax := math.Inf(-1)
	wins := 0

	for _, t := range trades {
		s.Net += t.PnL
		cum += t.PnL
		if cum > runningMax {
			runningMax = cum
		}
		if dd := cum - runningMax; dd < drawdown {
			drawdown = dd
		}
		if t.PnL > 0 {
			wins++
		}

		switch t.Outcome {
		case types.OutcomeTP:
			s.TP++
		case types.OutcomeSL:
			s.SL++
		case types.OutcomeStop0:
			s.Stop0++
		case types.OutcomeFC:
			s.FC++
		}
	}

	s.Drawdown = drawdown
	if drawdown < 0 {
		s.Ratio = -s.Net / drawdown
	} else {
		s.Ratio = math.Inf(1)
	}
	s.WinRate = float64(wins) / float64(len(trades)) * 100

	return s
}

// CumulativePnL returns the running cumulative profit after each trade,
// in ledger order.
func CumulativePnL(trades []types.Trade) []float64 {
	curve := make([]float64, len(trades))
	var cum float64
	for i, t := range trades {
		cum += t.PnL
		curve[i] = cum
	}
	return curve
}
