// Package backtest replays a bar series through the gold candle
// strategy and aggregates the resulting trade ledger. The Engine owns
// the position lifecycle, Summarize reduces a ledger to headline
// metrics, and the Optimizer sweeps parameter grids across a worker
// pool.
package backtest

import (
	"time"

	"github.com/Arbuzovtd/Backtester/internal/strategy"
	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// position is the open-position state carried between bars. A nil
// *position means the engine is flat.
type position struct {
	side       types.Side
	entryPrice float64
	entryTime  time.Time
	maxProfit  float64
	armed      bool
}

// unrealized returns the open profit against the given close, in price
// units per one contract.
func (p *position) unrealized(close float64) float64 {
	if p.side == types.SideLong {
		return close - p.entryPrice
	}
	return p.entryPrice - close
}

// Engine replays a prepared bar series against one strategy
// configuration and returns the closed trades in order.
type Engine struct {
	cfg *config.StrategyConfig
}

// NewEngine creates a backtest engine for the given configuration.
func NewEngine(cfg *config.StrategyConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Run walks the bar series and returns every closed trade. The first
// bar only seeds history: entries and exits are evaluated from the
// second bar onward. On each bar an open position is resolved first,
// so a qualifying candle on the same bar may open a fresh position
// immediately after an exit; a single bar never produces two trades.
// A position still open after the last bar is discarded.
func (e *Engine) Run(bars []types.Bar) []types.Trade {
	trades := make([]types.Trade, 0)
	var pos *position

	for i := 1; i < len(bars); i++ {
		bar := bars[i]

		if pos != nil {
			if trade, closed := e.resolve(pos, bar); closed {
				trades = append(trades, trade)
				pos = nil
			}
		}

		if pos == nil {
			if e.cfg.SkipsEntryOn(bar.Weekday) {
				continue
			}
			if sig := strategy.Classify(bar, e.cfg); sig != strategy.SignalNone {
				pos = &position{
					side:       sig.Side(),
					entryPrice: bar.Close,
					entryTime:  bar.Timestamp,
				}
			}
		}
	}

	return trades
}

// resolve advances an open position by one bar. It updates the profit
// high-water mark, arms the break-even stop once trail_trigger is
// reached, and then tests the exit rules in fixed priority order:
// take profit, stop loss, break-even stop, forced weekly close. The
// first rule that fires wins and the trade is emitted with commission
// already deducted.
func (e *Engine) resolve(pos *position, bar types.Bar) (types.Trade, bool) {
	unrealized := pos.unrealized(bar.Close)

	if unrealized > pos.maxProfit {
		pos.maxProfit = unrealized
	}
	if !pos.armed && unrealized >= e.cfg.TrailTrigger {
		pos.armed = true
	}

	outcome, capped, closed := e.exitFor(pos, bar, unrealized)
	if !closed {
		return types.Trade{}, false
	}

	commission := (pos.entryPrice + bar.Close) * e.cfg.Commission
	trade := types.Trade{
		Side:       pos.side,
		EntryTime:  pos.entryTime,
		ExitTime:   bar.Timestamp,
		EntryPrice: pos.entryPrice,
		ExitPrice:  bar.Close,
		PnL:        capped - commission,
		Outcome:    outcome,
		WeekKey:    bar.WeekKey,
	}
	return trade, true
}

// exitFor tests the exit rules against one bar and returns the outcome
// label and the capped gross profit for the first rule that fires. The
// forced weekly close pays the unrealized profit as is, loss included.
func (e *Engine) exitFor(pos *position, bar types.Bar, unrealized float64) (types.Outcome, float64, bool) {
	switch {
	case unrealized >= e.cfg.TP:
		return types.OutcomeTP, e.cfg.TP, true
	case unrealized <= -e.cfg.SL:
		return types.OutcomeSL, -e.cfg.SL, true
	case pos.armed && unrealized <= 0:
		return types.OutcomeStop0, 0, true
	case bar.Weekday == e.cfg.FCDay && bar.Time >= e.cfg.FCTime:
		return types.OutcomeFC, unrealized, true
	}
	return "", 0, false
}
