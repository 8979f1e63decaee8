package types

import "time"

// Bar is a single price bar plus the derived fields the strategy reads.
// Raw fields come straight from the data file; derived fields are filled
// in by the feature deriver and are never computed from other derived
// fields. AvgVol and VolRatio are only meaningful when VolumeReady is
// true (the first lookback bars have no trailing volume window).
type Bar struct {
	Date      string // "2006-01-02"
	Time      string // "15:04"
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	VWAP      float64
	Sigma     float64
	Weekday   string // canonical English label ("Monday" .. "Sunday")
	WeekKey   string
	Symbol    string

	// Derived fields.
	Dist        float64
	Body        float64
	BodyPct     float64
	AvgVol      float64
	VolRatio    float64
	VolumeReady bool
}

type Side int

const (
	SideLong Side = iota
	SideShort
)

func (s Side) String() string {
	switch s {
	case SideLong:
		return "BUY"
	case SideShort:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Outcome tags how a trade was closed. Exactly one outcome per trade.
type Outcome string

const (
	OutcomeTP    Outcome = "TP"    // take profit hit, pnl capped at tp
	OutcomeSL    Outcome = "SL"    // stop loss hit, pnl capped at -sl
	OutcomeStop0 Outcome = "STOP0" // trailing stop to break-even, pnl capped at 0
	OutcomeFC    Outcome = "FC"    // forced close at end of week, pnl uncapped
)

// Trade is one closed position. PnL is net of commission:
// capped unrealized pnl minus (entry price + exit price) * commission rate.
type Trade struct {
	Side       Side
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	Outcome    Outcome
	WeekKey    string
}

// Summary aggregates a trade ledger. Ratio is 0 for an empty ledger and
// +Inf when trades exist but the cumulative curve never dipped below a
// prior peak.
type Summary struct {
	Trades   int
	TP       int
	SL       int
	FC       int
	Stop0    int
	Net      float64
	Drawdown float64
	Ratio    float64
	WinRate  float64
}

// Weekdays lists the canonical weekday labels in calendar order.
// Data providers normalize source-language labels to these.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// IsWeekday reports whether label is one of the canonical weekday labels.
func IsWeekday(label string) bool {
	for _, d := range Weekdays {
		if d == label {
			return true
		}
	}
	return false
}
