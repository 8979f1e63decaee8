package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// DefaultBarFilter implements BarFilter
type DefaultBarFilter struct{}

// NewDefaultBarFilter creates a new bar filter
func NewDefaultBarFilter() *DefaultBarFilter {
	return &DefaultBarFilter{}
}

// FilterByPeriod keeps the trailing period of the series, measured
// back from the final bar's timestamp.
func (f *DefaultBarFilter) FilterByPeriod(bars []types.Bar, period time.Duration) []types.Bar {
	if len(bars) == 0 || period <= 0 {
		return bars
	}
	cutoff := bars[len(bars)-1].Timestamp.Add(-period)
	for i, bar := range bars {
		if !bar.Timestamp.Before(cutoff) {
			return bars[i:]
		}
	}
	return bars[:0]
}

// FilterByDateRange keeps bars with start <= timestamp <= end.
func (f *DefaultBarFilter) FilterByDateRange(bars []types.Bar, start, end time.Time) []types.Bar {
	out := make([]types.Bar, 0, len(bars))
	for _, bar := range bars {
		if bar.Timestamp.Before(start) || bar.Timestamp.After(end) {
			continue
		}
		out = append(out, bar)
	}
	return out
}

// ValidateSequence ensures bars are in strictly increasing time order.
// Duplicates are rejected too: a repeated bar would double-count its
// volume in the rolling window.
func (f *DefaultBarFilter) ValidateSequence(bars []types.Bar) error {
	for i := 1; i < len(bars); i++ {
		cur, prev := bars[i].Timestamp, bars[i-1].Timestamp
		if cur.Before(prev) {
			return fmt.Errorf("bars out of order at index %d: %s before %s",
				i, cur.Format("2006-01-02 15:04"), prev.Format("2006-01-02 15:04"))
		}
		if cur.Equal(prev) {
			return fmt.Errorf("duplicate bar timestamp at index %d: %s",
				i, cur.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "180d",
// plus raw Go durations such as "168h".
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "days") {
		s = strings.TrimSuffix(s, "days") + "d"
	}
	if strings.HasSuffix(s, "d") {
		nStr := strings.TrimSuffix(s, "d")
		if nStr == "" {
			return 0, false
		}
		n, err := strconv.Atoi(nStr)
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}
	return 0, false
}
