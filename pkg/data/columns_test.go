package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveColumns verifies header matching is case-insensitive,
// accepts the Cyrillic spellings, and reports every missing required
// column in one diagnosis.
func TestResolveColumns(t *testing.T) {
	header := []string{"Date", "TIME", "open", "high", "low", "close", "Volume", "VWAP", "σ", "День", "week_key", "symbol"}

	cm, err := resolveColumns(header)
	require.NoError(t, err)
	assert.Equal(t, 0, cm["date"])
	assert.Equal(t, 8, cm["sigma"])
	assert.Equal(t, 9, cm["weekday"])
	assert.Equal(t, 11, cm["symbol"])

	_, err = resolveColumns([]string{"date", "time", "open", "high", "low", "close"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "volume")
	assert.Contains(t, err.Error(), "vwap")
	assert.Contains(t, err.Error(), "sigma")
}

// TestNormalizeWeekday covers English and Russian labels in mixed
// case.
func TestNormalizeWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Понедельник", "Monday", true},
		{"ВОСКРЕСЕНЬЕ", "Sunday", true},
		{"пятница", "Friday", true},
		{"tuesday", "Tuesday", true},
		{"Wednesday", "Wednesday", true},
		{" Saturday ", "Saturday", true},
		{"someday", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeWeekday(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

// TestNormalizeDate verifies every accepted calendar format collapses
// to YYYY-MM-DD.
func TestNormalizeDate(t *testing.T) {
	for _, in := range []string{"2024-01-08", "2024-01-08 00:00:00", "08.01.2024"} {
		got, err := normalizeDate(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, "2024-01-08", got, "input %q", in)
	}

	_, err := normalizeDate("January 8th")
	assert.Error(t, err)
	_, err = normalizeDate("")
	assert.Error(t, err)
}

// TestNormalizeClock verifies seconds are trimmed from time cells.
func TestNormalizeClock(t *testing.T) {
	for _, in := range []string{"10:30", "10:30:00"} {
		got, err := normalizeClock(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, "10:30", got, "input %q", in)
	}

	_, err := normalizeClock("25:99")
	assert.Error(t, err)
}

// TestParseNumber accepts comma decimal separators alongside points.
func TestParseNumber(t *testing.T) {
	v, err := parseNumber("2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = parseNumber("2,5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = parseNumber("")
	assert.Error(t, err)
	_, err = parseNumber("abc")
	assert.Error(t, err)
}

// TestParseBarRow_Fallbacks verifies the weekday and week key derive
// from the timestamp when their columns are absent.
func TestParseBarRow_Fallbacks(t *testing.T) {
	cm, err := resolveColumns([]string{"date", "time", "open", "high", "low", "close", "volume", "vwap", "sigma"})
	require.NoError(t, err)

	bar, err := parseBarRow(cm, []string{"2024-01-08", "10:30", "100", "101", "99", "100.5", "11", "100", "1.2"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "Monday", bar.Weekday)
	assert.Equal(t, "2024-W02", bar.WeekKey)
	assert.Equal(t, "2024-01-08", bar.Date)
	assert.Equal(t, "10:30", bar.Time)
	assert.Equal(t, 100.5, bar.Close)
	assert.Equal(t, 1.2, bar.Sigma)
	assert.Equal(t, 8, bar.Timestamp.Day())
	assert.Equal(t, 30, bar.Timestamp.Minute())
}
