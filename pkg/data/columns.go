package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// columnAliases maps each bar field to the header spellings accepted
// for it, lowercased. Source workbooks come from a Russian-language
// pipeline, so the weekday column and a few others carry Cyrillic
// names.
var columnAliases = map[string][]string{
	"date":    {"date", "дата"},
	"time":    {"time", "время"},
	"open":    {"open"},
	"high":    {"high"},
	"low":     {"low"},
	"close":   {"close"},
	"volume":  {"volume", "объем", "объём"},
	"vwap":    {"vwap"},
	"sigma":   {"σ", "sigma", "std"},
	"weekday": {"день", "day", "weekday"},
	"week":    {"week_key", "week"},
	"symbol":  {"symbol", "ticker"},
}

// requiredColumns must all be present in the header row. Weekday, week
// key and symbol are optional: the first two can be derived from the
// timestamp, the symbol falls back to price-scale detection.
var requiredColumns = []string{"date", "time", "open", "high", "low", "close", "volume", "vwap", "sigma"}

// columnMap holds the resolved position of each field, -1 when the
// column is absent.
type columnMap map[string]int

// resolveColumns matches a header row against the known aliases and
// reports every missing required column at once.
func resolveColumns(header []string) (columnMap, error) {
	cm := make(columnMap, len(columnAliases))
	for field := range columnAliases {
		cm[field] = -1
	}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		for field, aliases := range columnAliases {
			if cm[field] != -1 {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					cm[field] = i
					break
				}
			}
		}
	}

	var missing []string
	for _, field := range requiredColumns {
		if cm[field] == -1 {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cm, nil
}

// cell returns the raw field value, empty when the column is absent or
// the row is ragged.
func (cm columnMap) cell(row []string, field string) string {
	idx := cm[field]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// russianWeekdays translates the Cyrillic weekday labels written by
// the upstream data pipeline.
var russianWeekdays = map[string]string{
	"понедельник": "Monday",
	"вторник":     "Tuesday",
	"среда":       "Wednesday",
	"четверг":     "Thursday",
	"пятница":     "Friday",
	"суббота":     "Saturday",
	"воскресенье": "Sunday",
}

// NormalizeWeekday canonicalizes a weekday label to its English form,
// accepting English and Russian spellings in any letter case.
func NormalizeWeekday(label string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(label))
	if day, ok := russianWeekdays[lower]; ok {
		return day, true
	}
	for _, day := range types.Weekdays {
		if lower == strings.ToLower(day) {
			return day, true
		}
	}
	return "", false
}

// parseBarRow converts one table row into a Bar. rowNum is 1-based and
// only used for diagnostics.
func parseBarRow(cm columnMap, row []string, rowNum int) (types.Bar, error) {
	var bar types.Bar
	var err error

	dateStr := cm.cell(row, "date")
	bar.Date, err = normalizeDate(dateStr)
	if err != nil {
		return bar, fmt.Errorf("row %d: invalid date %q: %w", rowNum, dateStr, err)
	}

	timeStr := cm.cell(row, "time")
	bar.Time, err = normalizeClock(timeStr)
	if err != nil {
		return bar, fmt.Errorf("row %d: invalid time %q: %w", rowNum, timeStr, err)
	}

	bar.Timestamp, err = time.Parse("2006-01-02 15:04", bar.Date+" "+bar.Time)
	if err != nil {
		return bar, fmt.Errorf("row %d: cannot combine date and time: %w", rowNum, err)
	}

	numeric := []struct {
		field string
		dst   *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
		{"volume", &bar.Volume},
		{"vwap", &bar.VWAP},
		{"sigma", &bar.Sigma},
	}
	for _, n := range numeric {
		raw := cm.cell(row, n.field)
		*n.dst, err = parseNumber(raw)
		if err != nil {
			return bar, fmt.Errorf("row %d: invalid %s %q: %w", rowNum, n.field, raw, err)
		}
	}

	if label := cm.cell(row, "weekday"); label != "" {
		day, ok := NormalizeWeekday(label)
		if !ok {
			return bar, fmt.Errorf("row %d: unknown weekday label %q", rowNum, label)
		}
		bar.Weekday = day
	} else {
		bar.Weekday = bar.Timestamp.Weekday().String()
	}

	if week := cm.cell(row, "week"); week != "" {
		bar.WeekKey = week
	} else {
		year, wk := bar.Timestamp.ISOWeek()
		bar.WeekKey = fmt.Sprintf("%d-W%02d", year, wk)
	}

	bar.Symbol = cm.cell(row, "symbol")

	return bar, nil
}

// parseNumber parses a float that may use a comma decimal separator.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return v, nil
	}
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// dateLayouts are the calendar formats accepted in the date column,
// tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02.01.2006",
}

// normalizeDate reduces a date cell to its "YYYY-MM-DD" form.
func normalizeDate(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date format")
}

// normalizeClock reduces a time cell to its "HH:MM" form.
func normalizeClock(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty value")
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognized time format")
}
