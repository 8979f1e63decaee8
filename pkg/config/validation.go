package config

import (
	"fmt"
	"time"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// StrategyValidator implements validation for strategy configurations
type StrategyValidator struct{}

// NewStrategyValidator creates a new strategy validator
func NewStrategyValidator() *StrategyValidator {
	return &StrategyValidator{}
}

// Validate performs comprehensive validation on strategy parameters.
// It runs once before a single run and once per optimizer combination,
// so a contradictory combination is rejected here rather than inside
// the bar loop.
func (v *StrategyValidator) Validate(cfg *StrategyConfig) error {
	if cfg.EntrySigma <= 0 {
		return fmt.Errorf("entry_sigma must be positive, got: %.2f", cfg.EntrySigma)
	}

	if cfg.MaxSigma != nil && *cfg.MaxSigma < cfg.EntrySigma {
		return fmt.Errorf("max_sigma (%.2f) must not be below entry_sigma (%.2f)", *cfg.MaxSigma, cfg.EntrySigma)
	}

	if cfg.VolMultiplier <= 0 {
		return fmt.Errorf("vol_multiplier must be positive, got: %.2f", cfg.VolMultiplier)
	}

	if cfg.VolLookback < 1 {
		return fmt.Errorf("vol_lookback must be at least 1, got: %d", cfg.VolLookback)
	}

	if cfg.MinBodyPct < 0 {
		return fmt.Errorf("min_body_pct must be non-negative, got: %.2f", cfg.MinBodyPct)
	}

	if cfg.MaxBodyPct < cfg.MinBodyPct {
		return fmt.Errorf("max_body_pct (%.2f) must not be below min_body_pct (%.2f)", cfg.MaxBodyPct, cfg.MinBodyPct)
	}

	if cfg.TP <= 0 {
		return fmt.Errorf("tp must be positive, got: %.2f", cfg.TP)
	}

	if cfg.SL <= 0 {
		return fmt.Errorf("sl must be positive, got: %.2f", cfg.SL)
	}

	if cfg.TrailTrigger <= 0 {
		return fmt.Errorf("trail_trigger must be positive, got: %.2f", cfg.TrailTrigger)
	}

	for _, day := range cfg.NoEntryDays {
		if !types.IsWeekday(day) {
			return fmt.Errorf("no_entry_days contains unknown weekday label: %q", day)
		}
	}

	if !types.IsWeekday(cfg.FCDay) {
		return fmt.Errorf("fc_day is not a weekday label: %q", cfg.FCDay)
	}

	if err := validateClockTime(cfg.FCTime); err != nil {
		return fmt.Errorf("fc_time: %w", err)
	}

	if cfg.Commission < 0 || cfg.Commission > MaxCommission {
		return fmt.Errorf("commission must be between 0 and %.1f, got: %.4f", MaxCommission, cfg.Commission)
	}

	return nil
}

// validateClockTime checks that s is a zero-padded "HH:MM" string.
// The padding matters: forced-close comparisons are lexicographic.
func validateClockTime(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("must be in HH:MM format, got: %q", s)
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("must be a valid HH:MM time, got: %q", s)
	}
	return nil
}
