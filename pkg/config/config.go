// Package config provides strategy configuration management for the
// gold candle backtester.
package config

import (
	"fmt"
)

// Common configuration constants
const (
	// Default strategy parameter values (the ETH tuning)
	DefaultEntrySigma    = 2.1
	DefaultVolMultiplier = 3.0
	DefaultVolLookback   = 6
	DefaultMinBodyPct    = 0.9
	DefaultMaxBodyPct    = 10.0
	DefaultTP            = 200.0
	DefaultSL            = 75.0
	DefaultTrailTrigger  = 120.0
	DefaultFCDay         = "Sunday"
	DefaultFCTime        = "23:30"
	DefaultCommission    = 0.0005 // 0.05%

	// Validation constants
	MaxCommission = 1.0 // 100%

	// File and directory constants
	ResultsDir = "results"
)

// DefaultNoEntryDays returns the weekday labels on which new positions
// are never opened. A fresh slice per call so callers can append freely.
func DefaultNoEntryDays() []string {
	return []string{"Friday", "Saturday", "Sunday"}
}

// StrategyConfig holds all parameters of the gold candle strategy.
// It is a value object: built once per run or per optimizer combination
// and never mutated afterwards. MaxSigma nil means no upper bound on the
// entry deviation.
type StrategyConfig struct {
	// Entry parameters
	EntrySigma    float64  `json:"entry_sigma"`
	MaxSigma      *float64 `json:"max_sigma"`
	VolMultiplier float64  `json:"vol_multiplier"`
	VolLookback   int      `json:"vol_lookback"`
	MinBodyPct    float64  `json:"min_body_pct"`
	MaxBodyPct    float64  `json:"max_body_pct"`

	// Exit parameters (absolute price units)
	TP           float64 `json:"tp"`
	SL           float64 `json:"sl"`
	TrailTrigger float64 `json:"trail_trigger"`

	// Time parameters
	NoEntryDays []string `json:"no_entry_days"`
	FCDay       string   `json:"fc_day"`  // designated end-of-week day
	FCTime      string   `json:"fc_time"` // "HH:MM", compared lexicographically

	// Other
	Commission    float64 `json:"commission"`
	SkipZeroSigma bool    `json:"skip_zero_sigma"`
}

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *StrategyConfig {
	return &StrategyConfig{
		EntrySigma:    DefaultEntrySigma,
		MaxSigma:      nil,
		VolMultiplier: DefaultVolMultiplier,
		VolLookback:   DefaultVolLookback,
		MinBodyPct:    DefaultMinBodyPct,
		MaxBodyPct:    DefaultMaxBodyPct,
		TP:            DefaultTP,
		SL:            DefaultSL,
		TrailTrigger:  DefaultTrailTrigger,
		NoEntryDays:   DefaultNoEntryDays(),
		FCDay:         DefaultFCDay,
		FCTime:        DefaultFCTime,
		Commission:    DefaultCommission,
		SkipZeroSigma: true,
	}
}

// Clone returns a deep copy. The optimizer derives one clone per grid
// combination so that no combination can observe another's overrides.
func (c *StrategyConfig) Clone() *StrategyConfig {
	out := *c
	if c.MaxSigma != nil {
		v := *c.MaxSigma
		out.MaxSigma = &v
	}
	out.NoEntryDays = append([]string(nil), c.NoEntryDays...)
	return &out
}

// SkipsEntryOn reports whether entries are blocked on the given weekday.
func (c *StrategyConfig) SkipsEntryOn(weekday string) bool {
	for _, d := range c.NoEntryDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// ApplyParam overrides a single named parameter. A nil value clears
// max_sigma (no upper bound) and is invalid for every other parameter.
// Used by the optimizer to build per-combination configs from grid
// assignments.
func (c *StrategyConfig) ApplyParam(name string, value *float64) error {
	if name == "max_sigma" {
		if value == nil {
			c.MaxSigma = nil
		} else {
			v := *value
			c.MaxSigma = &v
		}
		return nil
	}
	if value == nil {
		return fmt.Errorf("parameter %q cannot be unset", name)
	}
	switch name {
	case "entry_sigma":
		c.EntrySigma = *value
	case "vol_multiplier":
		c.VolMultiplier = *value
	case "vol_lookback":
		c.VolLookback = int(*value)
	case "min_body_pct":
		c.MinBodyPct = *value
	case "max_body_pct":
		c.MaxBodyPct = *value
	case "tp":
		c.TP = *value
	case "sl":
		c.SL = *value
	case "trail_trigger":
		c.TrailTrigger = *value
	case "commission":
		c.Commission = *value
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

// Validate checks the configuration using the default validator.
func (c *StrategyConfig) Validate() error {
	return NewStrategyValidator().Validate(c)
}
