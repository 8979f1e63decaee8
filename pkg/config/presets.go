package config

import (
	"fmt"
	"strings"
)

// Tuned presets for the two supported assets. The ETH tuning is the
// package default; BTC trades at a much higher price level, so its
// thresholds are wider and it carries an upper sigma bound.

// ETHPreset returns the configuration tuned for ETH.
func ETHPreset() *StrategyConfig {
	return NewDefaultConfig()
}

// BTCPreset returns the configuration tuned for BTC.
func BTCPreset() *StrategyConfig {
	maxSigma := 2.7
	cfg := NewDefaultConfig()
	cfg.EntrySigma = 2.0
	cfg.MaxSigma = &maxSigma
	cfg.VolMultiplier = 4.0
	cfg.MinBodyPct = 0.65
	cfg.MaxBodyPct = 2.1
	cfg.TP = 5000
	cfg.SL = 3000
	cfg.TrailTrigger = 2000
	cfg.FCTime = "20:00"
	return cfg
}

// ForAsset returns the preset matching a detected asset name.
// Anything that is not BTC falls back to the ETH tuning.
func ForAsset(asset string) *StrategyConfig {
	if strings.EqualFold(asset, "BTC") {
		return BTCPreset()
	}
	return ETHPreset()
}

// PresetByName resolves a preset name given on the command line.
// Accepts "btc"/"eth" in any case, with or without a "_config" suffix.
func PresetByName(name string) (*StrategyConfig, error) {
	switch strings.TrimSuffix(strings.ToLower(name), "_config") {
	case "btc":
		return BTCPreset(), nil
	case "eth":
		return ETHPreset(), nil
	default:
		return nil, fmt.Errorf("unknown preset %q (expected btc or eth)", name)
	}
}

// IsPresetName reports whether name resolves to a built-in preset.
func IsPresetName(name string) bool {
	_, err := PresetByName(name)
	return err == nil
}
