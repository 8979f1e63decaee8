// Package strategy implements the gold candle entry rules: a bar
// qualifies when it pairs an outsized volume spike with a meaningful
// candle body and a strong deviation from VWAP.
package strategy

import (
	"math"

	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// Signal is the classifier's verdict for a single bar.
type Signal int

const (
	SignalNone Signal = iota
	SignalLong
	SignalShort
)

func (s Signal) String() string {
	switch s {
	case SignalLong:
		return "BUY"
	case SignalShort:
		return "SELL"
	default:
		return "NONE"
	}
}

// Side converts a non-none signal to the position side it opens.
func (s Signal) Side() types.Side {
	if s == SignalShort {
		return types.SideShort
	}
	return types.SideLong
}

// Classify decides whether a derived bar is a gold candle and in which
// direction. Pure function of the bar and the config; the position
// engine calls it once per flat bar.
//
// A bar is rejected outright when its volume ratio is undefined (warm-up
// or degenerate zero-volume window) or below the multiplier, when its
// body falls outside the configured band, or when sigma is zero and the
// config says to skip those bars. Otherwise the deviation decides:
// long at dist >= entry_sigma, short at dist <= -entry_sigma, each
// bounded by max_sigma when one is set. The two bounds are evaluated
// independently; a bar can satisfy neither, never both.
func Classify(bar types.Bar, cfg *config.StrategyConfig) Signal {
	if !bar.VolumeReady || math.IsNaN(bar.VolRatio) || bar.VolRatio < cfg.VolMultiplier {
		return SignalNone
	}

	if !(bar.BodyPct >= cfg.MinBodyPct && bar.BodyPct <= cfg.MaxBodyPct) {
		return SignalNone
	}

	if cfg.SkipZeroSigma && bar.Sigma == 0 {
		return SignalNone
	}

	dist := bar.Dist

	if dist >= cfg.EntrySigma {
		if cfg.MaxSigma == nil || dist <= *cfg.MaxSigma {
			return SignalLong
		}
	}

	if dist <= -cfg.EntrySigma {
		if cfg.MaxSigma == nil || dist >= -*cfg.MaxSigma {
			return SignalShort
		}
	}

	return SignalNone
}
