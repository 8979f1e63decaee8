// Package features computes the per-bar derived fields the gold candle
// strategy reads: deviation from VWAP in sigma units, candle body size,
// and the trailing volume ratio.
package features

import (
	"math"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// Derive returns a copy of bars with all derived fields populated.
// The input slice is never mutated, so one loaded bar sequence can be
// shared across concurrent optimizer combinations.
//
// Derivation reads raw fields only; calling Derive on already-derived
// bars simply overwrites the derived fields with identical values.
// lookback must be at least 1 (enforced by config validation).
//
// AvgVol at index i is the mean volume of the lookback bars strictly
// preceding i, maintained as a sliding window sum. The first lookback
// bars have no window; they are marked VolumeReady=false.
func Derive(bars []types.Bar, lookback int) []types.Bar {
	out := make([]types.Bar, len(bars))
	copy(out, bars)

	var windowSum float64
	for i := range out {
		b := &out[i]

		// Deviation from VWAP, zero when sigma is not positive.
		if b.Sigma > 0 {
			b.Dist = (b.Close - b.VWAP) / b.Sigma
		} else {
			b.Dist = 0
		}

		b.Body = math.Abs(b.Close - b.Open)
		b.BodyPct = b.Body / b.Close * 100

		if i >= lookback {
			b.AvgVol = windowSum / float64(lookback)
			b.VolRatio = b.Volume / b.AvgVol
			b.VolumeReady = true
		} else {
			b.AvgVol = 0
			b.VolRatio = 0
			b.VolumeReady = false
		}

		// Slide the window over the raw volumes.
		windowSum += bars[i].Volume
		if i >= lookback {
			windowSum -= bars[i-lookback].Volume
		}
	}

	return out
}
