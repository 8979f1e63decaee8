package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Arbuzovtd/Backtester/internal/features"
	"github.com/Arbuzovtd/Backtester/pkg/config"
	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// qualifyingBar returns a derived bar that passes every filter with the
// default config and a dist of 2.2. Tests mutate single fields to probe
// individual rejections.
func qualifyingBar() types.Bar {
	return types.Bar{
		Close:       100,
		Sigma:       2,
		Dist:        2.2,
		BodyPct:     1.5,
		VolRatio:    4.0,
		VolumeReady: true,
	}
}

func TestClassify_QualifyingLong(t *testing.T) {
	cfg := config.NewDefaultConfig()
	assert.Equal(t, SignalLong, Classify(qualifyingBar(), cfg))
}

// TestClassify_FromDerivedSequence runs the classifier on the output of
// the feature deriver: a zero-sigma week opener followed by a volume
// spike 2.2 sigma above VWAP must classify as a long entry.
func TestClassify_FromDerivedSequence(t *testing.T) {
	raw := []types.Bar{
		{Open: 100, Close: 100, Volume: 10, VWAP: 100, Sigma: 0},
		{Open: 100, Close: 101, Volume: 12, VWAP: 100.5, Sigma: 1},
		{Open: 101, Close: 103.2, Volume: 44, VWAP: 101, Sigma: 1, Weekday: "Monday"},
	}
	bars := features.Derive(raw, 2)

	cfg := config.NewDefaultConfig()
	cfg.EntrySigma = 2.0
	cfg.MaxSigma = nil

	// Last bar: vol_ratio 44/11 = 4.0, dist (103.2-101)/1 = 2.2,
	// body_pct 2.2/103.2*100 ~ 2.13.
	assert.Equal(t, SignalLong, Classify(bars[2], cfg))

	// The zero-sigma opener never signals.
	assert.Equal(t, SignalNone, Classify(bars[0], cfg))
}

func TestClassify_VolumeRejections(t *testing.T) {
	cfg := config.NewDefaultConfig() // vol_multiplier 3.0

	warmup := qualifyingBar()
	warmup.VolumeReady = false
	assert.Equal(t, SignalNone, Classify(warmup, cfg))

	low := qualifyingBar()
	low.VolRatio = 2.9
	assert.Equal(t, SignalNone, Classify(low, cfg))

	exact := qualifyingBar()
	exact.VolRatio = 3.0
	assert.Equal(t, SignalLong, Classify(exact, cfg), "ratio equal to multiplier must pass")

	undefined := qualifyingBar()
	undefined.VolRatio = math.NaN() // zero volume over a zero window
	assert.Equal(t, SignalNone, Classify(undefined, cfg))
}

// TestClassify_BodyBounds verifies the body band is inclusive on both ends.
func TestClassify_BodyBounds(t *testing.T) {
	cfg := config.NewDefaultConfig() // band [0.9, 10.0]

	tests := []struct {
		name    string
		bodyPct float64
		want    Signal
	}{
		{"below band", 0.89, SignalNone},
		{"at lower bound", 0.9, SignalLong},
		{"inside band", 5.0, SignalLong},
		{"at upper bound", 10.0, SignalLong},
		{"above band", 10.01, SignalNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := qualifyingBar()
			bar.BodyPct = tt.bodyPct
			assert.Equal(t, tt.want, Classify(bar, cfg))
		})
	}
}

// TestClassify_ZeroSigma verifies skip_zero_sigma gates zero-sigma bars
// before the deviation is even considered.
func TestClassify_ZeroSigma(t *testing.T) {
	bar := qualifyingBar()
	bar.Sigma = 0

	skip := config.NewDefaultConfig()
	skip.SkipZeroSigma = true
	assert.Equal(t, SignalNone, Classify(bar, skip))

	keep := config.NewDefaultConfig()
	keep.SkipZeroSigma = false
	assert.Equal(t, SignalLong, Classify(bar, keep))
}

func TestClassify_DeviationBounds(t *testing.T) {
	maxSigma := 2.7
	bounded := config.NewDefaultConfig()
	bounded.EntrySigma = 2.1
	bounded.MaxSigma = &maxSigma

	unbounded := config.NewDefaultConfig()
	unbounded.EntrySigma = 2.1
	unbounded.MaxSigma = nil

	tests := []struct {
		name string
		cfg  *config.StrategyConfig
		dist float64
		want Signal
	}{
		{"below entry threshold", bounded, 2.09, SignalNone},
		{"at entry threshold", bounded, 2.1, SignalLong},
		{"at upper bound", bounded, 2.7, SignalLong},
		{"above upper bound", bounded, 2.71, SignalNone},
		{"above upper bound unbounded", unbounded, 5.0, SignalLong},
		{"short at entry threshold", bounded, -2.1, SignalShort},
		{"short at upper bound", bounded, -2.7, SignalShort},
		{"short beyond upper bound", bounded, -2.71, SignalNone},
		{"short beyond bound unbounded", unbounded, -5.0, SignalShort},
		{"dead zone", bounded, 0.5, SignalNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := qualifyingBar()
			bar.Dist = tt.dist
			assert.Equal(t, tt.want, Classify(bar, tt.cfg))
		})
	}
}

func TestSignal_Side(t *testing.T) {
	assert.Equal(t, types.SideLong, SignalLong.Side())
	assert.Equal(t, types.SideShort, SignalShort.Side())
}
