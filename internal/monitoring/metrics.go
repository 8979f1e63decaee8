// Package monitoring exposes Prometheus metrics and a run-status endpoint
// for watching long optimization sweeps from outside the terminal.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sweep metrics
	combinationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gold_backtest_combinations_total",
			Help: "Total number of parameter combinations evaluated",
		},
		[]string{"asset"},
	)

	combinationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gold_backtest_combination_failures_total",
			Help: "Total number of combinations rejected by validation",
		},
		[]string{"asset"},
	)

	sweepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gold_backtest_sweep_duration_seconds",
			Help:    "Distribution of full sweep wall-clock times",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"asset"},
	)

	sweepProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gold_backtest_sweep_progress",
			Help: "Fraction of the current sweep completed, 0 to 1",
		},
		[]string{"asset"},
	)

	bestNet = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gold_backtest_best_net",
			Help: "Best net PnL seen so far in the current sweep",
		},
		[]string{"asset"},
	)

	// Single-run metrics
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gold_backtest_trades_total",
			Help: "Total number of simulated trades by outcome",
		},
		[]string{"asset", "outcome"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(combinationsTotal)
	prometheus.MustRegister(combinationFailures)
	prometheus.MustRegister(sweepDuration)
	prometheus.MustRegister(sweepProgress)
	prometheus.MustRegister(bestNet)
	prometheus.MustRegister(tradesTotal)
}

// RecordCombination records one evaluated combination
func RecordCombination(asset string, failed bool) {
	combinationsTotal.WithLabelValues(asset).Inc()
	if failed {
		combinationFailures.WithLabelValues(asset).Inc()
	}
}

// ObserveSweepDuration records the wall-clock time of a finished sweep
func ObserveSweepDuration(asset string, seconds float64) {
	sweepDuration.WithLabelValues(asset).Observe(seconds)
}

// UpdateSweepProgress updates the completed fraction of the current sweep
func UpdateSweepProgress(asset string, fraction float64) {
	sweepProgress.WithLabelValues(asset).Set(fraction)
}

// UpdateBestNet updates the best net PnL gauge
func UpdateBestNet(asset string, net float64) {
	bestNet.WithLabelValues(asset).Set(net)
}

// RecordTrade records one simulated trade
func RecordTrade(asset, outcome string) {
	tradesTotal.WithLabelValues(asset, outcome).Inc()
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// StartMetricsServer serves /metrics (and /health when health is non-nil)
// on addr in the background until the process exits. Listen failures are
// reported through errf.
func StartMetricsServer(addr string, health *HealthChecker, errf func(format string, args ...interface{})) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", NewMetricsHandler())
	if health != nil {
		mux.Handle("/health", health)
	}

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && errf != nil {
			errf("metrics server error: %v", err)
		}
	}()
}
