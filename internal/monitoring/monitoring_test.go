package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	RecordCombination("ETH", false)
	RecordCombination("ETH", true)
	UpdateSweepProgress("ETH", 0.5)
	UpdateBestNet("ETH", 123.4)
	RecordTrade("ETH", "TP")
	ObserveSweepDuration("ETH", 1.5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	NewMetricsHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "gold_backtest_combinations_total")
	assert.Contains(t, body, "gold_backtest_combination_failures_total")
	assert.Contains(t, body, "gold_backtest_sweep_progress")
	assert.Contains(t, body, "gold_backtest_best_net")
	assert.Contains(t, body, "gold_backtest_trades_total")
	assert.Contains(t, body, "gold_backtest_sweep_duration_seconds")
}

func TestHealthChecker(t *testing.T) {
	h := NewHealthChecker()

	serve := func() HealthStatus {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var status HealthStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		return status
	}

	assert.Equal(t, StatusIdle, serve().Status)

	h.StartRun("eth_30m.xlsx", "ETH", 180)
	h.Progress(90)
	status := serve()
	assert.Equal(t, StatusRunning, status.Status)
	assert.Equal(t, "eth_30m.xlsx", status.DataFile)
	assert.Equal(t, "ETH", status.Asset)
	assert.Equal(t, 90, status.Completed)
	assert.Equal(t, 180, status.Total)

	h.Finish()
	status = serve()
	assert.Equal(t, StatusDone, status.Status)
	assert.Equal(t, 180, status.Completed)
}
