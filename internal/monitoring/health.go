package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// RunStatus names the phase the process is in.
type RunStatus string

const (
	StatusIdle    RunStatus = "idle"
	StatusRunning RunStatus = "running"
	StatusDone    RunStatus = "done"
)

// HealthChecker reports run progress on /health.
type HealthChecker struct {
	mu        sync.RWMutex
	status    RunStatus
	dataFile  string
	asset     string
	completed int
	total     int
	started   time.Time
}

type HealthStatus struct {
	Status    RunStatus `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DataFile  string    `json:"data_file,omitempty"`
	Asset     string    `json:"asset,omitempty"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Uptime    string    `json:"uptime"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		status:  StatusIdle,
		started: time.Now(),
	}
}

// StartRun marks the beginning of a backtest or sweep
func (h *HealthChecker) StartRun(dataFile, asset string, total int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = StatusRunning
	h.dataFile = dataFile
	h.asset = asset
	h.completed = 0
	h.total = total
}

// Progress updates the number of completed combinations
func (h *HealthChecker) Progress(completed int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = completed
}

// Finish marks the current run as done
func (h *HealthChecker) Finish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = StatusDone
	h.completed = h.total
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	health := HealthStatus{
		Status:    h.status,
		Timestamp: time.Now(),
		DataFile:  h.dataFile,
		Asset:     h.asset,
		Completed: h.completed,
		Total:     h.total,
		Uptime:    time.Since(h.started).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
