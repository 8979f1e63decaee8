// Package logger provides a per-session file log for backtest runs.
package logger

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Arbuzovtd/Backtester/pkg/types"
)

// Logger appends session entries to a per-asset, per-day log file. Each
// session carries a unique run ID so interleaved runs stay separable.
type Logger struct {
	runID   string
	asset   string
	path    string
	logFile *os.File
	logger  *log.Logger
	mu      sync.Mutex
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelResult  LogLevel = "RESULT"
	LogLevelSweep   LogLevel = "SWEEP"
)

// NewLogger creates a file logger under logDir for the given asset
func NewLogger(logDir, asset string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := strings.ToUpper(strings.TrimSpace(asset))
	if name == "" {
		name = "UNKNOWN"
	}
	filename := fmt.Sprintf("backtest_%s_%s.log", name, time.Now().Format("2006-01-02"))
	logPath := filepath.Join(logDir, filename)

	// Append so several sessions on the same day share one file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		runID:   uuid.New().String(),
		asset:   name,
		path:    logPath,
		logFile: file,
		logger:  log.New(file, "", 0),
	}

	l.writeSessionHeader()

	return l, nil
}

// RunID returns this session's unique identifier
func (l *Logger) RunID() string {
	return l.runID
}

// Path returns the log file path
func (l *Logger) Path() string {
	return l.path
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
GOLD BACKTEST SESSION STARTED
================================================================================
Run ID: %s
Asset: %s
Started: %s
================================================================================
`, l.runID, l.asset, time.Now().Format("2006-01-02 15:04:05"))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)

	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogError logs an error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// LogSummary logs the aggregated result of a single backtest
func (l *Logger) LogSummary(s types.Summary) {
	ratio := fmt.Sprintf("%.2f", s.Ratio)
	if math.IsInf(s.Ratio, 1) {
		ratio = "inf"
	}
	l.Log(LogLevelResult, "trades=%d tp=%d sl=%d stop0=%d fc=%d net=%.2f dd=%.2f ratio=%s win_rate=%.1f%%",
		s.Trades, s.TP, s.SL, s.Stop0, s.FC, s.Net, s.Drawdown, ratio, s.WinRate)
}

// LogSweep logs optimization sweep progress or completion
func (l *Logger) LogSweep(completed, failed, total int, elapsed time.Duration) {
	l.Log(LogLevelSweep, "completed=%d failed=%d total=%d elapsed=%s",
		completed, failed, total, elapsed.Round(time.Millisecond))
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
GOLD BACKTEST SESSION ENDED
================================================================================
Run ID: %s
Ended: %s
================================================================================

`, l.runID, time.Now().Format("2006-01-02 15:04:05"))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}
