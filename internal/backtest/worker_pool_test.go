package backtest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSweepPool_ProcessesEveryJob verifies all submitted jobs come back
// exactly once across concurrent workers.
func TestSweepPool_ProcessesEveryJob(t *testing.T) {
	pool := newSweepPool(4, 8, func(job SweepJob) Row {
		return Row{Index: job.Index}
	})
	pool.start(context.Background())

	const jobs = 50
	go func() {
		defer pool.stop()
		for i := 0; i < jobs; i++ {
			if err := pool.submit(context.Background(), SweepJob{Index: i}); err != nil {
				return
			}
		}
	}()

	seen := make([]int, 0, jobs)
	for row := range pool.results() {
		seen = append(seen, row.Index)
	}

	require.Len(t, seen, jobs)
	sort.Ints(seen)
	for i, idx := range seen {
		assert.Equal(t, i, idx)
	}
}

// TestSweepPool_SubmitAfterCancel verifies submission fails once the
// context is cancelled so producers stop at a job boundary.
func TestSweepPool_SubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := newSweepPool(1, 1, func(job SweepJob) Row { return Row{Index: job.Index} })
	pool.start(ctx)
	cancel()

	// fill the buffer, then the next submit must report cancellation
	var err error
	for i := 0; i < 100; i++ {
		if err = pool.submit(ctx, SweepJob{Index: i}); err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, context.Canceled)
	pool.stop()
}

// TestSweepProgress covers the counters, percentage, and the ETA
// guard before the first completion.
func TestSweepProgress(t *testing.T) {
	p := NewSweepProgress(4)

	assert.Equal(t, time.Duration(0), p.ETA())

	p.Record(false)
	p.Record(true)

	completed, failed, total, percent := p.Snapshot()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 4, total)
	assert.InDelta(t, 50.0, percent, 1e-12)
	assert.GreaterOrEqual(t, p.ETA(), time.Duration(0))

	p.Record(false)
	p.Record(false)
	assert.Equal(t, time.Duration(0), p.ETA(), "a finished sweep has no remaining time")
}
