package backtest

import (
	"context"
	"sync"
	"time"
)

// SweepJob is one grid combination queued for evaluation, tagged with
// its enumeration index in the Cartesian product.
type SweepJob struct {
	Index       int
	Assignments []Assignment
}

// sweepPool fans SweepJobs out to a bounded set of workers, each
// running the same evaluation function. Cancellation is cooperative:
// a worker checks the context between jobs, so combinations are never
// interrupted mid-run.
type sweepPool struct {
	workerCount int
	run         func(SweepJob) Row
	jobQueue    chan SweepJob
	resultQueue chan Row
	wg          sync.WaitGroup
}

func newSweepPool(workerCount, queueSize int, run func(SweepJob) Row) *sweepPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 1 {
		queueSize = workerCount
	}
	return &sweepPool{
		workerCount: workerCount,
		run:         run,
		jobQueue:    make(chan SweepJob, queueSize),
		resultQueue: make(chan Row, queueSize),
	}
}

// start launches the worker goroutines.
func (p *sweepPool) start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *sweepPool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			select {
			case p.resultQueue <- p.run(job):
			case <-ctx.Done():
				return
			}
		}
	}
}

// submit queues a job, returning the context error if the sweep was
// cancelled before the job could be accepted.
func (p *sweepPool) submit(ctx context.Context, job SweepJob) error {
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// results exposes the completed rows. The channel is closed by stop
// once every worker has drained out.
func (p *sweepPool) results() <-chan Row {
	return p.resultQueue
}

// stop closes the intake, waits for the workers to finish, then closes
// the result channel so collectors can range to completion.
func (p *sweepPool) stop() {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.resultQueue)
}

// SweepProgress tracks completion of a parameter sweep. It is safe for
// concurrent use.
type SweepProgress struct {
	mu        sync.Mutex
	total     int
	completed int
	failed    int
	started   time.Time
}

// NewSweepProgress starts tracking a sweep of the given size.
func NewSweepProgress(total int) *SweepProgress {
	return &SweepProgress{total: total, started: time.Now()}
}

// Record counts one finished combination.
func (p *SweepProgress) Record(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	if failed {
		p.failed++
	}
}

// Snapshot returns the counts and completion percentage so far.
func (p *SweepProgress) Snapshot() (completed, failed, total int, percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	percent = 100.0
	if p.total > 0 {
		percent = float64(p.completed) / float64(p.total) * 100
	}
	return p.completed, p.failed, p.total, percent
}

// ETA estimates the time remaining from the average pace so far. It
// returns zero until at least one combination has completed.
func (p *SweepProgress) ETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.completed == 0 || p.completed >= p.total {
		return 0
	}
	perJob := time.Since(p.started) / time.Duration(p.completed)
	return perJob * time.Duration(p.total-p.completed)
}
