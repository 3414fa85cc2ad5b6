package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/bidhall/auction-api/pkg/logger"
)

// Job is a unit of background work. Jobs receive the worker's context and
// should stop early when it is cancelled.
type Job func(ctx context.Context) error

// Worker runs fire-and-forget jobs and recurring schedules. The engine uses
// it for notification delivery after commits and for the auction due-date
// sweep; neither may block a request handler.
type Worker struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sem    chan struct{}

	mu        sync.Mutex
	active    int
	completed int64
	failed    int64
}

// NewWorker creates a worker that runs at most maxConcurrent async jobs
// at once. Recurring schedules run on their own goroutines and do not
// count against the limit.
func NewWorker(maxConcurrent int) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, maxConcurrent),
	}
}

// EnqueueAsync runs the job on its own goroutine, bounded by the
// concurrency limit. Errors and panics are logged, never propagated;
// callers have already committed by the time delivery runs.
func (w *Worker) EnqueueAsync(job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		select {
		case w.sem <- struct{}{}:
			defer func() { <-w.sem }()
		case <-w.ctx.Done():
			return
		}

		w.run("async", job)
	}()
}

// ScheduleEvery runs the job at a fixed interval, first run after one
// interval has elapsed.
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.schedule(interval, job, false)
}

// ScheduleEveryImmediate runs the job once right away and then at a fixed
// interval. The sweep uses this so auctions that came due while the
// process was down are advanced at startup.
func (w *Worker) ScheduleEveryImmediate(interval time.Duration, job Job) {
	w.schedule(interval, job, true)
}

func (w *Worker) schedule(interval time.Duration, job Job, immediate bool) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		if immediate {
			w.run("scheduled", job)
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("scheduled", job)
			}
		}
	}()
}

func (w *Worker) run(kind string, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "kind", kind, "panic", r)
			w.finish(true)
		}
	}()

	w.mu.Lock()
	w.active++
	w.mu.Unlock()

	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error("Job failed", "kind", kind, "error", err, "duration", time.Since(start))
		w.finish(true)
		return
	}
	logger.Debug("Job completed", "kind", kind, "duration", time.Since(start))
	w.finish(false)
}

func (w *Worker) finish(failed bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active--
	w.completed++
	if failed {
		w.failed++
	}
}

// Stats reports jobs currently running, total finished and the failed
// subset of those.
func (w *Worker) Stats() (active int, completed, failed int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active, w.completed, w.failed
}

// Shutdown cancels the worker context and waits for in-flight jobs and
// schedules to drain.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}
