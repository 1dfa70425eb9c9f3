// Package worker runs league jobs from the queue on a fixed pool of
// goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/handball-elo/internal/adapters/mq/queue"
	"github.com/okian/handball-elo/internal/domain/types"
	"github.com/okian/handball-elo/pkg/logger"
	"github.com/okian/handball-elo/pkg/metrics"
)

// Runner rates one league job.
type Runner interface {
	RunJob(ctx context.Context, job queue.Job) (types.LeagueReport, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, job queue.Job) (types.LeagueReport, error)

// RunJob calls f.
func (f RunnerFunc) RunJob(ctx context.Context, job queue.Job) (types.LeagueReport, error) {
	return f(ctx, job)
}

// Result is the outcome of one job. Report is filled even when Err is set,
// with whatever the job produced before failing.
type Result struct {
	Job      queue.Job
	Report   types.LeagueReport
	Err      error
	Duration time.Duration
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// InMemoryWorker pulls jobs and hands them to a Runner.
type InMemoryWorker struct {
	jobs    <-chan queue.Job
	runner  Runner
	results chan<- Result
	name    string

	logger logger.Logger
}

// NewInMemoryWorker creates a worker reading from jobs and writing to results.
func NewInMemoryWorker(jobs <-chan queue.Job, runner Runner, results chan<- Result, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		jobs:    jobs,
		runner:  runner,
		results: results,
		name:    "worker",
		logger:  logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run processes jobs until the job channel closes or ctx is cancelled.
func (w *InMemoryWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-w.jobs:
			if !ok {
				return
			}
			res := w.process(ctx, j)
			select {
			case w.results <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) (res Result) {
	start := time.Now()
	res.Job = j
	w.logger.Info(ctx, "league job started",
		logger.String("job_id", j.ID.String()),
		logger.String("league", j.League),
		logger.Int("seasons", len(j.Seasons)),
		logger.Int("matches", j.Matches()),
	)

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("league %s: panic: %v", j.League, r)
			metrics.RecordErrorByComponent("worker", "panic")
		}
		res.Duration = time.Since(start)
		metrics.RecordJobProcessed(res.Duration.Seconds())
	}()

	res.Report, res.Err = w.runner.RunJob(ctx, j)
	if res.Err != nil {
		metrics.RecordErrorByComponent("worker", "job_failed")
		w.logger.Error(ctx, "league job failed",
			logger.String("job_id", j.ID.String()),
			logger.String("league", j.League),
			logger.Error(res.Err),
		)
		return res
	}
	w.logger.Info(ctx, "league job finished",
		logger.String("job_id", j.ID.String()),
		logger.String("league", j.League),
		logger.Duration("took", time.Since(start)),
	)
	return res
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	runner  Runner
	results chan Result
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// one worker per CPU.
func NewPool(workerCount int, q Queue, runner Runner) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	return &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		runner:  runner,
		results: make(chan Result, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
}

// Start launches the workers. Results is closed once every worker exits.
func (p *Pool) Start(ctx context.Context) {
	jobs := p.queue.Dequeue(ctx)
	for i := range p.workers {
		w := NewInMemoryWorker(jobs, p.runner, p.results, WithName("worker-"+strconv.Itoa(i)))
		p.workers[i] = w
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(ctx)
		}()
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
	p.logger.Debug(ctx, "worker pool started", logger.Int("workers", len(p.workers)))

	go func() {
		p.wg.Wait()
		metrics.UpdateWorkerActiveCount(0)
		close(p.results)
	}()
}

// Results delivers one Result per finished job.
func (p *Pool) Results() <-chan Result { return p.results }
