package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/okian/handball-elo/internal/adapters/mq/queue"
	"github.com/okian/handball-elo/internal/adapters/mq/worker"
	"github.com/okian/handball-elo/internal/domain/dedupe"
	"github.com/okian/handball-elo/internal/domain/types"
	"github.com/okian/handball-elo/pkg/logger"
)

// Service rates independent leagues in parallel, one Engine per league.
type Service struct {
	workerCount int
	queueSize   int
	dedupeSize  int
	engineOpts  []Option

	total atomic.Int64
	done  atomic.Int64

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...ServiceOption) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   64,
		dedupeSize:  dedupe.DefaultMaxSize,
		logger:      logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run rates every job and returns one report per league, sorted by league
// name. A league that fails still appears in the report with its error.
// The returned error is the first SequenceError seen, if any, otherwise the
// first other failure.
func (s *Service) Run(ctx context.Context, jobs ...queue.Job) (types.Report, error) {
	q := queue.NewInMemoryQueue(queue.WithCapacity(max(s.queueSize, len(jobs))))
	pool := worker.NewPool(min(s.workerCount, max(len(jobs), 1)), q, worker.RunnerFunc(s.runLeague))
	pool.Start(ctx)

	s.total.Add(int64(len(jobs)))
	s.logger.Info(ctx, "rating leagues", logger.Int("leagues", len(jobs)))

	var enqueueErr error
	for _, j := range jobs {
		if !q.Enqueue(ctx, j) {
			enqueueErr = fmt.Errorf("%w: league %s", ErrQueueFull, j.League)
			break
		}
	}
	if err := q.Close(); err != nil {
		s.logger.Error(ctx, "error closing queue", logger.Error(err))
	}

	report := types.Report{GeneratedAt: time.Now().UTC()}
	var seqErr, firstErr error
	for res := range pool.Results() {
		s.done.Add(1)
		rep := res.Report
		rep.League = res.Job.League
		if res.Err != nil {
			rep.Error = res.Err.Error()
			switch {
			case errors.Is(res.Err, ErrSequence) && seqErr == nil:
				seqErr = res.Err
			case firstErr == nil:
				firstErr = res.Err
			}
		}
		report.Leagues = append(report.Leagues, rep)
	}
	sort.Slice(report.Leagues, func(i, j int) bool { return report.Leagues[i].League < report.Leagues[j].League })

	switch {
	case seqErr != nil:
		return report, seqErr
	case enqueueErr != nil:
		return report, enqueueErr
	default:
		return report, firstErr
	}
}

// Progress reports how many leagues have finished out of all submitted.
func (s *Service) Progress() (done, total int) {
	return int(s.done.Load()), int(s.total.Load())
}

// runLeague rates one job with an engine that owns all of its state,
// including the match-id deduper.
func (s *Service) runLeague(ctx context.Context, j queue.Job) (types.LeagueReport, error) {
	d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	opts := append(append([]Option(nil), s.engineOpts...), WithLeague(j.League), WithDeduper(d))
	e, err := NewEngine(opts...)
	if err != nil {
		return types.LeagueReport{}, err
	}
	err = e.Run(ctx, j.Seasons)
	return e.Report(ctx), err
}
