package worker_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/okian/handball-elo/internal/adapters/mq/queue"
	"github.com/okian/handball-elo/internal/adapters/mq/worker"
	"github.com/okian/handball-elo/internal/domain/types"
	"github.com/okian/handball-elo/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type mockQueue struct {
	jobs chan queue.Job
}

func newMockQueue() *mockQueue { return &mockQueue{jobs: make(chan queue.Job, 10)} }

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	close(mq.jobs)
	return nil
}

type mockRunner struct {
	mu     sync.Mutex
	failOn map[string]error
	panics map[string]bool
	seen   []string
}

func (m *mockRunner) RunJob(_ context.Context, j queue.Job) (types.LeagueReport, error) {
	m.mu.Lock()
	m.seen = append(m.seen, j.League)
	err := m.failOn[j.League]
	panics := m.panics[j.League]
	m.mu.Unlock()

	if panics {
		panic("broken league")
	}
	return types.LeagueReport{League: j.League, Summary: types.Summary{MatchesApplied: j.Matches()}}, err
}

func collect(ch <-chan worker.Result) map[string]worker.Result {
	out := make(map[string]worker.Result)
	for r := range ch {
		out[r.Job.League] = r
	}
	return out
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of two workers", t, func() {
		ctx := context.Background()
		q := newMockQueue()
		runner := &mockRunner{
			failOn: map[string]error{"b": errors.New("sequence error")},
			panics: map[string]bool{"c": true},
		}
		pool := worker.NewPool(2, q, runner)
		pool.Start(ctx)

		convey.Convey("When three leagues are queued and the queue closes", func() {
			for _, l := range []string{"a", "b", "c"} {
				q.jobs <- queue.NewJob(l, nil)
			}
			convey.So(q.Close(), convey.ShouldBeNil)

			results := collect(pool.Results())

			convey.Convey("Then every job yields exactly one result", func() {
				convey.So(results, convey.ShouldHaveLength, 3)
				sort.Strings(runner.seen)
				convey.So(runner.seen, convey.ShouldResemble, []string{"a", "b", "c"})
			})

			convey.Convey("Then failures and panics are reported per job", func() {
				convey.So(results["a"].Err, convey.ShouldBeNil)
				convey.So(results["a"].Report.League, convey.ShouldEqual, "a")
				convey.So(results["b"].Err, convey.ShouldNotBeNil)
				convey.So(results["c"].Err.Error(), convey.ShouldContainSubstring, "panic")
			})
		})
	})
}
