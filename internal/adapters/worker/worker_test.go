package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	worker "github.com/okian/dmasviz/internal/adapters/worker"
	"github.com/okian/dmasviz/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errMissing = errors.New("missing power.csv")

// Mock implementations for testing.
type mockRunner struct {
	delay    time.Duration
	failures map[string]error

	mu       sync.Mutex
	seen     []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (m *mockRunner) Run(ctx context.Context, problem string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if n <= peak || m.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	m.mu.Lock()
	m.seen = append(m.seen, problem)
	m.mu.Unlock()

	select {
	case <-time.After(m.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	return m.failures[problem]
}

func newPool(r worker.Runner, size int) *worker.Pool {
	m := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
	return worker.NewPool(r, worker.WithSize(size), worker.WithMetrics(m))
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of two workers", t, func() {
		runner := &mockRunner{delay: 20 * time.Millisecond, failures: map[string]error{"b": errMissing}}
		pool := newPool(runner, 2)
		convey.So(pool.Size(), convey.ShouldEqual, 2)

		convey.Convey("When five problems are run", func() {
			problems := []string{"a", "b", "c", "d", "e"}
			results := pool.Run(context.Background(), problems)

			convey.Convey("Then every problem has a result in input order", func() {
				convey.So(results, convey.ShouldHaveLength, 5)
				for i, r := range results {
					convey.So(r.Problem, convey.ShouldEqual, problems[i])
				}
				convey.So(runner.seen, convey.ShouldHaveLength, 5)
			})

			convey.Convey("And no more than two ran at once", func() {
				convey.So(runner.peak.Load(), convey.ShouldBeLessThanOrEqualTo, 2)
			})

			convey.Convey("And only the failing problem carries an error", func() {
				convey.So(errors.Is(results[1].Err, errMissing), convey.ShouldBeTrue)
				convey.So(results[0].Err, convey.ShouldBeNil)
				convey.So(results[4].Err, convey.ShouldBeNil)

				err := worker.Join(results)
				convey.So(errors.Is(err, errMissing), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldStartWith, "b: ")
			})
		})

		convey.Convey("When nothing is queued", func() {
			results := pool.Run(context.Background(), nil)
			convey.So(results, convey.ShouldBeEmpty)
			convey.So(worker.Join(results), convey.ShouldBeNil)
		})

		convey.Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			results := pool.Run(ctx, []string{"a", "b", "c"})

			convey.Convey("Then every job reports the cancellation", func() {
				for _, r := range results {
					convey.So(errors.Is(r.Err, context.Canceled), convey.ShouldBeTrue)
				}
			})
		})
	})

	convey.Convey("Given a pool without a size", t, func() {
		pool := worker.NewPool(&mockRunner{}, worker.WithSize(0))
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}
