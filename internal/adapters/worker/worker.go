// Package worker plots several problem statements on a bounded pool of
// goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/dmasviz/pkg/logger"
	"github.com/okian/dmasviz/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Job outcome labels.
const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// Runner processes one problem statement.
type Runner interface {
	Run(ctx context.Context, problem string) error
}

// Result is the outcome of one job.
type Result struct {
	Problem string
	Err     error
	Elapsed time.Duration
}

// Pool runs jobs with at most size of them in flight.
type Pool struct {
	runner  Runner
	size    int
	logger  logger.Logger
	metrics *metrics.Manager
}

// NewPool creates a pool around runner. The size defaults to the number of
// CPUs.
func NewPool(runner Runner, opts ...Option) *Pool {
	p := &Pool{
		runner:  runner,
		size:    runtime.NumCPU(),
		logger:  logger.Nop(),
		metrics: metrics.Global(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the maximum number of concurrent jobs.
func (p *Pool) Size() int {
	return p.size
}

// Run processes every problem and returns one Result per problem in input
// order. A failing job does not stop the others. Problems not yet started
// when ctx is done fail with the context error.
func (p *Pool) Run(ctx context.Context, problems []string) []Result {
	results := make([]Result, len(problems))
	var g errgroup.Group
	g.SetLimit(p.size)
	for i, problem := range problems {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Problem: problem, Err: err}
			continue
		}
		i, problem := i, problem
		g.Go(func() error {
			results[i] = p.process(ctx, problem)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Pool) process(ctx context.Context, problem string) Result {
	p.metrics.AddActiveWorkers(1)
	defer p.metrics.AddActiveWorkers(-1)

	start := time.Now()
	err := p.runner.Run(ctx, problem)
	elapsed := time.Since(start)

	status := statusOK
	if err != nil {
		status = statusFailed
		p.logger.Error(ctx, "job failed", logger.String("problem", problem), logger.Error(err))
	} else {
		p.logger.Debug(ctx, "job done", logger.String("problem", problem), logger.Duration("elapsed", elapsed))
	}
	p.metrics.RecordJob(status, float64(elapsed.Microseconds())/1000)
	return Result{Problem: problem, Err: err, Elapsed: elapsed}
}

// Join combines the failures of results, each prefixed with its problem.
// It returns nil when every job succeeded.
func Join(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Problem, r.Err))
		}
	}
	return errors.Join(errs...)
}
