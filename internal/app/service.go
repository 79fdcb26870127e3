// Package service composes loading, rendering and viewing of simulation
// results.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/dmasviz/internal/adapters/chart"
	"github.com/okian/dmasviz/internal/domain/power"
	"github.com/okian/dmasviz/internal/domain/scores"
	"github.com/okian/dmasviz/pkg/logger"
)

// Loader reads the output files of a problem statement.
type Loader interface {
	LoadPower(ctx context.Context, problem string) (power.Power, error)
	LoadScores(ctx context.Context, problem string) (*scores.Scores, error)
}

// Renderer turns power data into a chart.
type Renderer interface {
	Render(ctx context.Context, p power.Power) (chart.Chart, error)
}

// Viewer displays a chart. It may block until the viewer is dismissed.
type Viewer interface {
	Show(ctx context.Context, name string, c chart.Chart) error
}

// scoresSink is implemented by viewers that can also expose the score tree.
type scoresSink interface {
	SetScores(s *scores.Scores)
}

// Service runs the load → plot pipeline. Calls are sequential; a Service
// holds no per-run state.
type Service struct {
	loader   Loader
	renderer Renderer
	viewer   Viewer
	logger   logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithRenderer sets the chart renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithViewer sets the chart viewer.
func WithViewer(v Viewer) Option {
	return func(s *Service) {
		if v != nil {
			s.viewer = v
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. The renderer defaults to a png chart.Renderer;
// loader and viewer must be supplied before Run or PlotPower are used.
func New(opts ...Option) *Service {
	s := &Service{
		renderer: chart.NewRenderer(),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlotPower renders p and hands the chart to the viewer.
func (s *Service) PlotPower(ctx context.Context, name string, p power.Power) error {
	if s.viewer == nil {
		return fmt.Errorf("plot power: %w", ErrNoViewer)
	}
	c, err := s.renderer.Render(ctx, p)
	if err != nil {
		return fmt.Errorf("plot power: %w", err)
	}
	if err := s.viewer.Show(ctx, name, c); err != nil {
		return fmt.Errorf("show power chart: %w", err)
	}
	return nil
}

// PlotScores is the score plot entry point. It draws nothing yet and always
// succeeds; PlotResults calls it so the pipeline stays complete.
func (s *Service) PlotScores(_ context.Context, _ string, _ *scores.Scores) error {
	return nil
}

// PlotResults plots power, then scores.
func (s *Service) PlotResults(ctx context.Context, name string, p power.Power, sc *scores.Scores) error {
	sink, ok := s.viewer.(scoresSink)
	if ok {
		sink.SetScores(sc)
	}
	s.logger.Debug(ctx, "plotting results", logger.String("problem", name), logger.Bool("scores_exposed", ok))
	if err := s.PlotPower(ctx, name, p); err != nil {
		return err
	}
	return s.PlotScores(ctx, name, sc)
}

// Run loads every output file of problem and plots the results. Any failure
// aborts the run.
func (s *Service) Run(ctx context.Context, problem string) error {
	if s.loader == nil {
		return fmt.Errorf("run %q: %w", problem, ErrNoLoader)
	}
	runID := uuid.NewString()
	log := s.logger.Named("run")
	log.Info(ctx, "run started", logger.String("run_id", runID), logger.String("problem", problem))

	p, err := s.loader.LoadPower(ctx, problem)
	if err != nil {
		log.Error(ctx, "run aborted", logger.String("run_id", runID), logger.Error(err))
		return fmt.Errorf("load power: %w", err)
	}
	sc, err := s.loader.LoadScores(ctx, problem)
	if err != nil {
		log.Error(ctx, "run aborted", logger.String("run_id", runID), logger.Error(err))
		return fmt.Errorf("load scores: %w", err)
	}
	if err := s.PlotResults(ctx, problem, p, sc); err != nil {
		log.Error(ctx, "run aborted", logger.String("run_id", runID), logger.Error(err))
		return err
	}
	tot := sc.Totals()
	log.Info(ctx, "run finished", logger.String("run_id", runID),
		logger.Int("samples", p.Length), logger.Int("tasks", tot.Tasks),
		logger.Float64("score", tot.Score), logger.Float64("max_score", tot.MaxScore))
	return nil
}
