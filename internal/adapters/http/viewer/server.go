// Package viewer displays rendered charts, either as a file on disk or on a
// local HTTP page that stays up until the viewer is dismissed.
package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/okian/dmasviz/internal/adapters/chart"
	"github.com/okian/dmasviz/internal/domain/scores"
	"github.com/okian/dmasviz/internal/domain/types"
	"github.com/okian/dmasviz/pkg/logger"
	"github.com/okian/dmasviz/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// HTTPViewer serves the chart on a local page. Show blocks until its context
// is cancelled.
type HTTPViewer struct {
	addr    string
	logger  logger.Logger
	metrics *metrics.Manager
	ready   func(addr string)

	mu     sync.RWMutex
	name   string
	chart  chart.Chart
	scores *scores.Scores
}

// Option applies a configuration option to the HTTPViewer.
type Option func(*HTTPViewer)

// WithLogger sets the viewer's logger.
func WithLogger(l logger.Logger) Option {
	return func(v *HTTPViewer) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMetrics sets the metrics manager requests are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(v *HTTPViewer) {
		if m != nil {
			v.metrics = m
		}
	}
}

// WithReady registers a callback receiving the bound address once the
// viewer accepts connections.
func WithReady(fn func(addr string)) Option {
	return func(v *HTTPViewer) {
		v.ready = fn
	}
}

// NewHTTPViewer creates a viewer listening on addr.
func NewHTTPViewer(addr string, opts ...Option) *HTTPViewer {
	v := &HTTPViewer{
		addr:    addr,
		logger:  logger.Nop(),
		metrics: metrics.Global(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetScores attaches a score tree served on /scores.
func (v *HTTPViewer) SetScores(s *scores.Scores) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scores = s
}

// Handler returns the viewer routes.
func (v *HTTPViewer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", MetricsMiddleware(v.metrics, v.handleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(v.metrics.Gatherer(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/chart", MetricsMiddleware(v.metrics, v.handleChart, "chart"))
	mux.HandleFunc("/scores", MetricsMiddleware(v.metrics, v.handleScores, "scores"))
	mux.HandleFunc("/openapi.yaml", MetricsMiddleware(v.metrics, handleOpenAPI, "openapi"))
	mux.HandleFunc("/", MetricsMiddleware(v.metrics, v.handleIndex, "index"))
	return mux
}

// Show publishes c and serves it until ctx is done, then shuts the server
// down.
func (v *HTTPViewer) Show(ctx context.Context, name string, c chart.Chart) error {
	v.mu.Lock()
	v.name = name
	v.chart = c
	v.mu.Unlock()

	ln, err := net.Listen("tcp", v.addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	srv := &http.Server{
		Handler:           v.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	bound := ln.Addr().String()
	v.logger.Info(ctx, "chart viewer listening; interrupt to dismiss", logger.String("addr", bound))
	if v.ready != nil {
		v.ready(bound)
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%w: %w", ErrServe, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		v.logger.Error(ctx, "viewer shutdown failed", logger.Error(err))
		return fmt.Errorf("%w: %w", ErrServe, err)
	}
	v.logger.Info(ctx, "chart viewer dismissed")
	return nil
}

func (v *HTTPViewer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (v *HTTPViewer) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v.mu.RLock()
	c := v.chart
	v.mu.RUnlock()
	if len(c.Data) == 0 {
		writeError(w, http.StatusNotFound, "no_chart", errors.New("no chart rendered yet"))
		return
	}
	w.Header().Set("Content-Type", c.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Data)
}

func (v *HTTPViewer) handleScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v.mu.RLock()
	s := v.scores
	v.mu.RUnlock()
	if s == nil {
		writeError(w, http.StatusNotFound, "no_scores", errors.New("no scores loaded"))
		return
	}
	writeJSON(w, http.StatusOK, types.FromScores(s))
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en"><meta charset="utf-8">
<title>{{.Name}} power</title>
<style>body{font-family:system-ui,Helvetica,Arial,sans-serif;margin:20px}img{max-width:100%}</style>
<h1>{{.Name}}</h1>
<p>{{.Series}} series &middot; <a href="/scores">scores</a> &middot; <a href="/metrics">metrics</a> &middot; <a href="/openapi.yaml">api</a></p>
<img src="/chart" alt="power chart">
</html>`))

func (v *HTTPViewer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v.mu.RLock()
	data := struct {
		Name   string
		Series int
	}{Name: v.name, Series: v.chart.Series}
	v.mu.RUnlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, data)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
