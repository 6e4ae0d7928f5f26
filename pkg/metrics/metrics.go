// Package metrics exposes Prometheus collectors for scrape runs. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aozorascraper/pkg/logger"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry         *prometheus.Registry
	LeavesTotal      *prometheus.CounterVec
	PageLoadsTotal   *prometheus.CounterVec
	PageLoadDuration prometheus.Histogram
	FlushesTotal     *prometheus.CounterVec
	JobsTotal        *prometheus.CounterVec
	JobRunning       prometheus.Gauge
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	leaves := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aozora_leaves_total",
			Help: "Leaves visited by result.",
		},
		[]string{"mode", "result"},
	)
	pageLoads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aozora_page_loads_total",
			Help: "Catalog page navigations by result.",
		},
		[]string{"mode", "result"},
	)
	pageLoadDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aozora_page_load_duration_seconds",
			Help:    "Time from navigation start to the load event.",
			Buckets: prometheus.DefBuckets,
		},
	)
	flushes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aozora_flushes_total",
			Help: "Artifacts written by result.",
		},
		[]string{"mode", "result"},
	)
	jobs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aozora_jobs_total",
			Help: "Finished jobs by terminal state.",
		},
		[]string{"mode", "state"},
	)
	running := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aozora_job_running",
			Help: "1 while a job is running.",
		},
	)

	registry.MustRegister(leaves, pageLoads, pageLoadDuration, flushes, jobs, running)

	return &Metrics{
		Registry:         registry,
		LeavesTotal:      leaves,
		PageLoadsTotal:   pageLoads,
		PageLoadDuration: pageLoadDuration,
		FlushesTotal:     flushes,
		JobsTotal:        jobs,
		JobRunning:       running,
	}
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "fail"
}

// ObserveLeaf counts one visited leaf.
func (m *Metrics) ObserveLeaf(mode string, ok bool) {
	if m == nil {
		return
	}
	m.LeavesTotal.WithLabelValues(mode, result(ok)).Inc()
}

// ObservePageLoad counts one navigation and records its duration.
func (m *Metrics) ObservePageLoad(mode string, d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.PageLoadsTotal.WithLabelValues(mode, result(ok)).Inc()
	if ok {
		m.PageLoadDuration.Observe(d.Seconds())
	}
}

// ObserveFlush counts one flush attempt.
func (m *Metrics) ObserveFlush(mode string, ok bool) {
	if m == nil {
		return
	}
	m.FlushesTotal.WithLabelValues(mode, result(ok)).Inc()
}

// JobStarted marks a job as running.
func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.JobRunning.Set(1)
}

// JobFinished records the terminal state of a job.
func (m *Metrics) JobFinished(mode, state string) {
	if m == nil {
		return
	}
	m.JobRunning.Set(0)
	m.JobsTotal.WithLabelValues(mode, state).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server failed")
		}
	}()
	log.WithField("addr", addr).Info("Metrics server enabled")
}
