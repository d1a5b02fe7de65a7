// Package monitor exports backend and validator activity as Prometheus
// metrics.
//
// A Monitor implements both parallel.Observer and crossvalidation.Observer,
// so a single instance can be passed to WithObserver on a backend and on a
// validator.
package monitor

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "scicv"

// Outcome label values of scicv_validations_total.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Monitor holds the Prometheus collectors.
type Monitor struct {
	JobsTotal        *prometheus.CounterVec   // jobs processed, by backend
	JobFailures      *prometheus.CounterVec   // failed jobs, by backend
	JobDuration      *prometheus.HistogramVec // job wall time, by backend
	ValidationsTotal *prometheus.CounterVec   // validation runs, by strategy and outcome
	ValidationScore  *prometheus.GaugeVec     // last aggregated score, by strategy

	gatherer prometheus.Gatherer
}

// New registers the collectors on the default registry.
func New() *Monitor {
	return newMonitor(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry registers the collectors on reg, which keeps tests isolated
// from the global registry.
func NewWithRegistry(reg *prometheus.Registry) *Monitor {
	return newMonitor(reg, reg)
}

func newMonitor(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Monitor {
	factory := promauto.With(registerer)
	return &Monitor{
		JobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "jobs_total",
			Help:      "Total number of backend jobs processed",
		}, []string{"backend"}),
		JobFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "job_failures_total",
			Help:      "Total number of backend jobs that returned an error or panicked",
		}, []string{"backend"}),
		JobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "job_duration_seconds",
			Help:      "Backend job duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
		ValidationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "validations_total",
			Help:      "Total number of validation runs",
		}, []string{"strategy", "outcome"}),
		ValidationScore: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "validation_score",
			Help:      "Aggregated score of the last successful validation run",
		}, []string{"strategy"}),
		gatherer: gatherer,
	}
}

// ObserveJob implements parallel.Observer.
func (m *Monitor) ObserveJob(backend string, _ int, elapsed time.Duration, err error) {
	m.JobsTotal.WithLabelValues(backend).Inc()
	m.JobDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	if err != nil {
		m.JobFailures.WithLabelValues(backend).Inc()
	}
}

// ObserveValidation implements crossvalidation.Observer.
func (m *Monitor) ObserveValidation(strategy string, score float64, err error) {
	if err != nil {
		m.ValidationsTotal.WithLabelValues(strategy, OutcomeFailure).Inc()
		return
	}
	m.ValidationsTotal.WithLabelValues(strategy, OutcomeSuccess).Inc()
	m.ValidationScore.WithLabelValues(strategy).Set(score)
}

// Handler serves the collectors in the Prometheus text format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// NewServer returns an HTTP server exposing /metrics and /health on addr.
func (m *Monitor) NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

