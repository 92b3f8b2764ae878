// Package metrics provides Prometheus instrumentation for debt collection and the HTTP API.
//
// All Recorder methods are safe on a nil receiver so callers that do not
// need instrumentation can pass nil.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tech-debt-manager/src/model"
)

const namespace = "techdebt"

// Detector run outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Recorder holds the Prometheus collectors for the service
type Recorder struct {
	gatherer prometheus.Gatherer

	// DetectorRuns counts detector runs. Labels: detector, outcome
	DetectorRuns *prometheus.CounterVec

	// DetectorDuration measures detector run time. Labels: detector
	DetectorDuration *prometheus.HistogramVec

	// ItemsCollected counts debt items returned by aggregations. Labels: type
	ItemsCollected *prometheus.CounterVec

	// Aggregations counts aggregation calls. Labels: outcome
	Aggregations *prometheus.CounterVec

	// HTTPRequests counts API requests. Labels: method, route, status
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration measures API latency. Labels: method, route
	HTTPDuration *prometheus.HistogramVec
}

// NewRecorder registers all collectors on a fresh registry that also carries
// the Go runtime and process collectors
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewRecorderWithRegistry(reg)
}

// NewRecorderWithRegistry registers all collectors on reg
func NewRecorderWithRegistry(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		gatherer: reg,

		DetectorRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "detector",
				Name:      "runs_total",
				Help:      "Detector runs by detector and outcome",
			},
			[]string{"detector", "outcome"},
		),

		DetectorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "detector",
				Name:      "duration_seconds",
				Help:      "Detector run duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"detector"},
		),

		ItemsCollected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "aggregation",
				Name:      "items_total",
				Help:      "Debt items returned by aggregations, by type",
			},
			[]string{"type"},
		),

		Aggregations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "aggregation",
				Name:      "runs_total",
				Help:      "Aggregation runs by outcome",
			},
			[]string{"outcome"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "API requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "API request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Gatherer returns the registry backing this recorder
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.gatherer
}

// ObserveDetector records one detector run
func (r *Recorder) ObserveDetector(detector, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.DetectorRuns.WithLabelValues(detector, outcome).Inc()
	if outcome != OutcomeSkipped {
		r.DetectorDuration.WithLabelValues(detector).Observe(elapsed.Seconds())
	}
}

// ObserveAggregation records the result of one aggregation
func (r *Recorder) ObserveAggregation(items []model.DebtItem, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.Aggregations.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	r.Aggregations.WithLabelValues(OutcomeSuccess).Inc()
	for _, item := range items {
		r.ItemsCollected.WithLabelValues(string(item.Type)).Inc()
	}
}

// ObserveRequest records one HTTP request
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
