package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	huntsTotal     *prometheus.CounterVec
	huntDuration   prometheus.Histogram
	detectorFaults *prometheus.CounterVec
	decisionScores prometheus.Histogram
	routingTotal   *prometheus.CounterVec
	modelLatency   *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		huntsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avesto_hunts_total",
				Help: "Total number of opportunity hunts",
			},
			[]string{"found"},
		),
		huntDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "avesto_hunt_duration_seconds",
				Help:    "Duration of opportunity hunts in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		detectorFaults: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avesto_detector_faults_total",
				Help: "Detector errors and panics recovered during hunts",
			},
			[]string{"detector"},
		),
		decisionScores: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "avesto_decision_scores",
				Help:    "Distribution of decision scores",
				Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		),
		routingTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avesto_routing_total",
				Help: "Query routing decisions by target and reason",
			},
			[]string{"target", "reason"},
		),
		modelLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "avesto_model_duration_seconds",
				Help:    "Model invocation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"target"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "avesto_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordHunt records one completed opportunity hunt.
func (r *Recorder) RecordHunt(found int, seconds float64) {
	r.huntsTotal.WithLabelValues(strconv.Itoa(found)).Inc()
	r.huntDuration.Observe(seconds)
}

// RecordDetectorFault records a recovered detector failure.
func (r *Recorder) RecordDetectorFault(detector string) {
	r.detectorFaults.WithLabelValues(detector).Inc()
}

// RecordDecisionScore records one decision score.
func (r *Recorder) RecordDecisionScore(score int) {
	r.decisionScores.Observe(float64(score))
}

// RecordRouting records a routing decision.
func (r *Recorder) RecordRouting(target, reason string) {
	r.routingTotal.WithLabelValues(target, reason).Inc()
}

// RecordModelLatency records model invocation latency in seconds.
func (r *Recorder) RecordModelLatency(target string, seconds float64) {
	r.modelLatency.WithLabelValues(target).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
