package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Inference call outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeTransport   = "transport_error"
	OutcomeStatus      = "status_error"
	OutcomeBadResponse = "bad_response"
)

var (
	inferenceRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mneme_inference_requests_total",
			Help: "Total calls to the hosted inference service by task and outcome",
		},
		[]string{"task", "outcome"},
	)

	inferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mneme_inference_request_duration_seconds",
			Help:    "Latency of calls to the hosted inference service",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"task"},
	)

	noteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mneme_note_requests_total",
			Help: "Total note API requests by action and HTTP status",
		},
		[]string{"action", "status"},
	)

	inferenceUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mneme_inference_up",
			Help: "Whether the last background probe reached the inference service",
		},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry.
// Must be called once at startup; later calls are no-ops.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(inferenceRequests, inferenceDuration, noteRequests, inferenceUp)
	})
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveInference records one call to the inference service.
func ObserveInference(task, outcome string, elapsed time.Duration) {
	inferenceRequests.WithLabelValues(task, outcome).Inc()
	inferenceDuration.WithLabelValues(task).Observe(elapsed.Seconds())
}

// RecordNoteRequest counts a finished note API request.
func RecordNoteRequest(action string, status int) {
	noteRequests.WithLabelValues(action, strconv.Itoa(status)).Inc()
}

// SetInferenceUp publishes the result of the latest reachability probe.
func SetInferenceUp(up bool) {
	if up {
		inferenceUp.Set(1)
		return
	}
	inferenceUp.Set(0)
}
