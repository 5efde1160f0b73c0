package monitoring

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kidpech/runtime_logviewer/internal/domain/logcapture"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	latencyHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	capturedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logviewer_captured_entries_total",
			Help: "Log entries admitted to the history",
		},
		[]string{"severity"},
	)
	evictedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "logviewer_evicted_entries_total",
			Help: "Log entries evicted to respect the history bound",
		},
	)
	exportCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logviewer_exports_total",
			Help: "History export attempts by result",
		},
		[]string{"result"},
	)

	registerOnce sync.Once
)

// Init registers custom collectors.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestCounter, latencyHistogram, capturedCounter, evictedCounter, exportCounter)
	})
}

// ObserveRequest records metrics.
func ObserveRequest(path, method, status string, seconds float64) {
	requestCounter.WithLabelValues(path, method, status).Inc()
	latencyHistogram.WithLabelValues(path, method).Observe(seconds)
}

// CaptureRecorder feeds store activity into the capture collectors.
type CaptureRecorder struct{}

// NewCaptureRecorder returns a recorder backed by the package collectors.
func NewCaptureRecorder() *CaptureRecorder {
	return &CaptureRecorder{}
}

// Captured implements logcapture.Recorder.
func (CaptureRecorder) Captured(severity logcapture.Severity) {
	capturedCounter.WithLabelValues(severity.String()).Inc()
}

// Evicted implements logcapture.Recorder.
func (CaptureRecorder) Evicted() {
	evictedCounter.Inc()
}

// Exported implements logcapture.Recorder.
func (CaptureRecorder) Exported(result string) {
	exportCounter.WithLabelValues(result).Inc()
}

var _ logcapture.Recorder = CaptureRecorder{}
