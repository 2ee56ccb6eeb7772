package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry      *prometheus.Registry
	uploads       *prometheus.CounterVec
	orphanedBlobs prometheus.Counter
	blobWrite     prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "upload_pipeline_total",
			Help:      "Upload pipeline runs by the stage they ended in and outcome.",
		}, []string{"stage", "outcome"}),
		orphanedBlobs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "orphaned_blobs_total",
			Help:      "Blobs written whose metadata row could not be saved.",
		}),
		blobWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gallery",
			Name:      "blob_write_seconds",
			Help:      "Time spent writing upload bytes to the blob store.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gallery",
			Name:      "http_requests_total",
			Help:      "HTTP requests by status code and method.",
		}, []string{"code", "method"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gallery",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(
		m.uploads,
		m.orphanedBlobs,
		m.blobWrite,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpload records the final stage and outcome of one pipeline run.
func (m *Metrics) ObserveUpload(stage, outcome string) {
	m.uploads.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) ObserveBlobWrite(d time.Duration) {
	m.blobWrite.Observe(d.Seconds())
}

func (m *Metrics) OrphanedBlob() {
	m.orphanedBlobs.Inc()
}

// Middleware counts and times every request that passes through it.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(m.httpDuration,
		promhttp.InstrumentHandlerCounter(m.httpRequests, next))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
