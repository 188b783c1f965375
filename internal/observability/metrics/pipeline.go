package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/docmind/internal/core/domain"
)

// PipelineMetrics implements the pipeline observer port over a dedicated
// Prometheus registry.
type PipelineMetrics struct {
	registry *prometheus.Registry
	service  string

	documentsTotal  *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	engineFailures  *prometheus.CounterVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docmind",
			Subsystem: "pipeline",
			Name:      "documents_total",
			Help:      "Total processed documents by method and category.",
		},
		[]string{"service", "method", "category"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docmind",
			Subsystem: "pipeline",
			Name:      "process_duration_seconds",
			Help:      "Document processing duration in seconds by method.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service", "method"},
	)
	inFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docmind",
			Subsystem: "pipeline",
			Name:      "documents_in_flight",
			Help:      "Number of documents currently being processed.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	engineFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docmind",
			Subsystem: "ocr",
			Name:      "engine_failures_total",
			Help:      "Total OCR engine failures by engine.",
		},
		[]string{"service", "engine"},
	)

	registry.MustRegister(documentsTotal, processDuration, inFlight, engineFailures)

	return &PipelineMetrics{
		registry:        registry,
		service:         service,
		documentsTotal:  documentsTotal,
		processDuration: processDuration,
		inFlight:        inFlight,
		engineFailures:  engineFailures,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartDocument() {
	m.inFlight.Inc()
}

func (m *PipelineMetrics) FinishDocument() {
	m.inFlight.Dec()
}

func (m *PipelineMetrics) DocumentProcessed(method domain.ProcessingMethod, category domain.Category, duration time.Duration) {
	m.documentsTotal.WithLabelValues(m.service, string(method), string(category)).Inc()
	m.processDuration.WithLabelValues(m.service, string(method)).Observe(duration.Seconds())
}

func (m *PipelineMetrics) EngineFailed(engineID string) {
	m.engineFailures.WithLabelValues(m.service, engineID).Inc()
}
