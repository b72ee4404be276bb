package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// inference service.
type Metrics struct {
	PredictionsTotal *prometheus.CounterVec // labels: family, outcome={model,fallback}
	FallbacksTotal   *prometheus.CounterVec // labels: reason={not_found,load_failed,invoke_failed}

	ModelLoadDuration prometheus.Histogram
	PredictDuration   *prometheus.HistogramVec // labels: family

	EventsPublished  prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PredictionsTotal,
		m.FallbacksTotal,
		m.ModelLoadDuration,
		m.PredictDuration,
		m.EventsPublished,
		m.PublisherEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_inference",
			Name:      "predictions_total",
			Help:      "Predictions served, by model family and outcome.",
		}, []string{"family", "outcome"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_inference",
			Name:      "fallbacks_total",
			Help:      "Fallback responses, by failure reason.",
		}, []string{"reason"}),
		ModelLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "station_inference",
			Name:      "model_load_duration_seconds",
			Help:      "Time spent reading and decoding a model artifact.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		PredictDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "station_inference",
			Name:      "predict_duration_seconds",
			Help:      "End-to-end predict duration, by model family.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"family"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_inference",
			Name:      "events_published_total",
			Help:      "Prediction events published to the event topic.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_inference",
			Name:      "publisher_enabled",
			Help:      "1 when prediction-event publishing is enabled, 0 otherwise.",
		}),
	}
}
