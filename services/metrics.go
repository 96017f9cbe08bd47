package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_predictions_total",
		Help: "Total number of engagement predictions, by category.",
	}, []string{"category"})
	incompleteForms = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engagement_incomplete_forms_total",
		Help: "Total number of submissions rejected as incomplete.",
	})
	toastsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_toasts_sent_total",
		Help: "Total number of toast notifications sent, by kind.",
	}, []string{"kind"})
	chartRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engagement_chart_render_duration_seconds",
		Help:    "Duration of chart SVG rendering.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"chart"})
	chartCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_chart_cache_hits_total",
		Help: "Total number of chart requests served from cache.",
	}, []string{"chart"})
)

// ObservePrediction records a completed prediction.
func ObservePrediction(category string) {
	predictionsTotal.WithLabelValues(category).Inc()
}

// ObserveIncompleteForm records a rejected submission.
func ObserveIncompleteForm() {
	incompleteForms.Inc()
}
