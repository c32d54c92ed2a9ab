// Package metrics exposes Prometheus instrumentation for the classifier.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal counts predictions served, labeled by outcome
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailsift_predictions_total",
		Help: "Total number of prediction requests served.",
	}, []string{"status"})

	// PredictionDuration tracks the latency of single-email predictions
	PredictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mailsift_prediction_duration_seconds",
		Help:    "Time spent classifying a single email.",
		Buckets: prometheus.DefBuckets,
	})

	// BatchSize tracks the size of batch prediction requests
	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mailsift_batch_size",
		Help:    "Number of emails per batch prediction request.",
		Buckets: []float64{1, 5, 10, 25, 50, 100},
	})

	// CacheHits counts prediction cache hits
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mailsift_cache_hits_total",
		Help: "Total number of prediction cache hits.",
	})

	// ModelReloads counts model bundle reloads, labeled by outcome
	ModelReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailsift_model_reloads_total",
		Help: "Total number of model bundle reload attempts.",
	}, []string{"status"})
)
