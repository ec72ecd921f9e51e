// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesTotal tracks total chat messages appended, by role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total chat messages appended",
		},
		[]string{"role"},
	)

	// ChatsTotal tracks total chats created.
	ChatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chats_total",
			Help: "Total chats created",
		},
	)

	// GenerationDuration tracks text generation request duration.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Text generation request duration in seconds",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"provider", "status"},
	)

	// GenerationsTotal tracks text generation outcomes by classified kind.
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total text generation requests by outcome",
		},
		[]string{"provider", "kind"},
	)

	// RetriesTotal tracks automatic rate-limit retries.
	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_retries_total",
			Help: "Total automatic retries after rate limiting",
		},
	)

	// TitlesTotal tracks background title generation outcomes.
	TitlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_titles_generated_total",
			Help: "Total background title generations",
		},
		[]string{"status"},
	)

	// StreamsActive tracks currently streaming assistant messages.
	StreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streams_active",
			Help: "Number of assistant messages currently streaming",
		},
	)

	// StreamsStoppedTotal tracks streams cancelled by the user.
	StreamsStoppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streams_stopped_total",
			Help: "Total streams cancelled before completion",
		},
	)
)

// RecordGeneration records metrics for one text generation request.
func RecordGeneration(provider, kind string, seconds float64) {
	status := "success"
	if kind != "" {
		status = "error"
	} else {
		kind = "ok"
	}
	GenerationDuration.WithLabelValues(provider, status).Observe(seconds)
	GenerationsTotal.WithLabelValues(provider, kind).Inc()
}

// RecordTitle records the outcome of a background title generation.
func RecordTitle(ok bool) {
	if ok {
		TitlesTotal.WithLabelValues("success").Inc()
	} else {
		TitlesTotal.WithLabelValues("failure").Inc()
	}
}
