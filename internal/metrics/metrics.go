// Package metrics exposes Prometheus collectors for the FitFindr service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapesTotal               *prometheus.CounterVec
	scrapeItemsTotal           *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	activityEventsTotal        *prometheus.CounterVec
	feedbackTotal              *prometheus.CounterVec
	recommendationsTotal       prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitfindr_scrapes_total",
				Help: "Total number of scrape pipeline runs, labeled by result source (live or fallback).",
			},
			[]string{"source"},
		)

		scrapeItemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitfindr_scrape_items_total",
				Help: "Total number of items produced by the scrape pipeline, labeled by source.",
			},
			[]string{"source"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		activityEventsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitfindr_activity_events_total",
				Help: "Total number of activity events emitted, labeled by type.",
			},
			[]string{"type"},
		)

		feedbackTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitfindr_feedback_total",
				Help: "Total number of feedback records, labeled by feedback type.",
			},
			[]string{"type"},
		)

		recommendationsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fitfindr_recommendations_total",
				Help: "Total number of recommendations generated.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScrape increments the scrape counters for one pipeline run.
func ObserveScrape(source string, items int) {
	Init()
	scrapesTotal.WithLabelValues(source).Inc()
	if items > 0 {
		scrapeItemsTotal.WithLabelValues(source).Add(float64(items))
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveActivityEvent increments the activity event counter for one type.
func ObserveActivityEvent(eventType string) {
	Init()
	activityEventsTotal.WithLabelValues(eventType).Inc()
}

// ObserveFeedback increments the feedback counter for one feedback type.
func ObserveFeedback(feedbackType string) {
	Init()
	feedbackTotal.WithLabelValues(feedbackType).Inc()
}

// AddRecommendations increments the generated recommendation counter.
func AddRecommendations(n int) {
	Init()
	recommendationsTotal.Add(float64(n))
}
