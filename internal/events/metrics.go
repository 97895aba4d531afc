package events

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// eventMetrics covers both the Redis fan-out and in-process dispatch.
type eventMetrics struct {
	published     *prometheus.CounterVec
	delivered     *prometheus.CounterVec
	failures      *prometheus.CounterVec
	publishTime   prometheus.Histogram
	subscribers   prometheus.Gauge
	handlers      prometheus.Gauge
	dispatchTime  *prometheus.HistogramVec
	dispatchDrops prometheus.Counter
}

var (
	metricsMu       sync.Mutex
	metricsRegistry prometheus.Registerer = prometheus.DefaultRegisterer
	sharedMetrics   *eventMetrics
)

func registerEventMetrics(reg prometheus.Registerer) *eventMetrics {
	f := promauto.With(reg)
	return &eventMetrics{
		published: f.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_events_published_total",
			Help: "Events written to a realtime channel, by event type",
		}, []string{"event_type"}),
		delivered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_events_delivered_total",
			Help: "Events handed to a realtime subscriber, by event type",
		}, []string{"event_type"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_event_failures_total",
			Help: "Event pipeline failures, by stage and reason",
		}, []string{"stage", "reason"}),
		publishTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "campus_event_publish_seconds",
			Help:    "Latency of a realtime publish",
			Buckets: prometheus.ExponentialBuckets(0.001, 2.5, 9),
		}),
		subscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "campus_event_subscribers",
			Help: "Open realtime subscriptions",
		}),
		handlers: f.NewGauge(prometheus.GaugeOpts{
			Name: "campus_event_handlers",
			Help: "Distinct in-process event handlers",
		}),
		dispatchTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campus_event_dispatch_seconds",
			Help:    "Time an in-process handler spent on one event",
			Buckets: prometheus.ExponentialBuckets(0.001, 2.5, 9),
		}, []string{"event_type"}),
		dispatchDrops: f.NewCounter(prometheus.CounterOpts{
			Name: "campus_event_unhandled_total",
			Help: "Events with no in-process handler",
		}),
	}
}

// metricsFor returns the process-wide metrics, registering them on first use.
func metricsFor() *eventMetrics {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	if sharedMetrics == nil {
		sharedMetrics = registerEventMetrics(metricsRegistry)
	}
	return sharedMetrics
}

// resetMetricsForTesting points the package at a fresh registry.
func resetMetricsForTesting() {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	metricsRegistry = prometheus.NewRegistry()
	sharedMetrics = nil
}
