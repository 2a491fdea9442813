package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	controlCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scenectl",
			Subsystem: "control",
			Name:      "commands_total",
			Help:      "Total dispatched control commands.",
		},
		[]string{"intent", "outcome"},
	)
	controlBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "scenectl",
			Subsystem: "control",
			Name:      "bytes_received_total",
			Help:      "Total bytes drained from control connections.",
		},
	)
	controlConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "scenectl",
			Subsystem: "control",
			Name:      "connections",
			Help:      "Currently tracked control connections.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scenectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "scenectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			controlCommands,
			controlBytes,
			controlConnections,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordCommand(intent, outcome string) {
	RegisterMetrics()
	controlCommands.WithLabelValues(intent, outcome).Inc()
}

func RecordBytesReceived(n int) {
	RegisterMetrics()
	controlBytes.Add(float64(n))
}

func ConnectionOpened() {
	RegisterMetrics()
	controlConnections.Inc()
}

func ConnectionClosed() {
	RegisterMetrics()
	controlConnections.Dec()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
