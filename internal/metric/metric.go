package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ppcp",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Incoming webhook events by type and outcome",
	}, []string{"event_type", "status"}) // handled / duplicate / ignored / error / locked

	LockSkipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ppcp",
		Subsystem: "lock",
		Name:      "skipped_total",
		Help:      "Operations skipped because their lock was held",
	}, []string{"action"})

	ThreeDSDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ppcp",
		Subsystem: "threeds",
		Name:      "decisions_total",
		Help:      "3-D Secure decisions",
	}, []string{"decision"})

	ProcessorRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ppcp",
		Subsystem: "processor",
		Name:      "requests_total",
		Help:      "Processor API calls",
	}, []string{"operation", "status"})

	ProcessorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ppcp",
		Subsystem: "processor",
		Name:      "request_duration_seconds",
		Help:      "Processor API call latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	TransientEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ppcp",
		Subsystem: "transient",
		Name:      "memory_items_count",
		Help:      "Entries held by the in-memory transient store",
	})

	RequestMetrics = promauto.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  "ppcp",
		Subsystem:  "http",
		Name:       "request",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"status"})
)

// ObserveProcessorCall records one processor API call.
func ObserveProcessorCall(operation string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ProcessorRequestsTotal.WithLabelValues(operation, status).Inc()
	ProcessorDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func ObserveRequest(t time.Duration, status int) {
	RequestMetrics.WithLabelValues(strconv.Itoa(status)).Observe(t.Seconds())
}
