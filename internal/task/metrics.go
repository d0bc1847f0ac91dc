package task

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"taskd/internal/config"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskd",
			Subsystem: "task",
			Name:      "requests_total",
			Help:      "Requests processed by the task handler, by outcome",
		},
		[]string{"task", "outcome"},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskd",
			Subsystem: "task",
			Name:      "errors_total",
			Help:      "Error payloads returned, by failing stage",
		},
		[]string{"task", "stage"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taskd",
			Subsystem: "task",
			Name:      "duration_seconds",
			Help:      "Decode, invoke and encode time per request",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"task"},
	)

	warmupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskd",
			Subsystem: "task",
			Name:      "warmups_total",
			Help:      "Warmup probes answered without inference",
		},
		[]string{"task"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, errorsTotal, requestDuration, warmupsTotal)
}

func observeRequest(t config.Task, failed bool, d time.Duration) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	requestsTotal.WithLabelValues(string(t), outcome).Inc()
	requestDuration.WithLabelValues(string(t)).Observe(d.Seconds())
}

func observeError(t config.Task, st stage) {
	errorsTotal.WithLabelValues(string(t), string(st)).Inc()
}

func observeWarmup(t config.Task) {
	warmupsTotal.WithLabelValues(string(t)).Inc()
}
