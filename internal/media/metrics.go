package media

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operations = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "poolsite",
		Subsystem: "media",
		Name:      "operations_total",
		Help:      "Media pipeline operations by kind and result.",
	}, []string{"operation", "result"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Namespace: "poolsite",
		Subsystem: "media",
		Name:      "operation_duration_seconds",
		Help:      "Time spent decoding, resizing and storing images.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), //nolint:mnd
	}, []string{"operation"})
)

func observe(operation string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	operations.WithLabelValues(operation, result).Inc()
	duration.WithLabelValues(operation).Observe(seconds)
}
