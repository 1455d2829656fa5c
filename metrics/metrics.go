package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels calls that returned a decoded response.
	OutcomeSuccess = "success"
	// OutcomeServerError labels calls answered with an error payload.
	OutcomeServerError = "server_error"
	// OutcomeNetworkError labels calls that never got a response.
	OutcomeNetworkError = "network_error"
	// OutcomeUnknownError labels everything else.
	OutcomeUnknownError = "unknown_error"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "postanalyzer",
			Name:      "requests_total",
			Help:      "Total number of analysis service calls, partitioned by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	requestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "postanalyzer",
			Name:      "request_seconds",
			Help:      "Analysis service call latency in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"operation"},
	)
)

// Register attaches postanalyzer collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		requestsTotal,
		requestDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveRequest records the duration and outcome of one analysis service call.
func ObserveRequest(operation string, duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeSuccess, OutcomeServerError, OutcomeNetworkError:
	default:
		outcome = OutcomeUnknownError
	}
	requestsTotal.WithLabelValues(operation, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	requestDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}
