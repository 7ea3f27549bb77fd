package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taistt",
			Name:      "transcription_requests_total",
			Help:      "Transcription requests by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taistt",
			Name:      "transcription_duration_seconds",
			Help:      "End-to-end transcription latency.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"source"},
	)
)

func recordRequest(source string, err error, seconds float64) {
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
	}
	requestsTotal.WithLabelValues(source, outcome).Inc()
	if err == nil {
		requestDuration.WithLabelValues(source).Observe(seconds)
	}
}
