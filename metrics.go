package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sequencer_requests_total",
		Help: "Total number of API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sequencer_request_duration_seconds",
		Help:    "Duration of API requests",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"endpoint"})

	segmentsPerRequest = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sequencer_request_segments",
		Help:    "Number of input segments per request",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})
)
