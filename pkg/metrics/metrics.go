// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsSettled counts successfully settled signed payments
	PaymentsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poxledger_payments_settled_total",
		Help: "Number of signed payments settled",
	})

	// BlocksSealed counts sealed blocks
	BlocksSealed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poxledger_blocks_sealed_total",
		Help: "Number of receipt blocks sealed",
	})

	// AnchorsCreated counts anchors committed
	AnchorsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "poxledger_anchors_created_total",
		Help: "Number of block-range anchors created",
	})

	// HTTPRequests counts requests by method, path and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poxledger_http_requests_total",
		Help: "HTTP requests processed",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency by path
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "poxledger_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
