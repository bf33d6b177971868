package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "Total number of HTTP requests served by the catalog",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// CatalogOperations counts catalog service calls by operation and outcome (ok, not_found, error).
	CatalogOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_operations_total",
		Help: "Total number of catalog operations by outcome",
	}, []string{"operation", "outcome"})
)
