// Package metrics exposes Prometheus instrumentation for the tracker.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenbuild_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenbuild_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	syncOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenbuild_store_operations_total",
			Help: "Total number of order store operations",
		},
		[]string{"operation", "result"},
	)

	syncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenbuild_store_operation_duration_seconds",
			Help:    "Duration of order store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Middleware records request counts and latencies per route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		httpRequestsTotal.WithLabelValues(labels...).Inc()
		httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// RecordStoreOperation counts one store call and its outcome.
func RecordStoreOperation(operation, result string, took time.Duration) {
	syncOperations.WithLabelValues(operation, result).Inc()
	syncDuration.WithLabelValues(operation).Observe(took.Seconds())
}
