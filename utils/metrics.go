package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merchant_dashboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "merchant_dashboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	productOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merchant_dashboard_product_operations_total",
			Help: "Total number of product operations against the backend",
		},
		[]string{"operation", "status"},
	)

	categoryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "merchant_dashboard_category_operations_total",
			Help: "Total number of category operations against the backend",
		},
		[]string{"operation", "status"},
	)
)

// RecordProductOperation counts a product call to the backend
func RecordProductOperation(operation string, success bool) {
	productOperations.WithLabelValues(operation, statusLabel(success)).Inc()
}

// RecordCategoryOperation counts a category call to the backend
func RecordCategoryOperation(operation string, success bool) {
	categoryOperations.WithLabelValues(operation, statusLabel(success)).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
