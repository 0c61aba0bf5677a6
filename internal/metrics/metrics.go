package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Naya-01/PAE/internal/apierr"
)

var (
	lifecycleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donnamis_lifecycle_operations_total",
			Help: "Lifecycle engine operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donnamis_status_transitions_total",
			Help: "Committed or staged status transitions per entity",
		},
		[]string{"entity", "from", "to"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "donnamis_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Outcome returns the label recorded for an operation result
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return apierr.KindOf(err).String()
}

// ObserveOperation records the outcome of a lifecycle operation.
func ObserveOperation(operation string, err error) {
	lifecycleOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// ObserveTransition records a status change applied to an entity.
func ObserveTransition(entity, from, to string) {
	statusTransitions.WithLabelValues(entity, from, to).Inc()
}

// Middleware records request duration per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
