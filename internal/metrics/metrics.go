package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)

	executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_executions_total",
			Help: "Total number of contact executions by result",
		},
		[]string{"result"},
	)

	contentFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activity_content_fallbacks_total",
			Help: "Executions that used locally synthesized fallback content",
		},
	)

	simulatedSendsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activity_simulated_sends_total",
			Help: "Executions whose delivery degraded to a simulated success",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(executionsTotal)
	prometheus.MustRegister(contentFallbacksTotal)
	prometheus.MustRegister(simulatedSendsTotal)
}

// Instrument records request counts and durations per handler.
func Instrument(handlerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		httpRequestDuration.WithLabelValues(handlerName, c.Request.Method).
			Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(handlerName, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Inc()
	}
}

// RecordExecution updates the domain counters for one completed execution.
func RecordExecution(success, contentGenerated, simulated bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	executionsTotal.WithLabelValues(result).Inc()

	if success && !contentGenerated {
		contentFallbacksTotal.Inc()
	}
	if success && simulated {
		simulatedSendsTotal.Inc()
	}
}
