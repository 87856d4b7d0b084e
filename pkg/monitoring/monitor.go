package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// HTTP 状态码恒为 200，业务结果按 code 统计
	OperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_metrics_operations_total",
			Help: "Session metrics operations by outcome code",
		},
		[]string{"operation", "code"},
	)

	ConnectionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "session_metrics_connection_seconds",
			Help:    "Time a per-request database connection stays open",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(OperationCounter)
		prometheus.MustRegister(ConnectionDuration)
	})
}

func ObserveOperation(operation string, code int) {
	OperationCounter.WithLabelValues(operation, strconv.Itoa(code)).Inc()
}

func ObserveConnection(operation string, opened time.Time) {
	ConnectionDuration.WithLabelValues(operation).Observe(time.Since(opened).Seconds())
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
