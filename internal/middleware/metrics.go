package middleware

import (
	"time"

	"github.com/venky2821/finalproject/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records request count, errors and latency per route template.
func Metrics(m *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		attrs := metric.WithAttributes(m.WithServiceName([]attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		})...)

		ctx := c.Request.Context()
		m.HTTPRequestsTotal.Add(ctx, 1, attrs)
		if status >= 400 {
			m.HTTPRequestsErrors.Add(ctx, 1, attrs)
		}
		m.HTTPRequestDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
}
