package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelog_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifelog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"code", "method", "path"},
	)
)

// normalizePath keeps the path label cardinality bounded when no route
// template is available: numeric segments become :id and dates become :date.
// Example: /api/entries/42/favorite -> /api/entries/:id/favorite
func normalizePath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if _, err := strconv.ParseUint(part, 10, 64); err == nil {
			parts[i] = ":id"
			continue
		}
		if _, err := time.Parse("2006-01-02", part); err == nil {
			parts[i] = ":date"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func observe(status int, method, path string, start time.Time) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(code, method, path).Inc()
	httpRequestDuration.WithLabelValues(code, method, path).Observe(time.Since(start).Seconds())
}

// MetricsMiddlewareFiber records request count and latency per route.
func MetricsMiddlewareFiber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		statusCode := c.Response().StatusCode()
		if err != nil {
			var fiberError *fiber.Error
			if errors.As(err, &fiberError) {
				statusCode = fiberError.Code
			} else if statusCode == http.StatusOK {
				statusCode = http.StatusInternalServerError
			}
		}

		path := c.Route().Path
		if path == "" || path == "/" || strings.HasSuffix(path, "*") {
			path = normalizePath(c.Path())
		}
		observe(statusCode, c.Method(), path, start)
		return err
	}
}

// MetricsMiddlewareGin records request count and latency per route.
func MetricsMiddlewareGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = normalizePath(c.Request.URL.Path)
		}
		observe(c.Writer.Status(), c.Request.Method, path, start)
	}
}

// MetricsHandlerGin exposes the default prometheus registry.
func MetricsHandlerGin() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// MetricsHandlerFiber exposes the default prometheus registry.
func MetricsHandlerFiber() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
