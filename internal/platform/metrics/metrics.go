package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts API requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salleya_http_requests_total",
		Help: "Number of HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes API latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "salleya_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// TransitionsTotal counts reservation lifecycle transitions by target status.
	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salleya_reservation_transitions_total",
		Help: "Number of reservation status transitions committed to the store.",
	}, []string{"status"})

	// NotificationFailuresTotal counts best-effort notification sends that failed.
	NotificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salleya_notification_failures_total",
		Help: "Number of failed confirmation/cancellation notification sends.",
	}, []string{"channel"})

	// FloorRefreshesTotal counts authoritative reservation refreshes by trigger.
	FloorRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salleya_floor_refreshes_total",
		Help: "Number of authoritative floor cache refreshes.",
	}, []string{"trigger"})

	// BroadcastsTotal counts messages fanned out to staff websocket clients.
	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salleya_ws_broadcasts_total",
		Help: "Number of messages broadcast to websocket subscribers.",
	}, []string{"topic"})
)

// Middleware records request counts and latency for every echo route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}
			HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			HTTPRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
