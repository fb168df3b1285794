package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "circle",
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "circle",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of handled HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "circle",
		Name:      "events_total",
		Help:      "Domain events handed to the publisher.",
	}, []string{"type"})
)

// Middleware records every request. The status is resolved by the caller
// supplied function because errors are turned into responses after the
// middleware chain returns.
func Middleware(statusOf func(error) int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}

		route := c.Route().Path
		RequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

		return err
	}
}
