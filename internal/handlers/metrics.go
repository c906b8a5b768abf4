package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the AuraWall backend.
var Metrics = struct {
	MessagesSubmitted *prometheus.CounterVec
	LikesToggled      prometheus.Counter
	WSConnections     prometheus.Gauge
	RequestDuration   *prometheus.HistogramVec
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics() {
	Metrics.MessagesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aurawall_messages_submitted_total",
			Help: "Total reflections submitted, by classifier mode.",
		},
		[]string{"mode"},
	)

	Metrics.LikesToggled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aurawall_likes_toggled_total",
			Help: "Total like toggles performed.",
		},
	)

	Metrics.WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aurawall_ws_connections",
			Help: "Live WebSocket subscriptions across all streams.",
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aurawall_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	prometheus.MustRegister(
		Metrics.MessagesSubmitted,
		Metrics.LikesToggled,
		Metrics.WSConnections,
		Metrics.RequestDuration,
	)
}

// MessagesSubmitted records one submission. Nil-safe so handler tests can
// run without registering collectors.
func MessagesSubmitted(degraded bool) {
	if Metrics.MessagesSubmitted == nil {
		return
	}
	mode := "classified"
	if degraded {
		mode = "fallback"
	}
	Metrics.MessagesSubmitted.WithLabelValues(mode).Inc()
}

func LikesToggled() {
	if Metrics.LikesToggled == nil {
		return
	}
	Metrics.LikesToggled.Inc()
}

func WSConnectionOpened() {
	if Metrics.WSConnections == nil {
		return
	}
	Metrics.WSConnections.Inc()
}

func WSConnectionClosed() {
	if Metrics.WSConnections == nil {
		return
	}
	Metrics.WSConnections.Dec()
}

// MetricsMiddleware records request duration per route.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		if Metrics.RequestDuration != nil {
			// Route() is resolved after Next, so the label is the
			// pattern (":id"), not the raw path. Keeps label cardinality bounded.
			route := c.Route().Path
			status := strconv.Itoa(c.Response().StatusCode())
			Metrics.RequestDuration.WithLabelValues(route, c.Method(), status).Observe(time.Since(start).Seconds())
		}

		return err
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		httpHandler(c.Context())
		return nil
	}
}
