// Package metrics exposes chat server counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	connections      prometheus.Gauge
	signalsDelivered prometheus.Counter
	signalsDropped   prometheus.Counter
	mutations        *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_ws_connections",
			Help: "Number of open realtime connections.",
		}),
		signalsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_ws_signals_delivered_total",
			Help: "Signals enqueued to a connection.",
		}),
		signalsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_ws_signals_dropped_total",
			Help: "Signals skipped because the connection queue was full.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_message_mutations_total",
			Help: "Committed message mutations by action.",
		}, []string{"action"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.connections,
		m.signalsDelivered,
		m.signalsDropped,
		m.mutations,
		m.requestDuration,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.connections.Dec()
	}
}

func (m *Metrics) SignalDelivered() {
	if m != nil {
		m.signalsDelivered.Inc()
	}
}

func (m *Metrics) SignalDropped() {
	if m != nil {
		m.signalsDropped.Inc()
	}
}

func (m *Metrics) ObserveMutation(action string) {
	if m != nil {
		m.mutations.WithLabelValues(action).Inc()
	}
}

// Middleware records request latency labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
