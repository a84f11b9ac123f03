package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.SignalDelivered()
	m.SignalDropped()
	m.ObserveMutation("add message")
}

func TestCounters(t *testing.T) {
	m := New()
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()
	m.SignalDropped()
	m.ObserveMutation("edit message")
	m.ObserveMutation("edit message")

	if got := testutil.ToFloat64(m.connections); got != 1 {
		t.Fatalf("connections: want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.signalsDropped); got != 1 {
		t.Fatalf("dropped: want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.mutations.WithLabelValues("edit message")); got != 2 {
		t.Fatalf("mutations: want 2 got %v", got)
	}
}

func TestHandlerExposesRouteLatency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	if !strings.Contains(body, `chat_http_request_duration_seconds_count{method="GET",route="/ping",status="200"} 1`) {
		t.Fatalf("latency sample missing from exposition:\n%s", body)
	}
}
