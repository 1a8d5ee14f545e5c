package devapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inflight        prometheus.Gauge
	loginsTotal     *prometheus.CounterVec
	ratingsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on reg
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storerate_http_requests_total",
			Help: "HTTP requests processed, by method, route and status",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storerate_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storerate_http_inflight_requests",
			Help: "HTTP requests in flight",
		}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storerate_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}), // result: success|failure
		ratingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storerate_ratings_total",
			Help: "Ratings written by action",
		}, []string{"action"}), // action: submit|update|delete
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.inflight, m.loginsTotal, m.ratingsTotal)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency, labelled by route pattern so ids
// do not explode cardinality
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.inflight.Inc()
		defer m.inflight.Dec()
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) login(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) rating(action string) {
	m.ratingsTotal.WithLabelValues(action).Inc()
}
