package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const divisor = 100

// Form labels for forms_submissions_total and business_errors_total.
const (
	FormNewsletter = "newsletter"
	FormContact    = "contact"
)

// Metrics defines all Prometheus metrics for the forms service.
type Metrics struct {
	Registry *prometheus.Registry

	// RED (Rate, Errors, Duration) for HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestDuration  *prometheus.HistogramVec

	// Business metrics
	SubmissionsTotal *prometheus.CounterVec // by form
	StoreWriteTime   *prometheus.HistogramVec

	ServiceStartTime prometheus.Gauge

	BusinessErrors  *prometheus.CounterVec
	TechnicalErrors *prometheus.CounterVec
}

// NewMetrics creates all metrics under the given namespace and registers them
// on a private registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	errorLabels := []string{"error_type", "severity"}
	m := &Metrics{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests total",
			},
			[]string{"method", "endpoint", "status_class"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "In-flight HTTP requests",
			},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "forms_submissions_total",
				Help:      "Form submissions stored",
			},
			[]string{"form"},
		),
		StoreWriteTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_write_duration_seconds",
				Help:      "Duration of document inserts",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"collection"},
		),

		ServiceStartTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "service_start_time_seconds",
				Help:      "Service start time in unix seconds",
			},
		),

		BusinessErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "business_errors_total",
				Help:      "Total business errors",
			},
			errorLabels,
		),
		TechnicalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "technical_errors_total",
				Help:      "Total technical errors",
			},
			errorLabels,
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestsInFlight,
		m.HTTPRequestDuration,
		m.SubmissionsTotal,
		m.StoreWriteTime,
		m.ServiceStartTime,
		m.BusinessErrors,
		m.TechnicalErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.ServiceStartTime.SetToCurrentTime()

	return m
}

// HTTPMiddleware instruments Gin HTTP handlers for RED metrics.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// Deferred so a panicking handler is counted as the 500 Recovery writes.
		defer func() {
			status := c.Writer.Status()
			if r := recover(); r != nil {
				status = http.StatusInternalServerError
				m.observe(c, start, status)
				panic(r)
			}
			m.observe(c, start, status)
		}()

		c.Next()
	}
}

func (m *Metrics) observe(c *gin.Context, start time.Time, status int) {
	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = "static"
	}
	statusClass := fmt.Sprintf("%dxx", status/divisor)

	m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, endpoint, statusClass).Inc()
	m.HTTPRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
}

// Handler exposes the private registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordWrite observes one insert of form into collection; err decides whether it counts as a submission.
func (m *Metrics) RecordWrite(form, collection string, start time.Time, err error) {
	m.StoreWriteTime.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	if err != nil {
		m.TechnicalErrors.WithLabelValues("db_insert_error", "critical").Inc()
		return
	}
	m.SubmissionsTotal.WithLabelValues(form).Inc()
}

// RecordInvalid counts a submission rejected by validation.
func (m *Metrics) RecordInvalid(form string) {
	m.BusinessErrors.WithLabelValues(form+"_missing_fields", "warning").Inc()
}
