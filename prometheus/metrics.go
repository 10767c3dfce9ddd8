package prometheus

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	// StatusCodeCategoryCounter counts responses by status category
	StatusCodeCategoryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"service", "category", "method", "path"},
	)
)

// Domain counters
var (
	GenerationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studio_generation_total",
			Help: "Total number of AI generation requests by modality and outcome",
		},
		[]string{"modality", "outcome"},
	)

	GenerationDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studio_generation_duration_seconds",
			Help:    "Duration of AI generation calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"modality"},
	)

	AnalysisCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_request_total",
			Help: "Total number of campaign analysis and store audit requests",
		},
		[]string{"kind", "outcome"},
	)

	AdminOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_operation_total",
			Help: "Total number of founder dashboard operations",
		},
		[]string{"operation"},
	)

	ExportCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csv_export_total",
			Help: "Total number of CSV exports",
		},
		[]string{"report"},
	)

	PersistenceFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_failure_total",
			Help: "Total number of failed persistence writes",
		},
		[]string{"operation"},
	)

	LoginCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Total number of login attempts",
		},
		[]string{"role", "outcome"},
	)
)

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDurationHistogram,
			StatusCodeCategoryCounter,
			GenerationCounter,
			GenerationDurationHistogram,
			AnalysisCounter,
			AdminOperationCounter,
			ExportCounter,
			PersistenceFailureCounter,
			LoginCounter,
		)
	})
}

func init() {
	register()
}

// ObserveGeneration records the outcome and duration of one generation call
func ObserveGeneration(modality string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	GenerationCounter.WithLabelValues(modality, outcome).Inc()
	GenerationDurationHistogram.WithLabelValues(modality).Observe(time.Since(start).Seconds())
}

// HTTPMetrics records per-request metrics for a service
type HTTPMetrics struct {
	ServiceName string
}

// NewHTTPMetrics creates a new HTTP metrics collector for a specific service
func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	return &HTTPMetrics{ServiceName: serviceName}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			RequestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
			if category := statusCategory(status); category != "" {
				StatusCodeCategoryCounter.WithLabelValues(m.ServiceName, category, method, path).Inc()
			}
			RequestDurationHistogram.WithLabelValues(m.ServiceName, method, path, statusStr).
				Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
