package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for taskplan. They are recorded by
// the HTTP server and the decomposer; the short-lived CLI process has no
// metrics surface.
type Metrics struct {
	// Provider operation metrics
	ProviderCalls   *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec
	ProviderTokens  *prometheus.CounterVec

	// Plan pipeline metrics
	PlanBuilds        *prometheus.CounterVec
	PlanBuildDuration *prometheus.HistogramVec
	PlanTaskCount     *prometheus.HistogramVec
	PlanTotalDuration *prometheus.HistogramVec
	ValidationErrors  *prometheus.CounterVec

	// Store metrics
	StoreOperations *prometheus.CounterVec
	StorePlans      prometheus.Gauge

	// HTTP API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		// Provider metrics
		ProviderCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_provider_calls_total",
				Help: "Total number of LLM provider API calls",
			},
			[]string{"provider", "model", "success"},
		),
		ProviderLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskplan_provider_latency_seconds",
				Help:    "LLM provider API call latency in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider", "model"},
		),
		ProviderErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_provider_errors_total",
				Help: "Total number of LLM provider errors",
			},
			[]string{"provider", "model", "error_type"},
		),
		ProviderTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_provider_tokens_total",
				Help: "Total tokens consumed by LLM provider calls",
			},
			[]string{"provider", "model", "direction"},
		),

		// Plan pipeline metrics
		PlanBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_plan_builds_total",
				Help: "Total number of plan pipeline runs",
			},
			[]string{"success"},
		),
		PlanBuildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskplan_plan_build_duration_seconds",
				Help:    "Plan pipeline duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{},
		),
		PlanTaskCount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskplan_plan_task_count",
				Help:    "Number of tasks per generated plan",
				Buckets: []float64{1, 5, 10, 15, 20, 30, 50},
			},
			[]string{},
		),
		PlanTotalDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskplan_plan_total_duration",
				Help:    "Critical path duration of generated plans",
				Buckets: []float64{1, 5, 10, 20, 40, 80, 160},
			},
			[]string{},
		),
		ValidationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_validation_errors_total",
				Help: "Total number of plan validation failures",
			},
			[]string{"error_code"},
		),

		// Store metrics
		StoreOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_store_operations_total",
				Help: "Total number of plan store operations",
			},
			[]string{"operation", "success"},
		),
		StorePlans: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskplan_store_plans",
				Help: "Number of plans currently in the store",
			},
		),

		// HTTP API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskplan_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Error metrics (by structured error code)
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskplan_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}
