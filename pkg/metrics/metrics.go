package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is the registry exposed on /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets for request and upstream latencies. Directory walks of large
	// tenants can take tens of seconds, so the tail goes to 55s.
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Identity provider client metrics
	IdentityRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "identity_client_operation_duration_seconds",
			Help:    "Identity provider operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	IdentityRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_client_operation_total",
			Help: "Total number of identity provider operations",
		},
		[]string{"operation", "status"},
	)

	// Directory aggregation
	DirectoryPagesFetched = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "directory_pages_fetched_total",
			Help: "Total number of user directory pages fetched",
		},
	)

	DirectoryUsers = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "directory_users",
			Help: "Number of users seen in the last complete directory walk",
		},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Storage Client Metrics (S3-compatible)
	StorageRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Business Metrics
	LeadSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexa_lead_submissions_total",
			Help: "Total number of project requests and questions handed off to WhatsApp",
		},
		[]string{"kind", "status"},
	)

	FlowActions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexa_flow_actions_total",
			Help: "Dashboard flow actions by type and outcome",
		},
		[]string{"action", "status"},
	)

	AuthAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexa_auth_attempts_total",
			Help: "Authentication attempts by method and outcome",
		},
		[]string{"method", "status"},
	)

	ActiveSessions = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "nexa_active_sessions",
			Help: "Sessions opened minus sessions closed since process start",
		},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// Init registers the process collectors with the service name as a constant label
func Init(serviceName string) {
	Registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: ""}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "service_info",
			Help:        "Static service information",
			ConstLabels: prometheus.Labels{"service_name": serviceName},
		}, func() float64 { return 1 }),
	)
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
