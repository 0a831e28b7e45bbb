package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brushvault_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brushvault_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brushvault_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Extraction metrics
var (
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brushvault_extractions_total",
			Help: "Total number of preview extraction attempts",
		},
		[]string{"status"},
	)

	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brushvault_extraction_duration_seconds",
			Help:    "Preview extraction duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	ExtractionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brushvault_extraction_errors_total",
			Help: "Preview extraction failures by error kind",
		},
		[]string{"kind"},
	)
)

// Scanner metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brushvault_scan_runs_total",
			Help: "Total number of library scan passes",
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "brushvault_scan_duration_seconds",
			Help:    "Library scan pass duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ScanFilesDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brushvault_scan_files_discovered_total",
			Help: "Candidate files discovered across all scan passes",
		},
	)

	ScanDuplicatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brushvault_scan_duplicates_skipped_total",
			Help: "Files skipped because an earlier root claimed the identity",
		},
	)

	ScanCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brushvault_scan_cache_hits_total",
			Help: "Files skipped because the scan index reported them fresh",
		},
	)

	ScanFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brushvault_scan_failures_total",
			Help: "Per-file failures recorded during scan passes",
		},
	)

	ScanIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brushvault_scan_running",
			Help: "1 while a scan pass is in progress",
		},
	)

	ScanLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brushvault_scan_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed scan pass",
		},
	)

	ScanWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brushvault_scan_workers",
			Help: "Number of parallel extraction workers in use",
		},
	)

	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brushvault_watcher_events_total",
			Help: "File system watcher events by type",
		},
		[]string{"type"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brushvault_watcher_errors_total",
			Help: "File system watcher errors",
		},
	)
)

// Scan index metrics
var (
	IndexQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brushvault_index_queries_total",
			Help: "Total number of scan index queries",
		},
		[]string{"operation", "status"},
	)

	IndexQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brushvault_index_query_duration_seconds",
			Help:    "Scan index query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	IndexEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "brushvault_index_entries",
			Help: "Number of identities currently recorded in the scan index",
		},
	)
)
