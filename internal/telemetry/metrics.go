package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pipeliner"

var (
	// HTTPRequestsTotal — количество HTTP запросов по маршруту и статусу.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests handled by pipeliner-api",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration — длительность HTTP запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// PipelinesParsed — количество проанализированных pipeline.
	PipelinesParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipelines_parsed_total",
		Help:      "Pipelines analysed by parse, partitioned by acyclicity",
	}, []string{"is_dag"})

	// ExecutionsTotal — количество выполнений pipeline по итоговому статусу.
	ExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "executions_total",
		Help:      "Pipeline executions by terminal status",
	}, []string{"status"})

	// ProviderCallsTotal — вызовы провайдеров по уровню и исходу.
	ProviderCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_calls_total",
		Help:      "Text generation provider calls by tier and outcome",
	}, []string{"tier", "outcome"})

	// ProviderCallDuration — длительность вызовов провайдеров.
	ProviderCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_call_duration_seconds",
		Help:      "Text generation provider call duration in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"tier"})
)

// Исходы вызова провайдера.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
