package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

var defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

// Collectors are created eagerly so recording works before Init, they are only
// exposed once registered.
var (
	once          sync.Once
	metricsRouter *chi.Mux

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)
	claimOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_operations_total",
			Help: "Total number of claim submissions and disputes by outcome.",
		},
		[]string{"operation", "status"},
	)
	settlementCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_settlements_total",
			Help: "Total number of resolved claims by resolution source and outcome.",
		},
		[]string{"source", "outcome"},
	)
	queueOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_operations_total",
			Help: "Total number of processed queue messages by queue and status.",
		},
		[]string{"queue_name", "status"},
	)
	arbitrationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arbitration_request_duration_seconds",
			Help:    "Histogram of assertion request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"status"},
	)
)

// Init registers the collectors and serves them on metricsAddr under path
func Init(metricsAddr, path string) {
	once.Do(func() {
		initMetricsRouter(metricsAddr, path)
		registerMetrics()
	})
}

func initMetricsRouter(metricsAddr, path string) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Handle(path, promhttp.Handler())

	go func() {
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics registers the Prometheus metrics.
func registerMetrics() {
	prometheus.MustRegister(
		httpRequestDurationHistogram,
		claimOperationCounter,
		settlementCounter,
		queueOperationCounter,
		arbitrationRequestDuration,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

func RecordClaimSubmission(outcome Outcome) {
	claimOperationCounter.WithLabelValues("submit", outcome.String()).Inc()
}

func RecordDispute(outcome Outcome) {
	claimOperationCounter.WithLabelValues("dispute", outcome.String()).Inc()
}

func RecordSettlement(source, outcome string) {
	settlementCounter.WithLabelValues(source, outcome).Inc()
}

func RecordQueueMessage(queueName string, outcome Outcome) {
	queueOperationCounter.WithLabelValues(queueName, outcome.String()).Inc()
}

// StartArbitrationRequestTimer measures one call to the arbitration adapter
func StartArbitrationRequestTimer() func(outcome Outcome) {
	startTime := time.Now()
	return func(outcome Outcome) {
		arbitrationRequestDuration.WithLabelValues(outcome.String()).Observe(time.Since(startTime).Seconds())
	}
}
