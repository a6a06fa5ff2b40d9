package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "speakscore"

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// ScoringOutcomes counts finished scoring attempts by module and outcome
	// (ok, or the error code that stopped the pipeline).
	ScoringOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_outcomes_total",
			Help:      "Scoring pipeline completions by module and outcome",
		},
		[]string{"module", "outcome"},
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Latency of external speech and language provider calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"provider", "outcome"},
	)

	LedgerWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_write_failures_total",
			Help:      "Performance ledger appends that failed after a successful score",
		},
	)
)

var initOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		for _, c := range []prometheus.Collector{
			RequestCounter, RequestDuration, ScoringOutcomes, ProviderLatency, LedgerWriteFailures,
		} {
			if err := prometheus.Register(c); err != nil {
				var already prometheus.AlreadyRegisteredError
				if !errors.As(err, &already) {
					panic(err)
				}
			}
		}
	})
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveProvider records the latency of one provider call started at start.
func ObserveProvider(provider string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderLatency.WithLabelValues(provider, outcome).Observe(time.Since(start).Seconds())
}
