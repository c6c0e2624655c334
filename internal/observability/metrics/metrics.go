package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "tariff_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	computeTotal   *prometheus.CounterVec
	computeLatency prometheus.Histogram

	resolvedSamples prometheus.Histogram
	skippedMeters   prometheus.Counter
)

// Init registers engine metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		computeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "compute_total",
				Help: "Total bill computations by result",
			},
			[]string{"result"},
		)
		computeLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "compute_latency_seconds",
				Help:    "Bill computation latency",
				Buckets: prometheus.DefBuckets,
			},
		)
		resolvedSamples = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "resolved_samples",
				Help:    "Samples resolved per computation",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		)
		skippedMeters = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "skipped_meters_total",
				Help: "Linked meters skipped for missing identity",
			},
		)
		prometheus.MustRegister(computeTotal, computeLatency, resolvedSamples, skippedMeters)
	})
}

// ObserveCompute records one bill computation.
func ObserveCompute(result string, elapsed time.Duration) {
	if computeTotal == nil {
		return
	}
	computeTotal.WithLabelValues(result).Inc()
	computeLatency.Observe(elapsed.Seconds())
}

// ObserveResolvedSamples records how many samples one resolution produced.
func ObserveResolvedSamples(count int) {
	if resolvedSamples == nil {
		return
	}
	resolvedSamples.Observe(float64(count))
}

// IncSkippedMeter counts a meter skipped during resolution.
func IncSkippedMeter() {
	if skippedMeters == nil {
		return
	}
	skippedMeters.Inc()
}
