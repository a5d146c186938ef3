package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"dnsdelay/internal/metrics"
	"dnsdelay/internal/models"
)

var (
	sessionSuccessRate = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dnsdelay_session_success_rate",
			Help: "Success rate of the most recent probe session (percent)",
		},
		[]string{"server", "domain"},
	)

	sessionMeanLatency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dnsdelay_session_mean_latency_ms",
			Help: "Mean latency of the most recent probe session in milliseconds",
		},
		[]string{"server", "domain"},
	)

	attemptSuccesses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dnsdelay_attempt_successes_total",
			Help: "Total number of successful probe attempts",
		},
		[]string{"server", "domain"},
	)

	attemptFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dnsdelay_attempt_failures_total",
			Help: "Total number of failed probe attempts",
		},
		[]string{"server", "domain"},
	)

	registerOnce sync.Once
)

func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			sessionSuccessRate,
			sessionMeanLatency,
			attemptSuccesses,
			attemptFailures,
		)
	})
}

// ObserveReport exposes a completed session to the Prometheus registry.
func ObserveReport(report models.Report) {
	registerMetrics()

	summary := metrics.Compute(report)
	sessionSuccessRate.WithLabelValues(report.Server, report.Domain).Set(summary.SuccessRate)
	if summary.MeanMS != nil {
		sessionMeanLatency.WithLabelValues(report.Server, report.Domain).Set(*summary.MeanMS)
	}
	attemptSuccesses.WithLabelValues(report.Server, report.Domain).Add(float64(summary.Successes))
	attemptFailures.WithLabelValues(report.Server, report.Domain).Add(float64(summary.Failures))
}
