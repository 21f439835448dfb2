package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification subsystem.
// All methods are safe on a nil receiver.
type Metrics struct {
	// Outbound call attempts by host and result class
	ExecutorAttempts *prometheus.CounterVec

	// Calls that used every attempt without success
	ExecutorExhausted *prometheus.CounterVec

	// Credential exchanges by provider and result
	CredentialRefreshes *prometheus.CounterVec

	// Verification outcomes by provider and status
	Verifications *prometheus.CounterVec

	VerifyLatency *prometheus.HistogramVec

	// Batch items processed by outcome status
	BatchItems *prometheus.CounterVec

	// Last probe status per provider (0 healthy, 1 degraded, 2 down)
	ProviderHealth *prometheus.GaugeVec

	// Best-effort side effects that failed (notify, billing, audit, event)
	SideEffectFailures *prometheus.CounterVec
}

// New registers all verification metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ExecutorAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_executor_attempts_total",
			Help: "Outbound request attempts by target host and result",
		}, []string{"host", "result"}), // result: "ok", "timeout", "network", "http"

		ExecutorExhausted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_executor_exhausted_total",
			Help: "Outbound requests that failed after all attempts",
		}, []string{"host"}),

		CredentialRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_credential_refreshes_total",
			Help: "Credential exchanges by provider and result",
		}, []string{"provider", "result"}),

		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_verifications_total",
			Help: "Verification outcomes by provider and status",
		}, []string{"provider", "status"}),

		VerifyLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "verigate_verification_duration_seconds",
			Help:    "Duration of a single verification including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"provider"}),

		BatchItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_batch_items_total",
			Help: "Batch verification items processed by outcome status",
		}, []string{"status"}),

		ProviderHealth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "verigate_provider_health",
			Help: "Most recent provider probe: 0 healthy, 1 degraded, 2 down",
		}, []string{"provider"}),

		SideEffectFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verigate_side_effect_failures_total",
			Help: "Best-effort side effects that failed by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncAttempt(host, result string) {
	if m != nil {
		m.ExecutorAttempts.WithLabelValues(host, result).Inc()
	}
}

func (m *Metrics) IncExhausted(host string) {
	if m != nil {
		m.ExecutorExhausted.WithLabelValues(host).Inc()
	}
}

func (m *Metrics) IncCredentialRefresh(provider, result string) {
	if m != nil {
		m.CredentialRefreshes.WithLabelValues(provider, result).Inc()
	}
}

// ObserveVerification records one verification outcome and its duration.
func (m *Metrics) ObserveVerification(provider, status string, d time.Duration) {
	if m != nil {
		m.Verifications.WithLabelValues(provider, status).Inc()
		m.VerifyLatency.WithLabelValues(provider).Observe(d.Seconds())
	}
}

func (m *Metrics) IncBatchItem(status string) {
	if m != nil {
		m.BatchItems.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) SetProviderHealth(provider string, level float64) {
	if m != nil {
		m.ProviderHealth.WithLabelValues(provider).Set(level)
	}
}

func (m *Metrics) IncSideEffectFailure(kind string) {
	if m != nil {
		m.SideEffectFailures.WithLabelValues(kind).Inc()
	}
}
