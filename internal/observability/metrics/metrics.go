package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission outcomes recorded by the notification endpoint.
const (
	OutcomeOK            = "ok"
	OutcomeBadRequest    = "bad_request"
	OutcomeProviderError = "provider_error"
	OutcomeInternalError = "internal_error"
)

// LeadMetrics exposes counters/histograms for the lead notification flow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	providerTotal    *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkpage",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead submissions by outcome",
		}, []string{"outcome"}),
		providerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkpage",
			Subsystem: "leads",
			Name:      "provider_sends_total",
			Help:      "Total email provider calls by provider and status",
		}, []string{"provider", "status"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "linkpage",
			Subsystem: "leads",
			Name:      "provider_latency_seconds",
			Help:      "Latency of email provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.providerTotal, m.providerLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveProviderCall(provider string, err error, seconds float64) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.providerTotal.WithLabelValues(provider, status).Inc()
	m.providerLatency.WithLabelValues(provider).Observe(seconds)
}
