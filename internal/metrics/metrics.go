// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dashboard collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	polls           *prometheus.CounterVec
	docFailures     *prometheus.CounterVec
	apiAvailable    prometheus.Gauge
	fallbacks       prometheus.Counter
	alertsOpened    *prometheus.CounterVec
	countdownExpiry prometheus.Counter
	acks            *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_polls_total",
			Help: "Poll cycles by result (ok, partial).",
		}, []string{"result"}),
		docFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_document_failures_total",
			Help: "Document reads that fell back to defaults.",
		}, []string{"document"}),
		apiAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_api_available",
			Help: "1 while the HTTP API channel is in use, 0 in file mode.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_channel_fallbacks_total",
			Help: "Transitions from the API channel to file mode.",
		}),
		alertsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_alerts_opened_total",
			Help: "Alerts shown, by kind.",
		}, []string{"alert"}),
		countdownExpiry: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_countdown_expired_total",
			Help: "Response countdowns that ran out unacknowledged.",
		}),
		acks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_acks_total",
			Help: "Acknowledgement attempts by alert and result.",
		}, []string{"alert", "result"}),
	}

	m.apiAvailable.Set(1)

	reg.MustRegister(
		m.polls,
		m.docFailures,
		m.apiAvailable,
		m.fallbacks,
		m.alertsOpened,
		m.countdownExpiry,
		m.acks,
	)
	return m
}

// ObservePoll records one poll cycle and its failed documents.
func (m *Metrics) ObservePoll(failures map[string]error) {
	if m == nil {
		return
	}
	if len(failures) == 0 {
		m.polls.WithLabelValues("ok").Inc()
		return
	}
	m.polls.WithLabelValues("partial").Inc()
	for doc := range failures {
		m.docFailures.WithLabelValues(doc).Inc()
	}
}

// SetAPIAvailable mirrors the source channel.
func (m *Metrics) SetAPIAvailable(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.apiAvailable.Set(1)
		return
	}
	m.apiAvailable.Set(0)
}

// Fallback records an API to file transition.
func (m *Metrics) Fallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
	m.apiAvailable.Set(0)
}

// AlertOpened records a shown alert.
func (m *Metrics) AlertOpened(alert string) {
	if m == nil {
		return
	}
	m.alertsOpened.WithLabelValues(alert).Inc()
}

// CountdownExpired records an expired response countdown.
func (m *Metrics) CountdownExpired() {
	if m == nil {
		return
	}
	m.countdownExpiry.Inc()
}

// Ack records an acknowledgement attempt. result is ok, none or error.
func (m *Metrics) Ack(alert, result string) {
	if m == nil {
		return
	}
	m.acks.WithLabelValues(alert, result).Inc()
}
