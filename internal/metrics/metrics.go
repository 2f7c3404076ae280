package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	Registrations prometheus.Counter
	LoginAttempts *prometheus.CounterVec
	PostalLookups *prometheus.CounterVec
	Exports       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg uses
// the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Registrations: f.NewCounter(prometheus.CounterOpts{
			Name: "meibo_registrations_total",
			Help: "Total number of registrations appended to the list",
		}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "meibo_login_attempts_total",
			Help: "Login attempts by kind (admin, user) and result",
		}, []string{"kind", "result"}),
		PostalLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "meibo_postal_lookups_total",
			Help: "Postal code lookups by result",
		}, []string{"result"}),
		Exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "meibo_exports_total",
			Help: "Record exports by format",
		}, []string{"format"}),
	}
}

func (m *Metrics) IncrementRegistrations() {
	m.Registrations.Inc()
}

func (m *Metrics) ObserveLogin(kind, result string) {
	m.LoginAttempts.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObservePostalLookup(result string) {
	m.PostalLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveExport(format string) {
	m.Exports.WithLabelValues(format).Inc()
}
