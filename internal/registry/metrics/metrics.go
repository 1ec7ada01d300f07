package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TransitionsValidated prometheus.Counter
	TransitionsAccepted  prometheus.Counter
	TransitionsRejected  *prometheus.CounterVec
	RecordsInitialized   prometheus.Counter
	AssetsRegistered     prometheus.Counter
}

// New registers the registry metrics on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransitionsValidated: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintguard_transitions_validated_total",
			Help: "Total number of transition requests evaluated",
		}),
		TransitionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintguard_transitions_accepted_total",
			Help: "Total number of transitions accepted",
		}),
		TransitionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mintguard_transitions_rejected_total",
			Help: "Total number of transitions rejected, by verdict code",
		}, []string{"code"}),
		RecordsInitialized: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintguard_records_initialized_total",
			Help: "Total number of registry records created",
		}),
		AssetsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintguard_assets_registered_total",
			Help: "Total number of asset definitions registered",
		}),
	}
}

func (m *Metrics) ObserveAccept() {
	m.TransitionsValidated.Inc()
	m.TransitionsAccepted.Inc()
}

func (m *Metrics) ObserveReject(code string) {
	m.TransitionsValidated.Inc()
	m.TransitionsRejected.WithLabelValues(code).Inc()
}
