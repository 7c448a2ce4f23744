package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry          *prometheus.Registry
	ActiveSessions    prometheus.Gauge
	TicksTotal        prometheus.Counter
	SessionsTotal     *prometheus.CounterVec
	StreamErrorsTotal *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heartrate_monitor",
			Name:      "active_sessions",
			Help:      "Number of streams currently open",
		}),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heartrate_monitor",
			Name:      "ticks_total",
			Help:      "Total tick messages delivered",
		}),
		SessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heartrate_monitor",
			Name:      "sessions_total",
			Help:      "Finished sessions by outcome",
		}, []string{"outcome"}),
		StreamErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heartrate_monitor",
			Name:      "stream_errors_total",
			Help:      "Stream errors by stage",
		}, []string{"stage"}),
	}
	r.MustRegister(m.ActiveSessions, m.TicksTotal, m.SessionsTotal, m.StreamErrorsTotal)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
