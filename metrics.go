package loadprobe

import (
	"github.com/foomo/loadprobe/vo"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	prometheusLabelServer = "server"
	prometheusLabelStatus = "status"
)

type metrics struct {
	probes   *prometheus.CounterVec
	duration *prometheus.SummaryVec
	inFlight prometheus.Gauge
}

// newMetrics registers on reg only, a nil reg keeps the collectors private
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadprobe_probes_total",
				Help: "Number of completed probes by serving replica and status.",
			},
			[]string{prometheusLabelServer, prometheusLabelStatus},
		),
		duration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "loadprobe_probe_duration_seconds",
				Help: "Round trip of probes that received a response.",
			},
			[]string{prometheusLabelServer},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "loadprobe_in_flight",
				Help: "Probes currently waiting for a response.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.probes,
			m.duration,
			m.inFlight,
		)
	}
	return m
}

func (m *metrics) observe(r vo.ProbeResult) {
	m.probes.WithLabelValues(r.Server, r.Status.String()).Inc()
	if r.Elapsed != nil {
		m.duration.WithLabelValues(r.Server).Observe(r.Elapsed.Seconds())
	}
}
