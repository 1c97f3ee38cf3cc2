package core

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evilsocket/alertboard/models"
)

// Metrics are kept in their own registry so that multiple aggregators (and
// tests) never clash on the default one.
type Metrics struct {
	Registry *prometheus.Registry

	Ticks         prometheus.Counter
	Lines         prometheus.Counter
	Malformed     prometheus.Counter
	BadTimestamps prometheus.Counter
	Records       prometheus.Gauge
	Critical      prometheus.Gauge
	TickDuration  prometheus.Histogram
	SinkErrors    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertboard_ticks_total",
			Help: "Total number of load and aggregate passes.",
		}),
		Lines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertboard_lines_total",
			Help: "Total number of non empty log lines read.",
		}),
		Malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertboard_malformed_lines_total",
			Help: "Total number of log lines skipped because they could not be decoded.",
		}),
		BadTimestamps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alertboard_bad_timestamps_total",
			Help: "Total number of alerts excluded because of an unparsable timestamp.",
		}),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alertboard_records",
			Help: "Number of alerts in the latest snapshot.",
		}),
		Critical: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alertboard_critical_records",
			Help: "Number of critical alerts in the latest snapshot.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alertboard_tick_duration_seconds",
			Help:    "Time spent loading the log and computing a snapshot.",
			Buckets: prometheus.DefBuckets,
		}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alertboard_sink_errors_total",
			Help: "Total number of errors while pushing snapshots to a sink.",
		}, []string{"sink"}),
	}

	m.Registry.MustRegister(
		m.Ticks,
		m.Lines,
		m.Malformed,
		m.BadTimestamps,
		m.Records,
		m.Critical,
		m.TickDuration,
		m.SinkErrors,
	)

	return m
}

func (m *Metrics) Observe(stats LoadStats, snap *models.Snapshot, seconds float64) {
	m.Ticks.Inc()
	m.Lines.Add(float64(stats.Lines))
	m.Malformed.Add(float64(stats.Malformed))
	m.BadTimestamps.Add(float64(stats.BadTimestamps))
	m.Records.Set(float64(snap.KPIs.Total))
	m.Critical.Set(float64(snap.KPIs.Critical))
	m.TickDuration.Observe(seconds)
}

func (m *Metrics) SinkError(sink string) {
	m.SinkErrors.WithLabelValues(sink).Inc()
}
