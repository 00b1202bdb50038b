package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// refresh pipeline and the ingest loop.
type Metrics struct {
	// Refresh pipeline metrics.
	Refreshes         prometheus.Counter
	RefreshNoData     prometheus.Counter
	RefreshDuration   prometheus.Histogram
	RowsRead          prometheus.Counter
	RowsMalformed     prometheus.Counter
	Hotspots          prometheus.Gauge
	CompassMismatches prometheus.Gauge

	// Ingest metrics.
	EventsConsumed prometheus.Counter
	RowsAppended   prometheus.Counter
	AppendErrors   prometheus.Counter
	IngestRunning  prometheus.Gauge
	BatchSize      prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emission_dash",
			Name:      "refreshes_total",
			Help:      "Total completed refresh passes, including no-data passes.",
		}),
		RefreshNoData: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emission_dash",
			Name:      "refresh_no_data_total",
			Help:      "Refresh passes that found no detection log.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "emission_dash",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete read-filter-aggregate pass.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emission_dash",
			Name:      "rows_read_total",
			Help:      "Total log rows scanned across refresh passes.",
		}),
		RowsMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emission_dash",
			Name:      "rows_malformed_total",
			Help:      "Total unparseable log rows across refresh passes.",
		}),
		Hotspots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "emission_dash",
			Name:      "hotspots",
			Help:      "Distinct hotspot locations in the last refresh window.",
		}),
		CompassMismatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "emission_dash",
			Name:      "compass_mismatches",
			Help:      "Records in the last window whose compass label disagrees with the numeric bearing.",
		}),
		EventsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emission_ingest",
			Name:      "events_consumed_total",
			Help:      "Total detection events read from the source topic.",
		}),
		RowsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emission_ingest",
			Name:      "rows_appended_total",
			Help:      "Total rows appended to the detection log.",
		}),
		AppendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emission_ingest",
			Name:      "append_errors_total",
			Help:      "Total events that could not be parsed or appended.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "emission_ingest",
			Name:      "running",
			Help:      "1 when the ingest loop is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "emission_ingest",
			Name:      "batch_size",
			Help:      "Number of events per batch consumed from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
	}

	prometheus.MustRegister(
		m.Refreshes,
		m.RefreshNoData,
		m.RefreshDuration,
		m.RowsRead,
		m.RowsMalformed,
		m.Hotspots,
		m.CompassMismatches,
		m.EventsConsumed,
		m.RowsAppended,
		m.AppendErrors,
		m.IngestRunning,
		m.BatchSize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Refreshes:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emission_dash", Name: "refreshes_total"}),
		RefreshNoData:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emission_dash", Name: "refresh_no_data_total"}),
		RefreshDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "emission_dash", Name: "refresh_duration_seconds"}),
		RowsRead:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emission_dash", Name: "rows_read_total"}),
		RowsMalformed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emission_dash", Name: "rows_malformed_total"}),
		Hotspots:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "emission_dash", Name: "hotspots"}),
		CompassMismatches: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "emission_dash", Name: "compass_mismatches"}),
		EventsConsumed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emission_ingest", Name: "events_consumed_total"}),
		RowsAppended:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emission_ingest", Name: "rows_appended_total"}),
		AppendErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "emission_ingest", Name: "append_errors_total"}),
		IngestRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "emission_ingest", Name: "running"}),
		BatchSize:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "emission_ingest", Name: "batch_size"}),
	}
}
