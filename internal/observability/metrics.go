package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bee_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	DatasetRecords prometheus.Gauge
	QueriesTotal   prometheus.Counter
	QueryDuration  prometheus.Histogram
	EmptyResults   prometheus.Counter

	// View event publishing.
	ViewsPublished prometheus.Counter
	PublishErrors  prometheus.Counter

	ChartsRendered *prometheus.CounterVec // labels: kind={bar,line,pie}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Rows in the loaded bee colony table, 0 until loaded.",
		}),
		QueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total view computations.",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of a single view computation.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		EmptyResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_results_total",
			Help:      "View computations whose selection matched no rows for the year.",
		}),
		ViewsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_published_total",
			Help:      "Total view events written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Total view events that failed to publish.",
		}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "PNG charts rendered by kind.",
		}, []string{"kind"}),
	}

	prometheus.MustRegister(
		m.DatasetRecords,
		m.QueriesTotal,
		m.QueryDuration,
		m.EmptyResults,
		m.ViewsPublished,
		m.PublishErrors,
		m.ChartsRendered,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "dataset_records"}),
		QueriesTotal:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "queries_total"}),
		QueryDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "query_duration_seconds"}),
		EmptyResults:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "empty_results_total"}),
		ViewsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "views_published_total"}),
		PublishErrors:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "publish_errors_total"}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "charts_rendered_total"}, []string{"kind"}),
	}
}
