// Package metrics exposes the outcomes of an analysis run as Prometheus
// metrics, written to a file for the node_exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/revelaction/qadiv/batch"
	"github.com/revelaction/qadiv/divergence"
)

const namespace = "qadiv"

// Outcome label values besides the divergence statuses
const OutcomeFailure = "failure"

// Metrics holds the collectors of a run in a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	items            *prometheus.CounterVec
	failures         *prometheus.CounterVec
	distance         prometheus.Histogram
	lexicalVariation prometheus.Histogram
	itemDuration     prometheus.Histogram
	unfound          prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_total",
			Help:      "Analyzed items by outcome",
		}, []string{"outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_failures_total",
			Help:      "Failed items by kind",
		}, []string{"kind"}),
		distance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "syntactic_divergence",
			Help:      "Minimal edit distance between question and answer paths",
			Buckets:   prometheus.LinearBuckets(0, 1, 9),
		}),
		lexicalVariation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lexical_variation",
			Help:      "Share of question lemmas absent from the answer sentence",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		itemDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "item_duration_seconds",
			Help:      "Time spent analyzing an item, parsing included",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}),
		unfound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unfound_answers",
			Help:      "Answers not found in the sentence at their offset",
		}),
	}

	m.Registry.MustRegister(m.items, m.failures, m.distance, m.lexicalVariation, m.itemDuration, m.unfound)
	return m
}

// Observe records one finished item.
func (m *Metrics) Observe(it batch.Item) {
	m.itemDuration.Observe(it.Duration.Seconds())

	if it.Err != nil {
		m.items.WithLabelValues(OutcomeFailure).Inc()
		m.failures.WithLabelValues(batch.Kind(it.Err)).Inc()
		return
	}

	m.items.WithLabelValues(it.Result.Status.String()).Inc()
	if it.Result.Status == divergence.OK {
		m.distance.Observe(float64(it.Result.Distance))
		m.lexicalVariation.Observe(it.Result.LexicalVariation)
	}
}

// SetUnfound records the unfound answers of the triple extraction.
func (m *Metrics) SetUnfound(n int) {
	m.unfound.Set(float64(n))
}

// WriteTextfile writes the metrics in the text exposition format. The file
// is written atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
