// Package metrics exposes repair search counters as Prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "adder_repair"

// SearchMetrics records evaluator and search activity. It satisfies
// algorithm.Observer.
type SearchMetrics struct {
	registry *prometheus.Registry

	evaluations *prometheus.CounterVec
	candidates  prometheus.Counter
	backtracks  prometheus.Counter
	duration    prometheus.Histogram
}

// NewSearchMetrics creates the collectors on a private registry
func NewSearchMetrics() (*SearchMetrics, error) {
	m := &SearchMetrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Network evaluations by outcome.",
			},
			[]string{"outcome"},
		),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidate_swaps_total",
			Help:      "Candidate wire swaps tried.",
		}),
		backtracks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backtracks_total",
			Help:      "Candidate wire swaps undone.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of complete repair searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.evaluations, m.candidates, m.backtracks, m.duration} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return m, nil
}

// ObserveEvaluation counts one evaluation
func (m *SearchMetrics) ObserveEvaluation(ok bool) {
	outcome := "complete"
	if !ok {
		outcome = "incomplete"
	}
	m.evaluations.WithLabelValues(outcome).Inc()
}

// ObserveCandidate counts one tried swap
func (m *SearchMetrics) ObserveCandidate() {
	m.candidates.Inc()
}

// ObserveBacktrack counts one undone swap
func (m *SearchMetrics) ObserveBacktrack() {
	m.backtracks.Inc()
}

// ObserveSearch records the duration of a finished search
func (m *SearchMetrics) ObserveSearch(d time.Duration) {
	m.duration.Observe(d.Seconds())
}

// Registry returns the registry holding the collectors
func (m *SearchMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the Prometheus text format
func (m *SearchMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
