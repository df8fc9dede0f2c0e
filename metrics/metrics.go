// Package metrics exports the progress of reconstructions to Prometheus.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jvlmdr/fourdcg/cg"
	"github.com/jvlmdr/fourdcg/recon"
)

// Monitor holds the Prometheus collectors for conjugate gradient solves.
// It implements cg.Monitor.
type Monitor struct {
	Iterations        prometheus.Counter
	Residual          prometheus.Gauge
	IterationDuration prometheus.Histogram
	StageDuration     *prometheus.GaugeVec
}

var _ cg.Monitor = (*Monitor)(nil)

// NewMonitor creates the collectors and registers them with reg.
func NewMonitor(reg prometheus.Registerer, namespace string) (*Monitor, error) {
	m := &Monitor{
		Iterations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cg_iterations_total",
				Help:      "Total number of completed conjugate gradient iterations.",
			},
		),
		Residual: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cg_residual_norm",
				Help:      "Norm of the residual after the latest iteration.",
			},
		),
		IterationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cg_iteration_duration_seconds",
				Help:      "Duration of one conjugate gradient iteration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
			},
		),
		StageDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "recon_stage_duration_seconds",
				Help:      "Duration of each stage of the latest reconstruction in seconds.",
			},
			[]string{"stage"},
		),
	}
	for _, c := range []prometheus.Collector{m.Iterations, m.Residual, m.IterationDuration, m.StageDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// Step records a completed iteration.
func (m *Monitor) Step(s cg.Step) {
	m.Iterations.Inc()
	m.Residual.Set(s.Residual)
	m.IterationDuration.Observe(s.Elapsed.Seconds())
}

// ObserveResult records the stage timings of a reconstruction.
func (m *Monitor) ObserveResult(r *recon.Result) {
	m.StageDuration.WithLabelValues("rhs").Set(r.RHSTime.Seconds())
	m.StageDuration.WithLabelValues("solve").Set(r.SolveTime.Seconds())
}
