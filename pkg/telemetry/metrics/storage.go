package metrics

import (
	"mercator-hq/verity/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// StorageMetrics tracks report persistence.
type StorageMetrics struct {
	prunedTotal prometheus.Counter
	errorsTotal *prometheus.CounterVec
}

// NewStorageMetrics creates and registers storage metrics with registry.
func NewStorageMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *StorageMetrics {
	sm := &StorageMetrics{
		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reports_pruned_total",
				Help:      "Total number of reports removed by retention",
			},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "storage_errors_total",
				Help:      "Total number of failed report storage operations",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(sm.prunedTotal, sm.errorsTotal)
	return sm
}

// RecordPruned adds n pruned reports.
func (sm *StorageMetrics) RecordPruned(n int64) {
	if n > 0 {
		sm.prunedTotal.Add(float64(n))
	}
}

// RecordError records a failed operation.
func (sm *StorageMetrics) RecordError(operation string) {
	sm.errorsTotal.WithLabelValues(operation).Inc()
}
