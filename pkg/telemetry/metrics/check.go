package metrics

import (
	"time"

	"mercator-hq/verity/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckMetrics tracks rule evaluation.
type CheckMetrics struct {
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	fieldFailures *prometheus.CounterVec
	configErrors  *prometheus.CounterVec
	watchEvents   *prometheus.CounterVec
}

// NewCheckMetrics creates and registers check metrics with registry.
func NewCheckMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CheckMetrics {
	cm := &CheckMetrics{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "checks_total",
				Help:      "Total number of checks by outcome",
			},
			[]string{"rule_file", "result"},
		),

		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "check_duration_seconds",
				Help:      "Duration of a check including data loading, in seconds",
				// Checks are in-memory; most finish well under 10ms.
				Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50µs to ~400ms
			},
			[]string{"rule_file"},
		),

		fieldFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "field_failures_total",
				Help:      "Total number of failed fields",
			},
			[]string{"rule_file", "field"},
		),

		configErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "config_errors_total",
				Help:      "Total number of checks aborted by a broken rule file",
			},
			[]string{"rule_file", "kind"},
		),

		watchEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_events_total",
				Help:      "Total number of file events seen by the watcher",
			},
			[]string{"op"},
		),
	}

	registry.MustRegister(
		cm.checksTotal,
		cm.checkDuration,
		cm.fieldFailures,
		cm.configErrors,
		cm.watchEvents,
	)

	return cm
}

// RecordCheck records a check outcome and its duration.
func (cm *CheckMetrics) RecordCheck(ruleFile, result string, duration time.Duration) {
	cm.checksTotal.WithLabelValues(ruleFile, result).Inc()
	cm.checkDuration.WithLabelValues(ruleFile).Observe(duration.Seconds())
}

// RecordFieldFailure records one failing field.
func (cm *CheckMetrics) RecordFieldFailure(ruleFile, field string) {
	cm.fieldFailures.WithLabelValues(ruleFile, field).Inc()
}

// RecordConfigError records a broken rule file.
func (cm *CheckMetrics) RecordConfigError(ruleFile, kind string) {
	cm.configErrors.WithLabelValues(ruleFile, kind).Inc()
}

// RecordWatchEvent records a watcher event.
func (cm *CheckMetrics) RecordWatchEvent(op string) {
	cm.watchEvents.WithLabelValues(op).Inc()
}
