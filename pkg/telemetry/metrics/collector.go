package metrics

import (
	"time"

	"mercator-hq/verity/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for checks.
const (
	ResultPassed = "passed"
	ResultFailed = "failed"
	ResultError  = "error"
)

// otherField replaces field labels beyond the cardinality limit.
const otherField = "other"

// Collector owns the Prometheus registry and every verity metric.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	checkMetrics   *CheckMetrics
	storageMetrics *StorageMetrics

	fieldLimiter *CardinalityLimiter
}

// NewCollector creates a collector registered on registry. A nil registry
// gets a fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	maxFields := cfg.MaxFieldLabels
	if maxFields <= 0 {
		maxFields = config.DefaultMetricsMaxFields
	}

	return &Collector{
		config:         cfg,
		registry:       registry,
		checkMetrics:   NewCheckMetrics(cfg, registry),
		storageMetrics: NewStorageMetrics(cfg, registry),
		fieldLimiter:   NewCardinalityLimiter(maxFields),
	}
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordCheck records one completed check and its failing fields.
func (c *Collector) RecordCheck(ruleFile string, passed bool, duration time.Duration, failedFields []string) {
	if !c.Enabled() {
		return
	}

	result := ResultPassed
	if !passed {
		result = ResultFailed
	}
	c.checkMetrics.RecordCheck(ruleFile, result, duration)

	for _, field := range failedFields {
		if !c.fieldLimiter.Allow(ruleFile + ":" + field) {
			field = otherField
		}
		c.checkMetrics.RecordFieldFailure(ruleFile, field)
	}
}

// RecordConfigError records a check that could not run because the rule
// file is broken. kind is a short classification such as "unknown_rule".
func (c *Collector) RecordConfigError(ruleFile, kind string, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	c.checkMetrics.RecordCheck(ruleFile, ResultError, duration)
	c.checkMetrics.RecordConfigError(ruleFile, kind)
}

// RecordWatchEvent records a file event seen by the watcher.
func (c *Collector) RecordWatchEvent(op string) {
	if !c.Enabled() {
		return
	}
	c.checkMetrics.RecordWatchEvent(op)
}

// RecordPruned records reports removed by retention.
func (c *Collector) RecordPruned(n int64) {
	if !c.Enabled() {
		return
	}
	c.storageMetrics.RecordPruned(n)
}

// RecordStorageError records a failed storage operation.
func (c *Collector) RecordStorageError(operation string) {
	if !c.Enabled() {
		return
	}
	c.storageMetrics.RecordError(operation)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
