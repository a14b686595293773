// Package metrics exposes Prometheus metrics for the compatibility
// validator and its HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tessera-hq/tessera/pkg/compat"
	"tessera-hq/tessera/pkg/config"
)

// Collector registers and records all Tessera metrics.
//
// Metrics:
//   - tessera_compat_validations_total: validations by component, space, outcome
//   - tessera_compat_violations_total: violations by quantity and severity
//   - tessera_compat_validation_duration_seconds: validation latency histogram
//   - tessera_compat_rule_reloads_total: rule-table reloads by result
type Collector struct {
	registry *prometheus.Registry

	validationsTotal   *prometheus.CounterVec
	violationsTotal    *prometheus.CounterVec
	validationDuration prometheus.Histogram
	ruleReloadsTotal   *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics with the given
// registry. A nil registry gets a fresh one.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "tessera"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "compat"
	}

	c := &Collector{
		registry: registry,

		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total validation calls by component, space, and outcome",
			},
			[]string{"component", "space", "outcome"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total constraint violations by severity",
			},
			[]string{"severity"},
		),

		validationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Validation call latency in seconds",
				// In-memory rule evaluation sits in the micro- to
				// millisecond range.
				Buckets: []float64{.000005, .00001, .00005, .0001, .0005, .001, .005, .01},
			},
		),

		ruleReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_reloads_total",
				Help:      "Rule-table reload attempts by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		c.validationsTotal,
		c.violationsTotal,
		c.validationDuration,
		c.ruleReloadsTotal,
	)

	return c
}

// RecordValidation records one validation call and its outcome.
func (c *Collector) RecordValidation(component compat.ComponentType, space compat.SpaceType, result compat.Result, elapsed time.Duration) {
	outcome := "valid"
	switch {
	case !result.Valid:
		outcome = "invalid"
	case len(result.Warnings) > 0:
		outcome = "degraded"
	}

	c.validationsTotal.WithLabelValues(string(component), string(space), outcome).Inc()
	c.violationsTotal.WithLabelValues(string(compat.SeverityError)).Add(float64(len(result.Errors)))
	c.violationsTotal.WithLabelValues(string(compat.SeverityWarning)).Add(float64(len(result.Warnings)))
	c.validationDuration.Observe(elapsed.Seconds())
}

// RecordRuleReload records a rule-table reload attempt.
func (c *Collector) RecordRuleReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.ruleReloadsTotal.WithLabelValues(result).Inc()
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
