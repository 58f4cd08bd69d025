// Package metrics exports commission engine measurements to Prometheus.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels attached to every series.
type Config struct {
	ServiceName string
	Environment string
}

// CommissionMetrics implements commission.MetricsCollector.
type CommissionMetrics struct {
	operationDuration *prometheus.HistogramVec
	operationResults  *prometheus.CounterVec
	bulkEntries       *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
}

// NewCommissionMetrics registers the engine's series on registerer, or on
// the default registerer when nil.
func NewCommissionMetrics(registerer prometheus.Registerer, cfg Config) *CommissionMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "paynet"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &CommissionMetrics{
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "paynet_commission_operation_duration_seconds",
			Help:        "Commission engine operation latency.",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		}, []string{"operation"}),
		operationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "paynet_commission_operations_total",
			Help:        "Commission engine operations by result.",
			ConstLabels: constLabels,
		}, []string{"operation", "result"}),
		bulkEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "paynet_commission_bulk_entries_total",
			Help:        "Bulk request entries by outcome.",
			ConstLabels: constLabels,
		}, []string{"operation", "result"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "paynet_cache_lookups_total",
			Help:        "Cache lookups by cache and outcome.",
			ConstLabels: constLabels,
		}, []string{"cache", "outcome"}),
	}

	registerer.MustRegister(
		m.operationDuration,
		m.operationResults,
		m.bulkEntries,
		m.cacheLookups,
	)
	return m
}

func (m *CommissionMetrics) RecordOperationDuration(operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *CommissionMetrics) RecordOperationResult(operation, result string) {
	m.operationResults.WithLabelValues(operation, result).Inc()
}

func (m *CommissionMetrics) RecordBulkEntry(operation, result string) {
	m.bulkEntries.WithLabelValues(operation, result).Inc()
}

func (m *CommissionMetrics) RecordCacheHit(cache string) {
	m.cacheLookups.WithLabelValues(cache, "hit").Inc()
}

func (m *CommissionMetrics) RecordCacheMiss(cache string) {
	m.cacheLookups.WithLabelValues(cache, "miss").Inc()
}
