package commission

import "time"

// NoopMetricsCollector discards every measurement.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (NoopMetricsCollector) RecordOperationResult(string, string)          {}
func (NoopMetricsCollector) RecordBulkEntry(string, string)                {}
func (NoopMetricsCollector) RecordCacheHit(string)                         {}
func (NoopMetricsCollector) RecordCacheMiss(string)                        {}
