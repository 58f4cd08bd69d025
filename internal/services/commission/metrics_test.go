package commission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetricsCollector(t *testing.T) {
	var m MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		m.RecordOperationDuration(OpCreate, time.Millisecond)
		m.RecordOperationResult(OpCreate, "success")
		m.RecordBulkEntry(OpBulkCreate, "failed")
		m.RecordCacheHit(OpCalculate)
		m.RecordCacheMiss(OpCalculate)
	})
}
