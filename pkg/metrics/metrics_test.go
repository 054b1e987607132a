package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRegistersSchedulerInfo(t *testing.T) {
	r := NewRegistry("1.0.0-test")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `slurm_scheduler{`)
	assert.Contains(t, body, `version="1.0.0-test"`)
	assert.Contains(t, body, `algorithm="priority-fifo"`)
}

func TestNewRegistryDoesNotPanicOnMultipleInstances(t *testing.T) {
	assert.NotPanics(t, func() {
		NewRegistry("a")
		NewRegistry("b")
	})
}

func TestPartitionMetricsUseExpectedNames(t *testing.T) {
	r := NewRegistry("test")
	r.PartitionCPUsTotal.WithLabelValues("debug").Set(16)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), `slurm_partition_cpus_total{partition="debug"} 16`)
}
