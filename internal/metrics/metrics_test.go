package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	_, m := NewRegistry()

	m.RecordRun("gsat", "success", 120, 10*time.Millisecond)
	m.RecordRun("gsat", "success", 340, 12*time.Millisecond)
	m.RecordRun("gsat", "failure", 1000, 50*time.Millisecond)
	m.RecordRun("gsat", "parse_error", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("gsat", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("gsat", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("gsat", "parse_error")))

	// one histogram series per outcome that carries steps
	assert.Equal(t, 2, testutil.CollectAndCount(m.RunSteps))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestRecordBatch(t *testing.T) {
	_, m := NewRegistry()

	m.RecordBatchStart("probsat")
	m.RecordBatchError("probsat", "SOLVER-001")
	m.RecordBatchError("probsat", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchesTotal.WithLabelValues("probsat")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchErrors.WithLabelValues("probsat", "SOLVER-001")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchErrors.WithLabelValues("probsat", "unknown")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRun("gsat", "success", 1, time.Second)
		m.RecordBatchStart("gsat")
		m.RecordBatchError("gsat", "x")
	})
}

func TestWriteTextfile(t *testing.T) {
	reg, m := NewRegistry()
	m.RecordRun("probsat", "success", 42, time.Millisecond)

	path := filepath.Join(t.TempDir(), "slsbench.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `slsbench_runs_total{outcome="success",solver="probsat"} 1`))
}
