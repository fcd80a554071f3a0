package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	before := testutil.ToFloat64(DedupRecordsRead)
	DedupRecordsRead.Add(3)
	DedupPhaseSeconds.WithLabelValues("hash").Add(0.5)
	assert.Equal(t, before+3, testutil.ToFloat64(DedupRecordsRead))

	path := filepath.Join(t.TempDir(), "fastx.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# TYPE fastx_dedup_records_read_total counter")
	assert.Contains(t, string(data), `fastx_dedup_phase_seconds_total{phase="hash"}`)
}

func TestRegistryIsPrivate(t *testing.T) {
	n, err := testutil.GatherAndCount(Registry, "fastx_dedup_records_written_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
