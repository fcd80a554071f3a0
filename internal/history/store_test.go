package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRecordAndListRuns(t *testing.T) {
	s := openInMemory(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id1, err := s.RecordRun(Run{
		StartedAt: base,
		Input:     FileFingerprint{Path: "a.fq", Size: 100, ModTime: base.Add(-time.Hour)},
		Format:    "fastq", Hasher: "xxh64", Key: "seq",
		Read: 10, Written: 7, Removed: 3,
		Duration: 1500 * time.Millisecond,
		Status:   StatusDone,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id1)

	id2, err := s.RecordRun(Run{
		ID:        "fixed-id",
		StartedAt: base.Add(time.Minute),
		Input:     FileFingerprint{Path: "b.vcf"},
		Format:    "vcf", Hasher: "xxh3", Key: "site",
		Read: 5, Written: 5,
		Status: StatusFailed, Error: "malformed input",
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id2)

	runs, err := s.Runs(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "fixed-id", runs[0].ID)
	assert.Equal(t, StatusFailed, runs[0].Status)
	assert.Equal(t, "malformed input", runs[0].Error)

	r := runs[1]
	assert.Equal(t, id1, r.ID)
	assert.Equal(t, "a.fq", r.Input.Path)
	assert.Equal(t, int64(100), r.Input.Size)
	assert.Equal(t, uint64(10), r.Read)
	assert.Equal(t, uint64(7), r.Written)
	assert.Equal(t, uint64(3), r.Removed)
	assert.Equal(t, 1500*time.Millisecond, r.Duration)
	assert.True(t, base.Equal(r.StartedAt))

	limited, err := s.Runs(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "fixed-id", limited[0].ID)
}

func TestRunsForInput(t *testing.T) {
	s := openInMemory(t)
	mtime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fp := FileFingerprint{Path: "reads.fq.gz", Size: 4096, ModTime: mtime}

	_, err := s.RecordRun(Run{StartedAt: mtime, Input: fp, Status: StatusDone})
	require.NoError(t, err)
	_, err = s.RecordRun(Run{StartedAt: mtime, Input: fp, Status: StatusCancelled})
	require.NoError(t, err)

	runs, err := s.RunsForInput(fp)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	changed := fp
	changed.Size = 8192
	runs, err = s.RunsForInput(changed)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestClearRuns(t *testing.T) {
	s := openInMemory(t)
	_, err := s.RecordRun(Run{StartedAt: time.Now(), Status: StatusDone})
	require.NoError(t, err)

	require.NoError(t, s.ClearRuns())
	runs, err := s.Runs(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.fa")
	require.NoError(t, os.WriteFile(path, []byte(">a\nACGT\n"), 0644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, fp.Path)
	assert.Equal(t, int64(8), fp.Size)
	assert.False(t, fp.ModTime.IsZero())

	fp, err = StatFile("-")
	require.NoError(t, err)
	assert.Equal(t, "-", fp.Path)

	_, err = StatFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
