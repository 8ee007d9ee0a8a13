package tracing

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func askRecord(i int) entity.TraceRecord {
	return entity.TraceRecord{
		Action: entity.TraceActionAsk,
		Query:  fmt.Sprintf("query %d", i),
	}
}

func TestMemoryRecorder_RecentReturnsTail(t *testing.T) {
	r := NewMemoryRecorder()

	for i := 0; i < 5; i++ {
		r.Record(askRecord(i))
	}

	recent := r.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "query 2", recent[0].Query)
	assert.Equal(t, "query 3", recent[1].Query)
	assert.Equal(t, "query 4", recent[2].Query)
}

func TestMemoryRecorder_RecentMoreThanStored(t *testing.T) {
	r := NewMemoryRecorder()
	r.Record(askRecord(0))
	r.Record(askRecord(1))

	recent := r.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, "query 0", recent[0].Query)
}

func TestMemoryRecorder_Empty(t *testing.T) {
	r := NewMemoryRecorder()

	assert.Empty(t, r.Recent(5))
	assert.Empty(t, r.Recent(0))
	assert.Empty(t, r.Recent(-1))
}

func TestMemoryRecorder_AssignsTimestamp(t *testing.T) {
	r := NewMemoryRecorder()
	r.Record(askRecord(0))

	recent := r.Recent(1)
	require.Len(t, recent, 1)
	assert.False(t, recent[0].Timestamp.IsZero())
}

func TestFileRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.log")
	r, err := NewFileRecorder(path, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		r.Record(askRecord(i))
	}

	recent := r.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "query 2", recent[0].Query)
	assert.Equal(t, "query 3", recent[1].Query)
	assert.Equal(t, entity.TraceActionAsk, recent[0].Action)
	assert.False(t, recent[0].Timestamp.IsZero())
}

func TestFileRecorder_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs", "traces.log")
	r, err := NewFileRecorder(path, zap.NewNop())
	require.NoError(t, err)

	r.Record(askRecord(0))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileRecorder_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-written.log")
	r, err := NewFileRecorder(path, zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, r.Recent(5))
}

func TestFileRecorder_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.log")
	r, err := NewFileRecorder(path, zap.NewNop())
	require.NoError(t, err)

	r.Record(askRecord(0))
	require.NoError(t, os.WriteFile(path, append(readFile(t, path), []byte("{not json}\n")...), 0o644))
	r.Record(askRecord(1))

	recent := r.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, "query 0", recent[0].Query)
	assert.Equal(t, "query 1", recent[1].Query)
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
