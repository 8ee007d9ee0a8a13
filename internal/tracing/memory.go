package tracing

import (
	"sync"
	"time"

	"github.com/driftlab/research-router/internal/entity"
)

// MemoryRecorder keeps trace records in process memory. No rotation; the log
// lives and dies with the process.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []entity.TraceRecord
}

var _ Recorder = &MemoryRecorder{}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(rec entity.TraceRecord) {
	rec.Timestamp = time.Now().UTC()

	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
}

func (r *MemoryRecorder) Recent(n int) []entity.TraceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || len(r.records) == 0 {
		return nil
	}
	if n > len(r.records) {
		n = len(r.records)
	}

	out := make([]entity.TraceRecord, n)
	copy(out, r.records[len(r.records)-n:])
	return out
}
