package tracing

import "github.com/driftlab/research-router/internal/entity"

// Recorder is the append-only request trace log. Record assigns the
// timestamp; Recent returns the last n records in insertion order, oldest of
// the returned slice first.
type Recorder interface {
	Record(rec entity.TraceRecord)
	Recent(n int) []entity.TraceRecord
}
