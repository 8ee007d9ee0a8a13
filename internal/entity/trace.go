package entity

import "time"

// Trace actions
const (
	TraceActionUpload      = "upload"
	TraceActionAsk         = "ask"
	TraceActionMemoryClear = "memory_clear"
)

// TraceRecord is a logged snapshot of one request: its inputs, the routing
// decision and the outcome. Records are append-only.
type TraceRecord struct {
	Timestamp       time.Time           `json:"timestamp"`
	Action          string              `json:"action"`
	RequestID       string              `json:"request_id,omitempty"`
	Query           string              `json:"query,omitempty"`
	DocumentID      string              `json:"document_id,omitempty"`
	ChunkCount      int                 `json:"chunk_count,omitempty"`
	AgentsCalled    []AgentName         `json:"agents_called,omitempty"`
	Rationale       string              `json:"rationale,omitempty"`
	RetrievedChunks []RetrievedChunkRef `json:"retrieved_chunks,omitempty"`
	AnswerPreview   string              `json:"answer_preview,omitempty"`
	Status          string              `json:"status,omitempty"`
}
