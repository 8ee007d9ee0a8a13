package entity

// IngestResult describes a completed document ingest.
type IngestResult struct {
	DocumentID string
	ChunkCount int
}

// AskResult is the synthesized answer for one query.
type AskResult struct {
	Answer     string
	AgentsUsed []AgentName
	Rationale  string
	RequestID  string
}
