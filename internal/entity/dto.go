package entity

// AskRequest is the POST /ask payload.
type AskRequest struct {
	Query      string `json:"query"`
	DocumentID string `json:"document_id,omitempty"`
}

// AskResponse is the POST /ask response body.
type AskResponse struct {
	Answer     string   `json:"answer"`
	AgentsUsed []string `json:"agents_used"`
	Rationale  string   `json:"rationale"`
	RequestID  string   `json:"request_id"`
}

// UploadResponse is the POST /documents response body.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
	Message    string `json:"message"`
}

// LogsResponse wraps the trace records returned by GET /logs.
type LogsResponse struct {
	Logs []TraceRecord `json:"logs"`
}

// StatusResponse is a generic status acknowledgement.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
