package entity

// AgentName identifies one of the retrieval agents the router may select.
type AgentName string

const (
	AgentPDFRAG    AgentName = "pdf_rag"
	AgentWebSearch AgentName = "web_search"
	AgentArxiv     AgentName = "arxiv"
)

// Agent error kinds
const (
	AgentErrorConfig   = "config"
	AgentErrorNetwork  = "network"
	AgentErrorHTTP     = "http"
	AgentErrorInternal = "internal"
)

// AgentError is a structured per-agent failure. It is carried through the
// prompt-assembly step as data instead of aborting the request.
type AgentError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *AgentError) Error() string {
	return e.Kind + ": " + e.Message
}

// RoutingDecision is the ordered agent set chosen for a query plus the
// human-readable reason the rule fired.
type RoutingDecision struct {
	Agents    []AgentName `json:"agents"`
	Rationale string      `json:"rationale"`
}

// WebSearchResult is a single organic web search hit.
type WebSearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// ArxivEntry is a single paper from the arXiv query feed.
type ArxivEntry struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
}

// ScoredChunk is one retrieval hit against a document's chunk index.
type ScoredChunk struct {
	Text  string  `json:"text"`
	Index int     `json:"index"`
	Score float32 `json:"score"`
}

// RetrievedChunkRef records which chunks fed the prompt, for tracing.
type RetrievedChunkRef struct {
	Rank     int     `json:"rank"`
	ChunkIdx int     `json:"chunk_idx"`
	Score    float32 `json:"score"`
}

// AgentOutcomes collects what each selected agent produced for one request.
// Exactly one of the payload/error pair is set per agent that ran.
type AgentOutcomes struct {
	PDFContext string
	Retrieved  []RetrievedChunkRef
	PDFErr     *AgentError

	Web    []WebSearchResult
	WebErr *AgentError

	Arxiv    []ArxivEntry
	ArxivErr *AgentError
}
