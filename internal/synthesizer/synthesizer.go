package synthesizer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const summaryLimit = 300

// LLMConnector generates the final answer text from an assembled prompt.
type LLMConnector interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Synthesizer assembles the synthesis prompt from the agent outcomes and
// forwards it to the completion service.
type Synthesizer struct {
	llm    LLMConnector
	topK   int
	logger *zap.Logger
}

func New(llm LLMConnector, topK int, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		llm:    llm,
		topK:   topK,
		logger: logger,
	}
}

// PromptInput carries everything the prompt template needs.
type PromptInput struct {
	Query      string
	Outcomes   entity.AgentOutcomes
	AgentsUsed []entity.AgentName
	Rationale  string
}

// BuildPrompt renders the deterministic synthesis prompt: the question, the
// retrieved PDF context, web and arXiv result blocks (with inline error lines
// for failed agents), the agent list, the rationale and a fixed instruction.
func (s *Synthesizer) BuildPrompt(in PromptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\n", in.Query)
	fmt.Fprintf(&b, "PDF Context (top %d chunks):\n%s\n\n", s.topK, in.Outcomes.PDFContext)

	b.WriteString("Web Results:\n")
	switch {
	case in.Outcomes.WebErr != nil:
		fmt.Fprintf(&b, "Web search error: %s\n", in.Outcomes.WebErr.Message)
	default:
		results := in.Outcomes.Web
		if len(results) > s.topK {
			results = results[:s.topK]
		}
		for _, r := range results {
			fmt.Fprintf(&b, "- %s :: %s (%s)\n", r.Title, r.Snippet, r.Link)
		}
	}

	b.WriteString("\nArXiv Results:\n")
	switch {
	case in.Outcomes.ArxivErr != nil:
		fmt.Fprintf(&b, "ArXiv search error: %s\n", in.Outcomes.ArxivErr.Message)
	default:
		for _, e := range in.Outcomes.Arxiv {
			fmt.Fprintf(&b, "- %s: %s...\n", e.Title, truncate(e.Summary, summaryLimit))
		}
	}

	fmt.Fprintf(&b, "\nAgents Used: %s\n", joinAgents(in.AgentsUsed))
	fmt.Fprintf(&b, "Decision Rationale: %s\n", in.Rationale)
	b.WriteString("Provide a concise and accurate synthesis with cited sources.")

	return b.String()
}

// Answer runs the prompt through the LLM. A failed completion still yields a
// human-readable answer so callers never have to special-case LLM outages.
func (s *Synthesizer) Answer(ctx context.Context, prompt string) string {
	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		ctxzap.Error(ctx, "completion failed", zap.Error(err))
		return fmt.Sprintf("LLM error: %v", err)
	}
	return answer
}

// truncate cuts s to at most limit characters without splitting a rune.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func joinAgents(agents []entity.AgentName) string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}
