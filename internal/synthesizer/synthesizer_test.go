package synthesizer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLLM struct {
	answer string
	err    error
	prompt string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func TestBuildPrompt_ContainsQueryAndRationale(t *testing.T) {
	s := New(&fakeLLM{}, 3, zap.NewNop())

	prompt := s.BuildPrompt(PromptInput{
		Query:      "what is attention?",
		AgentsUsed: []entity.AgentName{entity.AgentWebSearch},
		Rationale:  "Query asks about news or recent developments, using web search.",
	})

	assert.Contains(t, prompt, "Question: what is attention?")
	assert.Contains(t, prompt, "Decision Rationale: Query asks about news or recent developments, using web search.")
	assert.Contains(t, prompt, "Agents Used: web_search")
	assert.Contains(t, prompt, "Provide a concise and accurate synthesis with cited sources.")
}

func TestBuildPrompt_PDFContext(t *testing.T) {
	s := New(&fakeLLM{}, 3, zap.NewNop())

	prompt := s.BuildPrompt(PromptInput{
		Query: "summarize this",
		Outcomes: entity.AgentOutcomes{
			PDFContext: "chunk one text\n\nchunk two text\n\n",
		},
		AgentsUsed: []entity.AgentName{entity.AgentPDFRAG},
		Rationale:  "summary",
	})

	assert.Contains(t, prompt, "PDF Context (top 3 chunks):")
	assert.Contains(t, prompt, "chunk one text")
	assert.Contains(t, prompt, "chunk two text")
}

func TestBuildPrompt_WebResults(t *testing.T) {
	s := New(&fakeLLM{}, 2, zap.NewNop())

	prompt := s.BuildPrompt(PromptInput{
		Query: "q",
		Outcomes: entity.AgentOutcomes{
			Web: []entity.WebSearchResult{
				{Title: "First", Snippet: "snippet one", Link: "https://a.example"},
				{Title: "Second", Snippet: "snippet two", Link: "https://b.example"},
				{Title: "Third", Snippet: "dropped", Link: "https://c.example"},
			},
		},
	})

	assert.Contains(t, prompt, "- First :: snippet one (https://a.example)")
	assert.Contains(t, prompt, "- Second :: snippet two (https://b.example)")
	// Results past topK are not rendered
	assert.NotContains(t, prompt, "Third")
}

func TestBuildPrompt_WebError(t *testing.T) {
	s := New(&fakeLLM{}, 3, zap.NewNop())

	prompt := s.BuildPrompt(PromptInput{
		Query: "q",
		Outcomes: entity.AgentOutcomes{
			WebErr: &entity.AgentError{Kind: entity.AgentErrorConfig, Message: "api key is not configured"},
		},
	})

	assert.Contains(t, prompt, "Web search error: api key is not configured")
}

func TestBuildPrompt_ArxivSummaryTruncated(t *testing.T) {
	s := New(&fakeLLM{}, 3, zap.NewNop())
	long := strings.Repeat("x", 400)

	prompt := s.BuildPrompt(PromptInput{
		Query: "q",
		Outcomes: entity.AgentOutcomes{
			Arxiv: []entity.ArxivEntry{
				{Title: "Attention Is All You Need", Summary: long},
			},
		},
	})

	assert.Contains(t, prompt, "- Attention Is All You Need: "+strings.Repeat("x", 300)+"...")
	assert.NotContains(t, prompt, strings.Repeat("x", 301))
}

func TestBuildPrompt_ArxivSummaryTruncatedOnRuneBoundary(t *testing.T) {
	s := New(&fakeLLM{}, 3, zap.NewNop())
	// 299 single-byte characters followed by multi-byte runes; a byte slice
	// at 300 would split the first é
	summary := strings.Repeat("a", 299) + "état différentiel"

	prompt := s.BuildPrompt(PromptInput{
		Query: "q",
		Outcomes: entity.AgentOutcomes{
			Arxiv: []entity.ArxivEntry{{Title: "Paper", Summary: summary}},
		},
	})

	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, strings.Repeat("a", 299)+"é...")
	assert.NotContains(t, prompt, "ét...")
}

func TestBuildPrompt_ArxivError(t *testing.T) {
	s := New(&fakeLLM{}, 3, zap.NewNop())

	prompt := s.BuildPrompt(PromptInput{
		Query: "q",
		Outcomes: entity.AgentOutcomes{
			ArxivErr: &entity.AgentError{Kind: entity.AgentErrorNetwork, Message: "connection refused"},
		},
	})

	assert.Contains(t, prompt, "ArXiv search error: connection refused")
}

func TestAnswer_Success(t *testing.T) {
	llm := &fakeLLM{answer: "the synthesized answer"}
	s := New(llm, 3, zap.NewNop())

	answer := s.Answer(context.Background(), "prompt text")

	assert.Equal(t, "the synthesized answer", answer)
	assert.Equal(t, "prompt text", llm.prompt)
}

func TestAnswer_FailureReturnsReadableString(t *testing.T) {
	s := New(&fakeLLM{err: errors.New("rate limited")}, 3, zap.NewNop())

	answer := s.Answer(context.Background(), "prompt")

	require.NotEmpty(t, answer)
	assert.Equal(t, "LLM error: rate limited", answer)
}
