package router

import (
	"testing"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_SummaryWithDocument(t *testing.T) {
	r := New(FallbackAllAgents)

	decision := r.Decide("Can you summarize this?", true)

	assert.Equal(t, []entity.AgentName{entity.AgentPDFRAG}, decision.Agents)
	assert.Contains(t, decision.Rationale, "summary")
	assert.Contains(t, decision.Rationale, "PDF")
}

func TestDecide_SummaryWithoutDocument(t *testing.T) {
	r := New(FallbackWebOnly)

	// Without a loaded document the summary rule cannot fire
	decision := r.Decide("Can you summarize this?", false)

	assert.Equal(t, []entity.AgentName{entity.AgentWebSearch}, decision.Agents)
}

func TestDecide_RecentPapers(t *testing.T) {
	r := New(FallbackAllAgents)

	decision := r.Decide("any recent papers on transformers", false)

	assert.Equal(t, []entity.AgentName{entity.AgentArxiv}, decision.Agents)
	assert.Contains(t, decision.Rationale, "arXiv")
}

func TestDecide_ArxivKeyword(t *testing.T) {
	r := New(FallbackAllAgents)

	decision := r.Decide("search ArXiv for diffusion models", false)

	assert.Equal(t, []entity.AgentName{entity.AgentArxiv}, decision.Agents)
}

func TestDecide_LatestNews(t *testing.T) {
	r := New(FallbackAllAgents)

	decision := r.Decide("what is the latest news on fusion energy", false)

	assert.Equal(t, []entity.AgentName{entity.AgentWebSearch}, decision.Agents)
	assert.Contains(t, decision.Rationale, "web search")
}

func TestDecide_FallbackWebOnly(t *testing.T) {
	r := New(FallbackWebOnly)

	decision := r.Decide("hello", false)

	assert.Equal(t, []entity.AgentName{entity.AgentWebSearch}, decision.Agents)
	assert.NotEmpty(t, decision.Rationale)
}

func TestDecide_FallbackAllAgents(t *testing.T) {
	r := New(FallbackAllAgents)

	tests := []struct {
		name      string
		pdfLoaded bool
		want      []entity.AgentName
	}{
		{
			name:      "no document loaded",
			pdfLoaded: false,
			want:      []entity.AgentName{entity.AgentWebSearch, entity.AgentArxiv},
		},
		{
			name:      "document loaded",
			pdfLoaded: true,
			want:      []entity.AgentName{entity.AgentPDFRAG, entity.AgentWebSearch, entity.AgentArxiv},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := r.Decide("hello", tt.pdfLoaded)
			assert.Equal(t, tt.want, decision.Agents)
		})
	}
}

func TestDecide_FirstMatchWins(t *testing.T) {
	r := New(FallbackAllAgents)

	// Query matches both the summary rule and the papers rule; the summary
	// rule is evaluated first
	decision := r.Decide("summarize this paper", true)

	assert.Equal(t, []entity.AgentName{entity.AgentPDFRAG}, decision.Agents)
}

func TestDecide_CaseInsensitive(t *testing.T) {
	r := New(FallbackAllAgents)

	decision := r.Decide("ANY RECENT PAPERS on attention", false)

	require.Equal(t, []entity.AgentName{entity.AgentArxiv}, decision.Agents)
}

func TestDecide_Deterministic(t *testing.T) {
	r := New(FallbackAllAgents)

	first := r.Decide("latest news about go", false)
	second := r.Decide("latest news about go", false)

	assert.Equal(t, first, second)
}
