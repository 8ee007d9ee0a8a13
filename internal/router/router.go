package router

import (
	"strings"

	"github.com/driftlab/research-router/internal/entity"
)

// FallbackPolicy names the agent set used when no routing rule matches.
type FallbackPolicy string

const (
	// FallbackWebOnly routes unmatched queries to web search alone.
	FallbackWebOnly FallbackPolicy = "web-only"
	// FallbackAllAgents routes unmatched queries to every available agent
	// to maximize recall.
	FallbackAllAgents FallbackPolicy = "all-agents"
)

// rule is one routing decision: if matches fires, agents are selected and
// rationale explains why. Rules are evaluated top-down, first match wins.
type rule struct {
	matches   func(q string, pdfLoaded bool) bool
	agents    func(pdfLoaded bool) []entity.AgentName
	rationale string
}

// Router maps a query and the loaded-document flag to an ordered agent set.
// Stateless and deterministic.
type Router struct {
	fallback FallbackPolicy
	rules    []rule
}

func New(fallback FallbackPolicy) *Router {
	return &Router{
		fallback: fallback,
		rules: []rule{
			{
				matches: func(q string, pdfLoaded bool) bool {
					return pdfLoaded && containsAny(q, "summarize", "this")
				},
				agents: func(bool) []entity.AgentName {
					return []entity.AgentName{entity.AgentPDFRAG}
				},
				rationale: "Document is loaded and the query requests a summary of it, using PDF retrieval.",
			},
			{
				matches: func(q string, _ bool) bool {
					return containsAny(q, "recent papers", "arxiv", "paper")
				},
				agents: func(bool) []entity.AgentName {
					return []entity.AgentName{entity.AgentArxiv}
				},
				rationale: "Query asks about recent papers or arXiv, using arXiv search.",
			},
			{
				matches: func(q string, _ bool) bool {
					return containsAny(q, "latest news", "recent developments")
				},
				agents: func(bool) []entity.AgentName {
					return []entity.AgentName{entity.AgentWebSearch}
				},
				rationale: "Query asks about news or recent developments, using web search.",
			},
		},
	}
}

// Decide evaluates the rule list against the lowercased query.
func (r *Router) Decide(query string, pdfLoaded bool) entity.RoutingDecision {
	q := strings.ToLower(query)

	for _, rl := range r.rules {
		if rl.matches(q, pdfLoaded) {
			return entity.RoutingDecision{
				Agents:    rl.agents(pdfLoaded),
				Rationale: rl.rationale,
			}
		}
	}

	if r.fallback == FallbackWebOnly {
		return entity.RoutingDecision{
			Agents:    []entity.AgentName{entity.AgentWebSearch},
			Rationale: "No routing keywords matched, defaulting to web search.",
		}
	}

	agents := make([]entity.AgentName, 0, 3)
	if pdfLoaded {
		agents = append(agents, entity.AgentPDFRAG)
	}
	agents = append(agents, entity.AgentWebSearch, entity.AgentArxiv)
	return entity.RoutingDecision{
		Agents:    agents,
		Rationale: "No routing keywords matched, falling back to all available agents.",
	}
}

func containsAny(q string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
