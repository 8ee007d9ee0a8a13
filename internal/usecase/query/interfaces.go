package query

import (
	"context"

	"github.com/driftlab/research-router/internal/entity"
)

// WebSearchConnector performs a single web search.
type WebSearchConnector interface {
	Search(ctx context.Context, query string) ([]entity.WebSearchResult, error)
}

// ArxivConnector queries the arXiv feed.
type ArxivConnector interface {
	Search(ctx context.Context, query string) ([]entity.ArxivEntry, error)
}

// Router decides which agents answer a query.
type Router interface {
	Decide(query string, pdfLoaded bool) entity.RoutingDecision
}
