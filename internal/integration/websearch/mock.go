package websearch

import (
	"context"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns canned web results.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Search(ctx context.Context, query string) ([]entity.WebSearchResult, error) {
	ctxzap.Info(ctx, "[MOCK] searching the web", zap.String("query", query))

	return []entity.WebSearchResult{
		{
			Title:   "Mock result for: " + query,
			Snippet: "A placeholder snippet returned by the mock web search connector.",
			Link:    "https://example.com/mock-result",
		},
	}, nil
}
