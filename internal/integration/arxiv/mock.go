package arxiv

import (
	"context"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector returns canned arXiv entries.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Search(ctx context.Context, query string) ([]entity.ArxivEntry, error) {
	ctxzap.Info(ctx, "[MOCK] querying arXiv", zap.String("query", query))

	return []entity.ArxivEntry{
		{
			Title:   "A Mock Paper About " + query,
			Summary: "Placeholder abstract returned by the mock arXiv connector.",
			Link:    "https://arxiv.org/abs/0000.00000",
		},
	}, nil
}
