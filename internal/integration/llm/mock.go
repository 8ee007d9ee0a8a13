package llm

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a canned LLM for local runs and tests.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating completion", zap.Int("prompt_length", len(prompt)))

	return fmt.Sprintf(
		"This is a mock synthesis produced without calling the LLM service. "+
			"The assembled prompt was %d characters long.", len(prompt)), nil
}
