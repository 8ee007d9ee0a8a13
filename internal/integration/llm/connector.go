package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/integration/common"
	pkghttp "github.com/driftlab/research-router/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector calls an OpenAI-compatible chat completions service (Groq).
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type completionsResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message and returns the
// assistant's reply.
func (c *Connector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "requesting completion", zap.Int("prompt_length", len(prompt)))

	req := completionsRequest{
		Model:       c.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}

	var resp completionsResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("invalid completion response: no choices")
	}

	answer := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "completion received", zap.Int("answer_length", len(answer)))

	return answer, nil
}
