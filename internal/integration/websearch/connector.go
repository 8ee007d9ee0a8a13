package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/integration/common"
	pkghttp "github.com/driftlab/research-router/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector performs web searches through a SerpAPI-compatible endpoint.
// The API key travels as a query parameter, not a bearer token.
type Connector struct {
	config    config.WebSearchConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.WebSearchConnectorConfig,
	logger *zap.Logger,
) *Connector {
	// Keep the key out of the Authorization header; it is sent per request
	httpCfg := cfg.HTTPClientConfig
	httpCfg.Token = ""

	return &Connector{
		connector: common.NewBaseConnector(httpCfg, logger),
		config:    cfg,
		logger:    logger,
	}
}

type searchResponse struct {
	OrganicResults []entity.WebSearchResult `json:"organic_results"`
}

// Search returns the top organic results for the query.
func (c *Connector) Search(ctx context.Context, query string) ([]entity.WebSearchResult, error) {
	if c.config.Token == "" {
		return nil, entity.ErrNoAPIKey
	}

	params := url.Values{}
	params.Set("engine", c.config.Engine)
	params.Set("q", query)
	params.Set("api_key", c.config.Token)
	params.Set("num", strconv.Itoa(c.config.MaxResults))

	endpoint := c.config.SearchEndpoint + "?" + params.Encode()

	ctxzap.Debug(ctx, "searching the web", zap.String("engine", c.config.Engine))

	var resp searchResponse
	err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	results := resp.OrganicResults
	if len(results) > c.config.MaxResults {
		results = results[:c.config.MaxResults]
	}

	ctxzap.Info(ctx, "web search completed", zap.Int("result_count", len(results)))

	return results, nil
}
