package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/integration/common"
	pkghttp "github.com/driftlab/research-router/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Connector talks to an OpenAI-compatible embeddings endpoint. Vectors are
// cached per (model, text) so repeated queries and re-ingests of unchanged
// chunks skip the remote call.
type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		cache:     gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:    logger,
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns one vector per input text, in input order.
func (c *Connector) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))

	var missing []string
	var missingAt []int
	for i, text := range texts {
		if cached, ok := c.cache.Get(c.cacheKey(text)); ok {
			// Hand out a copy; callers normalize vectors in place
			vectors[i] = cloneVector(cached.([]float32))
			continue
		}
		missing = append(missing, text)
		missingAt = append(missingAt, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	ctxzap.Debug(ctx, "embedding texts",
		zap.Int("total", len(texts)),
		zap.Int("cache_misses", len(missing)),
	)

	req := embeddingsRequest{Model: c.config.Model, Input: missing}
	var resp embeddingsResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbeddingsEndpoint, req, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(missing) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(missing), len(resp.Data))
	}

	for i, d := range resp.Data {
		pos := i
		if d.Index >= 0 && d.Index < len(missing) {
			pos = d.Index
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", pos)
		}
		vectors[missingAt[pos]] = d.Embedding
		c.cache.Set(c.cacheKey(missing[pos]), cloneVector(d.Embedding), gocache.DefaultExpiration)
	}

	return vectors, nil
}

func (c *Connector) cacheKey(text string) string {
	return c.config.Model + "\x00" + text
}

func cloneVector(vec []float32) []float32 {
	cp := make([]float32, len(vec))
	copy(cp, vec)
	return cp
}
