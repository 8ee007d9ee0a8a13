package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/integration/common"
	pkghttp "github.com/driftlab/research-router/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector queries the arXiv export API. The feed is Atom XML, so responses
// bypass the JSON path of the base connector.
type Connector struct {
	config    config.ArxivConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ArxivConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

type atomEntry struct {
	ID      string     `xml:"id"`
	Title   string     `xml:"title"`
	Summary string     `xml:"summary"`
	Links   []atomLink `xml:"link"`
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

// Search returns recent papers matching the query.
func (c *Connector) Search(ctx context.Context, query string) ([]entity.ArxivEntry, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", c.config.MaxResults))

	endpoint := c.config.QueryEndpoint + "?" + params.Encode()

	ctxzap.Debug(ctx, "querying arXiv")

	raw, err := c.connector.DoRawRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, fmt.Errorf("arxiv query failed: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	entries := make([]entity.ArxivEntry, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		link := e.ID
		if len(e.Links) > 0 && e.Links[0].Href != "" {
			link = e.Links[0].Href
		}
		entries = append(entries, entity.ArxivEntry{
			Title:   collapseWhitespace(e.Title),
			Summary: collapseWhitespace(e.Summary),
			Link:    link,
		})
	}

	ctxzap.Info(ctx, "arxiv query completed", zap.Int("entry_count", len(entries)))

	return entries, nil
}

// The feed wraps titles and abstracts across lines; fold them back.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
