package query

import (
	"context"
	"errors"
	"strings"

	"github.com/driftlab/research-router/internal/entity"
	pkghttp "github.com/driftlab/research-router/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// runAgents executes the routed agents one after another. Failures never
// escape an agent's boundary: each is converted into an AgentError and
// carried forward so the synthesis step can note it inline.
func (uc *QueryUsecase) runAgents(ctx context.Context, decision entity.RoutingDecision, req *entity.AskRequest) entity.AgentOutcomes {
	var out entity.AgentOutcomes

	for _, agent := range decision.Agents {
		switch agent {
		case entity.AgentPDFRAG:
			uc.runPDFAgent(ctx, req, &out)
		case entity.AgentWebSearch:
			uc.runWebAgent(ctx, req.Query, &out)
		case entity.AgentArxiv:
			uc.runArxivAgent(ctx, req.Query, &out)
		}
	}

	return out
}

func (uc *QueryUsecase) runPDFAgent(ctx context.Context, req *entity.AskRequest, out *entity.AgentOutcomes) {
	chunks, err := uc.store.Query(ctx, req.DocumentID, req.Query, uc.topK)
	if err != nil {
		ctxzap.Warn(ctx, "pdf retrieval failed", zap.Error(err))
		out.PDFErr = toAgentError(err)
		return
	}

	var b strings.Builder
	for rank, c := range chunks {
		b.WriteString(c.Text)
		b.WriteString("\n\n")
		out.Retrieved = append(out.Retrieved, entity.RetrievedChunkRef{
			Rank:     rank + 1,
			ChunkIdx: c.Index,
			Score:    c.Score,
		})
	}
	out.PDFContext = b.String()
}

func (uc *QueryUsecase) runWebAgent(ctx context.Context, query string, out *entity.AgentOutcomes) {
	results, err := uc.web.Search(ctx, query)
	if err != nil {
		ctxzap.Warn(ctx, "web search failed", zap.Error(err))
		out.WebErr = toAgentError(err)
		return
	}
	out.Web = results
}

func (uc *QueryUsecase) runArxivAgent(ctx context.Context, query string, out *entity.AgentOutcomes) {
	entries, err := uc.arxiv.Search(ctx, query)
	if err != nil {
		ctxzap.Warn(ctx, "arxiv search failed", zap.Error(err))
		out.ArxivErr = toAgentError(err)
		return
	}
	out.Arxiv = entries
}

// toAgentError classifies a connector error into a structured agent error.
func toAgentError(err error) *entity.AgentError {
	var httpErr *pkghttp.HTTPError
	var netErr *pkghttp.NetworkError

	switch {
	case errors.Is(err, entity.ErrNoAPIKey):
		return &entity.AgentError{Kind: entity.AgentErrorConfig, Message: err.Error()}
	case errors.As(err, &httpErr):
		return &entity.AgentError{Kind: entity.AgentErrorHTTP, Message: err.Error()}
	case errors.As(err, &netErr):
		return &entity.AgentError{Kind: entity.AgentErrorNetwork, Message: err.Error()}
	default:
		return &entity.AgentError{Kind: entity.AgentErrorInternal, Message: err.Error()}
	}
}
