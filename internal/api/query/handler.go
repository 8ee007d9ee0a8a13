package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/pkg/logger"
	"github.com/driftlab/research-router/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase QueryUsecase
}

func NewHandler(usecase QueryUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Ask handles POST /ask - route a query and synthesize an answer
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "handling query",
		zap.String("query", req.Query),
		zap.String("document_id", req.DocumentID),
	)

	result, err := h.usecase.Ask(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toAskResponse(result))
}

// GetLogs handles GET /logs - return recent trace records
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetLogs")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "limit must be an integer", err)
			return
		}
		limit = parsed
	}

	logs := h.usecase.GetLogs(ctx, limit)

	response.Success(w, entity.LogsResponse{Logs: logs})
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "missing required field", err)
	case errors.Is(err, entity.ErrDocumentNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "document not found", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
