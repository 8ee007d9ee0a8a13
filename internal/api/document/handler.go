package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/pkg/logger"
	"github.com/driftlab/research-router/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase DocumentUsecase
	cfg     config.UploadConfig
}

func NewHandler(usecase DocumentUsecase, cfg config.UploadConfig) *Handler {
	return &Handler{
		usecase: usecase,
		cfg:     cfg,
	}
}

// Upload handles POST /documents - ingest a document
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	// Cap the request body before parsing; oversize uploads must fail fast
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize+1)

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(ctx, w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", h.cfg.MaxUploadSize), err)
			return
		}
		h.respondError(ctx, w, http.StatusBadRequest, "failed to parse form", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "file is required", err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to read file", err)
		return
	}

	ctxzap.Info(ctx, "uploading document",
		zap.String("filename", header.Filename),
		zap.Int("size_bytes", len(content)),
	)

	result, err := h.usecase.Ingest(ctx, header.Filename, content)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, entity.UploadResponse{
		DocumentID: result.DocumentID,
		ChunkCount: result.ChunkCount,
		Message:    fmt.Sprintf("Uploaded and indexed %d chunks", result.ChunkCount),
	})
}

// ClearMemory handles DELETE /memory - drop all stored documents
func (h *Handler) ClearMemory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ClearMemory")

	if err := h.usecase.ClearMemory(ctx); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "memory cleared")

	response.Success(w, entity.StatusResponse{
		Status:  "ok",
		Message: "Cleared stored documents",
	})
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrUploadTooLarge):
		h.respondError(ctx, w, http.StatusRequestEntityTooLarge, "upload too large", err)
	case errors.Is(err, entity.ErrInvalidExtension):
		h.respondError(ctx, w, http.StatusBadRequest, "unsupported file type", err)
	case errors.Is(err, entity.ErrInvalidChunkConfig):
		h.respondError(ctx, w, http.StatusInternalServerError, "invalid chunking configuration", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
