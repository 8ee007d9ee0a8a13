package document

import (
	"context"
	"fmt"

	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/pkg/validator"
	"github.com/driftlab/research-router/internal/store"
	"github.com/driftlab/research-router/internal/tracing"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DocumentUsecase implements document ingest and memory management
type DocumentUsecase struct {
	store     store.Store
	extractor Extractor
	validator UploadValidator
	recorder  tracing.Recorder
	logger    *zap.Logger
}

func NewUsecase(
	store store.Store,
	extractor Extractor,
	validator UploadValidator,
	recorder tracing.Recorder,
	logger *zap.Logger,
) *DocumentUsecase {
	return &DocumentUsecase{
		store:     store,
		extractor: extractor,
		validator: validator,
		recorder:  recorder,
		logger:    logger,
	}
}

// Ingest validates, extracts and indexes an uploaded document. The sanitized
// filename becomes the document id; re-uploading the same name replaces the
// prior entry.
func (uc *DocumentUsecase) Ingest(ctx context.Context, filename string, content []byte) (*entity.IngestResult, error) {
	if err := uc.validator.ValidateUpload(filename, int64(len(content))); err != nil {
		return nil, err
	}

	text, err := uc.extractor.Extract(filename, content)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	docID := validator.SanitizeFilename(filename)

	chunkCount, err := uc.store.Ingest(ctx, docID, text)
	if err != nil {
		return nil, fmt.Errorf("ingest document: %w", err)
	}

	ctxzap.Info(ctx, "document indexed",
		zap.String("document_id", docID),
		zap.Int("chunk_count", chunkCount),
	)

	uc.recorder.Record(entity.TraceRecord{
		Action:     entity.TraceActionUpload,
		DocumentID: docID,
		ChunkCount: chunkCount,
	})

	return &entity.IngestResult{
		DocumentID: docID,
		ChunkCount: chunkCount,
	}, nil
}

// ClearMemory drops every stored document.
func (uc *DocumentUsecase) ClearMemory(ctx context.Context) error {
	if err := uc.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}

	uc.recorder.Record(entity.TraceRecord{
		Action: entity.TraceActionMemoryClear,
		Status: "cleared",
	})

	return nil
}
