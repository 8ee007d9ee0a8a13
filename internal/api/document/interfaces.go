package document

import (
	"context"

	"github.com/driftlab/research-router/internal/entity"
)

type DocumentUsecase interface {
	Ingest(ctx context.Context, filename string, content []byte) (*entity.IngestResult, error)
	ClearMemory(ctx context.Context) error
}
