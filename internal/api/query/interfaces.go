package query

import (
	"context"

	"github.com/driftlab/research-router/internal/entity"
)

type QueryUsecase interface {
	Ask(ctx context.Context, req *entity.AskRequest) (*entity.AskResult, error)
	GetLogs(ctx context.Context, limit int) []entity.TraceRecord
}
