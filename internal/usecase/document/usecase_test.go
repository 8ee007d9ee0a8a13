package document

import (
	"context"
	"errors"
	"testing"

	"github.com/driftlab/research-router/internal/chunker"
	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/integration/embedding"
	"github.com/driftlab/research-router/internal/pkg/validator"
	memorystore "github.com/driftlab/research-router/internal/store/memory"
	"github.com/driftlab/research-router/internal/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type passthroughExtractor struct {
	err error
}

func (e *passthroughExtractor) Extract(_ string, content []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return string(content), nil
}

type fixture struct {
	uc       *DocumentUsecase
	store    *memorystore.Store
	recorder *tracing.MemoryRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	chk, err := chunker.New(5, 0)
	require.NoError(t, err)

	log := zap.NewNop()
	st := memorystore.NewStore(chk, embedding.NewMockConnector(32, log), log)
	rec := tracing.NewMemoryRecorder()

	uc := NewUsecase(
		st,
		&passthroughExtractor{},
		validator.NewUploadValidator(config.UploadConfig{MaxUploadSize: 1024}),
		rec,
		log,
	)

	return &fixture{uc: uc, store: st, recorder: rec}
}

func TestIngest_Success(t *testing.T) {
	f := newFixture(t)

	result, err := f.uc.Ingest(context.Background(), "my notes (draft).txt", []byte("one two three four five six seven"))
	require.NoError(t, err)

	assert.Equal(t, "my_notes_draft.txt", result.DocumentID)
	assert.Equal(t, 2, result.ChunkCount)

	has, err := f.store.Has(context.Background(), result.DocumentID)
	require.NoError(t, err)
	assert.True(t, has)

	records := f.recorder.Recent(1)
	require.Len(t, records, 1)
	assert.Equal(t, entity.TraceActionUpload, records[0].Action)
	assert.Equal(t, "my_notes_draft.txt", records[0].DocumentID)
	assert.Equal(t, 2, records[0].ChunkCount)
}

func TestIngest_InvalidExtension(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Ingest(context.Background(), "image.png", []byte("data"))
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidExtension)

	// Nothing was stored or traced
	assert.Empty(t, f.recorder.Recent(10))
}

func TestIngest_TooLarge(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Ingest(context.Background(), "huge.txt", make([]byte, 2048))
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrUploadTooLarge)
}

func TestIngest_ExtractionFailure(t *testing.T) {
	_ = newFixture(t)

	chk, err := chunker.New(5, 0)
	require.NoError(t, err)
	log := zap.NewNop()

	uc := NewUsecase(
		memorystore.NewStore(chk, embedding.NewMockConnector(32, log), log),
		&passthroughExtractor{err: errors.New("unreadable file")},
		validator.NewUploadValidator(config.UploadConfig{MaxUploadSize: 1024}),
		tracing.NewMemoryRecorder(),
		log,
	)

	_, err = uc.Ingest(context.Background(), "broken.pdf", []byte("junk"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract text")
}

func TestIngest_ReplacesOnSameName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.Ingest(ctx, "doc.txt", []byte("a b c d e f g h i j k l"))
	require.NoError(t, err)
	assert.Equal(t, 3, first.ChunkCount)

	second, err := f.uc.Ingest(ctx, "doc.txt", []byte("x y"))
	require.NoError(t, err)
	assert.Equal(t, 1, second.ChunkCount)
}

func TestClearMemory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Ingest(ctx, "doc.txt", []byte("a b c"))
	require.NoError(t, err)

	require.NoError(t, f.uc.ClearMemory(ctx))

	has, err := f.store.Has(ctx, "doc.txt")
	require.NoError(t, err)
	assert.False(t, has)

	records := f.recorder.Recent(1)
	require.Len(t, records, 1)
	assert.Equal(t, entity.TraceActionMemoryClear, records[0].Action)
}
