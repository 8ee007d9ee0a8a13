package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/driftlab/research-router/internal/chunker"
	"github.com/driftlab/research-router/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEmbedder maps each text to a fixed vector so similarity ordering is
// fully controlled by the test.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		cp := make([]float32, len(vec))
		copy(cp, vec)
		out[i] = cp
	}
	return out, nil
}

func newTestStore(t *testing.T, embedder *fakeEmbedder) *Store {
	t.Helper()
	chk, err := chunker.New(3, 0)
	require.NoError(t, err)
	return NewStore(chk, embedder, zap.NewNop())
}

func TestIngest_CountsChunks(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})

	count, err := s.Ingest(context.Background(), "doc", "a b c d e f g")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	has, err := s.Has(context.Background(), "doc")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestIngest_EmptyText(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})

	count, err := s.Ingest(context.Background(), "doc", "   ")
	require.NoError(t, err)
	assert.Zero(t, count)

	// The document is loaded even though it has no chunks
	has, err := s.Has(context.Background(), "doc")
	require.NoError(t, err)
	assert.True(t, has)

	chunks, err := s.Query(context.Background(), "doc", "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngest_EmbedderFailure(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{err: errors.New("embedding service down")})

	_, err := s.Ingest(context.Background(), "doc", "a b c")
	require.Error(t, err)

	has, _ := s.Has(context.Background(), "doc")
	assert.False(t, has)
}

func TestIngest_ReplacesExisting(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{vectors: map[string][]float32{
		"old text here": {1, 0, 0},
		"new words now": {0, 1, 0},
		"query":         {0, 1, 0},
	}})
	ctx := context.Background()

	_, err := s.Ingest(ctx, "doc", "old text here")
	require.NoError(t, err)
	_, err = s.Ingest(ctx, "doc", "new words now")
	require.NoError(t, err)

	chunks, err := s.Query(ctx, "doc", "query", 5)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "new words now", chunks[0].Text)
}

// shortEmbedder violates the one-vector-per-text contract.
type shortEmbedder struct {
	fakeEmbedder
	brokenAfter int
	calls       int
}

func (e *shortEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.calls > e.brokenAfter {
		return nil, nil
	}
	return e.fakeEmbedder.Embed(ctx, texts)
}

func TestQuery_BadEmbedderBatch(t *testing.T) {
	emb := &shortEmbedder{brokenAfter: 1}
	chk, err := chunker.New(3, 0)
	require.NoError(t, err)
	s := NewStore(chk, emb, zap.NewNop())
	ctx := context.Background()

	_, err = s.Ingest(ctx, "doc", "a b c")
	require.NoError(t, err)

	_, err = s.Query(ctx, "doc", "query", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 embedding")
}

func TestQuery_UnknownDocument(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})

	_, err := s.Query(context.Background(), "missing", "query", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestQuery_OrdersByScore(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{vectors: map[string][]float32{
		"aa ab ac": {1, 0, 0},
		"ba bb bc": {0.5, 0.5, 0},
		"ca cb cc": {0, 1, 0},
		"query":    {0, 1, 0},
	}})
	ctx := context.Background()

	_, err := s.Ingest(ctx, "doc", "aa ab ac ba bb bc ca cb cc")
	require.NoError(t, err)

	chunks, err := s.Query(ctx, "doc", "query", 2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "ca cb cc", chunks[0].Text)
	assert.Equal(t, 2, chunks[0].Index)
	assert.Equal(t, "ba bb bc", chunks[1].Text)
	assert.Equal(t, 1, chunks[1].Index)
	assert.Greater(t, chunks[0].Score, chunks[1].Score)
}

func TestQuery_TieBrokenByIndex(t *testing.T) {
	same := []float32{1, 0, 0}
	s := newTestStore(t, &fakeEmbedder{vectors: map[string][]float32{
		"aa ab ac": same,
		"ba bb bc": same,
		"query":    same,
	}})
	ctx := context.Background()

	_, err := s.Ingest(ctx, "doc", "aa ab ac ba bb bc")
	require.NoError(t, err)

	chunks, err := s.Query(ctx, "doc", "query", 2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
}

func TestQuery_TopKCapped(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	_, err := s.Ingest(ctx, "doc", "a b c d e f")
	require.NoError(t, err)

	chunks, err := s.Query(ctx, "doc", "query", 10)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestClear(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	_, err := s.Ingest(ctx, "one", "a b c")
	require.NoError(t, err)
	_, err = s.Ingest(ctx, "two", "d e f")
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))

	for _, id := range []string{"one", "two"} {
		has, err := s.Has(ctx, id)
		require.NoError(t, err)
		assert.False(t, has)
	}
}
