package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/driftlab/research-router/internal/chunker"
	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/store"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// document holds one ingested document: its raw text, ordered chunks and the
// normalized embedding per chunk.
type document struct {
	text    string
	chunks  []string
	vectors [][]float32
}

// Store is the in-process retrieval store: a mutex-guarded map from document
// id to its chunk index, searched by brute-force inner product.
type Store struct {
	mu       sync.RWMutex
	docs     map[string]*document
	chunker  *chunker.Chunker
	embedder store.Embedder
	logger   *zap.Logger
}

var _ store.Store = &Store{}

func NewStore(chunker *chunker.Chunker, embedder store.Embedder, logger *zap.Logger) *Store {
	return &Store{
		docs:     make(map[string]*document),
		chunker:  chunker,
		embedder: embedder,
		logger:   logger,
	}
}

func (s *Store) Ingest(ctx context.Context, docID, text string) (int, error) {
	chunks := s.chunker.Split(text)

	var vectors [][]float32
	if len(chunks) > 0 {
		embedded, err := s.embedder.Embed(ctx, chunks)
		if err != nil {
			return 0, fmt.Errorf("embed chunks: %w", err)
		}
		if len(embedded) != len(chunks) {
			return 0, fmt.Errorf("expected %d embeddings, got %d", len(chunks), len(embedded))
		}
		vectors = embedded
		for i := range vectors {
			store.Normalize(vectors[i])
		}
	}

	s.mu.Lock()
	s.docs[docID] = &document{text: text, chunks: chunks, vectors: vectors}
	s.mu.Unlock()

	ctxzap.Info(ctx, "document ingested",
		zap.String("document_id", docID),
		zap.Int("chunk_count", len(chunks)),
	)

	return len(chunks), nil
}

func (s *Store) Query(ctx context.Context, docID, queryText string, topK int) ([]entity.ScoredChunk, error) {
	s.mu.RLock()
	doc, ok := s.docs[docID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrDocumentNotFound, docID)
	}

	if len(doc.chunks) == 0 || topK <= 0 {
		return nil, nil
	}

	embedded, err := s.embedder.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embedded) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(embedded))
	}
	queryVec := store.Normalize(embedded[0])

	order := make([]int, len(doc.vectors))
	scores := make([]float32, len(doc.vectors))
	for i, vec := range doc.vectors {
		order[i] = i
		scores[i] = store.Dot(vec, queryVec)
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if scores[i] != scores[j] {
			return scores[i] > scores[j]
		}
		return i < j
	})

	if topK > len(order) {
		topK = len(order)
	}
	results := make([]entity.ScoredChunk, 0, topK)
	for _, idx := range order[:topK] {
		results = append(results, entity.ScoredChunk{
			Text:  doc.chunks[idx],
			Index: idx,
			Score: scores[idx],
		})
	}
	return results, nil
}

func (s *Store) Has(ctx context.Context, docID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[docID]
	return ok, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.docs = make(map[string]*document)
	s.mu.Unlock()

	ctxzap.Info(ctx, "retrieval store cleared")
	return nil
}
