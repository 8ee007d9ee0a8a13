package store

import (
	"context"

	"github.com/driftlab/research-router/internal/entity"
)

// Store owns document retrieval state: raw text, chunks and their embedding
// index, keyed by document id. Ingesting an existing id fully replaces the
// prior entry; only a global clear removes documents.
type Store interface {
	// Ingest chunks and indexes text under docID, replacing any prior entry.
	// Returns the number of chunks produced.
	Ingest(ctx context.Context, docID, text string) (int, error)

	// Query embeds queryText and returns the topK most similar chunks of the
	// given document, ordered by descending cosine similarity with ties
	// broken by ascending chunk index. Fails with entity.ErrDocumentNotFound
	// for an unknown docID.
	Query(ctx context.Context, docID, queryText string, topK int) ([]entity.ScoredChunk, error)

	// Has reports whether a document is currently loaded.
	Has(ctx context.Context, docID string) (bool, error)

	// Clear drops all stored documents unconditionally.
	Clear(ctx context.Context) error
}

// Embedder converts a batch of texts into fixed-dimension vectors, preserving
// input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
