package postgres

import (
	"context"
	"fmt"

	"github.com/driftlab/research-router/internal/chunker"
	"github.com/driftlab/research-router/internal/entity"
	"github.com/driftlab/research-router/internal/store"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// Store is the pgvector-backed retrieval store. One row per chunk; cosine
// distance search via the <=> operator. Embeddings are normalized before
// insert so 1 - distance equals the inner-product similarity of the memory
// backend.
type Store struct {
	db       *pgxpool.Pool
	chunker  *chunker.Chunker
	embedder store.Embedder
	logger   *zap.Logger
}

var _ store.Store = &Store{}

func NewStore(db *pgxpool.Pool, chunker *chunker.Chunker, embedder store.Embedder, logger *zap.Logger) *Store {
	return &Store{
		db:       db,
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

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (id, raw_text, chunk_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET raw_text = $2, chunk_count = $3, created_at = now()`,
		docID, text, len(chunks))
	if err != nil {
		return 0, fmt.Errorf("upsert document: %w", err)
	}

	// Full replace: drop the previous index for this id before inserting
	_, err = tx.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, docID)
	if err != nil {
		return 0, fmt.Errorf("delete prior chunks: %w", err)
	}

	batch := &pgx.Batch{}
	for i, chunk := range chunks {
		batch.Queue(`
			INSERT INTO document_chunks (document_id, chunk_index, chunk_text, embedding)
			VALUES ($1, $2, $3, $4)`,
			docID, i, chunk, pgvector.NewVector(vectors[i]))
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("insert chunks: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	ctxzap.Info(ctx, "document ingested",
		zap.String("document_id", docID),
		zap.Int("chunk_count", len(chunks)),
	)

	return len(chunks), nil
}

func (s *Store) Query(ctx context.Context, docID, queryText string, topK int) ([]entity.ScoredChunk, error) {
	loaded, err := s.Has(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !loaded {
		return nil, fmt.Errorf("%w: %s", entity.ErrDocumentNotFound, docID)
	}
	if topK <= 0 {
		return nil, nil
	}

	embedded, err := s.embedder.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embedded) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(embedded))
	}
	queryVec := pgvector.NewVector(store.Normalize(embedded[0]))

	rows, err := s.db.Query(ctx, `
		SELECT chunk_text, chunk_index, 1 - (embedding <=> $2) AS score
		FROM document_chunks
		WHERE document_id = $1
		ORDER BY embedding <=> $2, chunk_index
		LIMIT $3`,
		docID, queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var results []entity.ScoredChunk
	for rows.Next() {
		var c entity.ScoredChunk
		var score float64
		if err := rows.Scan(&c.Text, &c.Index, &score); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.Score = float32(score)
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	return results, nil
}

func (s *Store) Has(ctx context.Context, docID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, docID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check document: %w", err)
	}
	return exists, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `TRUNCATE document_chunks, documents`); err != nil {
		return fmt.Errorf("truncate store: %w", err)
	}

	ctxzap.Info(ctx, "retrieval store cleared")
	return nil
}
