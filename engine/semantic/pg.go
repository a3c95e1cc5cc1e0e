package semantic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

// PG stores records in Postgres with the pgvector extension. Rows carry a
// monotonically increasing seq so equal-distance hits come back in
// insertion order.
type PG struct {
	pool       *pgxpool.Pool
	collection string
	dimension  int
}

// NewPG connects a pool to the given database. The pgvector codec is
// registered on every new connection.
func NewPG(ctx context.Context, connString, collection string) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("semantic: %w: parse DATABASE_URL: %w", domain.ErrConfig, err)
	}
	pcfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("semantic: %w: connect: %w", domain.ErrStoreUnavailable, err)
	}
	return &PG{pool: pool, collection: collection}, nil
}

// EnsureReady installs the extension and schema for the given vector width.
func (p *PG) EnsureReady(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return domain.NewConfigError("dimension", "must be positive")
	}
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS pdf_chunks (
			id uuid PRIMARY KEY,
			seq bigint GENERATED ALWAYS AS IDENTITY,
			collection text NOT NULL,
			content text NOT NULL,
			source text NOT NULL DEFAULT '',
			page int NOT NULL DEFAULT 0,
			chunk_index int NOT NULL DEFAULT 0,
			embedding vector(%d) NOT NULL
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS pdf_chunks_collection_idx ON pdf_chunks (collection)`,
		`CREATE INDEX IF NOT EXISTS pdf_chunks_embedding_idx ON pdf_chunks USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, s := range stmts {
		if _, err := p.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("semantic: %w: ensure schema: %w", domain.ErrStoreUnavailable, err)
		}
	}
	p.dimension = dimension
	return nil
}

// Add inserts records in one batch. Plain INSERTs: a retried batch
// duplicates rows instead of failing or deduplicating.
func (p *PG) Add(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if len(r.Embedding) != p.dimension {
			return fmt.Errorf("semantic add: %w: got %d, collection holds %d",
				domain.ErrDimensionMismatch, len(r.Embedding), p.dimension)
		}
	}
	b := &pgx.Batch{}
	for _, r := range records {
		b.Queue(
			`INSERT INTO pdf_chunks (id, collection, content, source, page, chunk_index, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			r.ID, p.collection, r.Chunk.Text, r.Chunk.Source, r.Chunk.Page, r.Chunk.Index,
			pgvector.NewVector(r.Embedding),
		)
	}
	br := p.pool.SendBatch(ctx, b)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("semantic: %w: insert: %w", domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// Search returns the k nearest records by cosine distance.
func (p *PG) Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	if len(vector) != p.dimension {
		return nil, fmt.Errorf("semantic search: %w: got %d, collection holds %d",
			domain.ErrDimensionMismatch, len(vector), p.dimension)
	}
	rows, err := p.pool.Query(ctx,
		`SELECT content, source, page, chunk_index, 1 - (embedding <=> $1) AS score
		 FROM pdf_chunks
		 WHERE collection = $2
		 ORDER BY embedding <=> $1, seq
		 LIMIT $3`,
		pgvector.NewVector(vector), p.collection, k,
	)
	if err != nil {
		return nil, fmt.Errorf("semantic: %w: search: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var score float64
		if err := rows.Scan(&r.Chunk.Text, &r.Chunk.Source, &r.Chunk.Page, &r.Chunk.Index, &score); err != nil {
			return nil, fmt.Errorf("semantic: %w: scan: %w", domain.ErrStoreUnavailable, err)
		}
		r.Score = float32(score)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("semantic: %w: search: %w", domain.ErrStoreUnavailable, err)
	}
	return results, nil
}

// Health pings the database.
func (p *PG) Health(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("semantic: %w: ping: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Clear removes every record in this store's collection.
func (p *PG) Clear(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM pdf_chunks WHERE collection = $1`, p.collection); err != nil {
		return fmt.Errorf("semantic: %w: clear: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the pool.
func (p *PG) Close() error {
	p.pool.Close()
	return nil
}
