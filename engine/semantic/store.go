// Package semantic is the sole owner of vector storage. It persists
// (chunk, embedding) records inside one named collection and retrieves
// the nearest neighbours of a query vector by cosine similarity.
package semantic

import (
	"context"

	"github.com/LeitorAI/leitor-mvp/engine/config"
	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

// Store persists records and answers nearest-neighbour queries.
//
// Add is append-only with at-least-once semantics: a retried batch may
// duplicate records and nothing deduplicates them. Clear is the only way
// to remove data and is never called implicitly.
type Store interface {
	// EnsureReady prepares the backing schema or collection for vectors
	// of the given width. Idempotent.
	EnsureReady(ctx context.Context, dimension int) error
	Add(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)
	// Health verifies connectivity without mutating state.
	Health(ctx context.Context) error
	Clear(ctx context.Context) error
	Close() error
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StorePGVector:
		return NewPG(ctx, cfg.DatabaseURL, cfg.Collection)
	case config.StoreQdrant:
		return NewQdrant(cfg.QdrantURL, cfg.Collection)
	case config.StoreMemory:
		return NewMemory(), nil
	default:
		return nil, domain.NewConfigError("VECTOR_STORE", "unsupported backend "+cfg.StoreBackend)
	}
}
