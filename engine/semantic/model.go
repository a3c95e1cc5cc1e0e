package semantic

import "github.com/LeitorAI/leitor-mvp/engine/domain"

// Record is one (chunk, vector) pair persisted in the store.
type Record struct {
	ID        string
	Chunk     domain.Chunk
	Embedding []float32
}

// SearchResult is one retrieval hit. Results are ordered by descending
// similarity; ties keep insertion order.
type SearchResult struct {
	Chunk domain.Chunk
	Score float32
}
