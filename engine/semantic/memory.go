package semantic

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

// Memory is a brute-force cosine similarity store. It backs tests and
// local runs where no database is available.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	records   []Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

// EnsureReady fixes the accepted vector width.
func (m *Memory) EnsureReady(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return domain.NewConfigError("dimension", "must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimension = dimension
	return nil
}

// Add appends records, rejecting vectors of the wrong width.
func (m *Memory) Add(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if len(r.Embedding) != m.dimension {
			return fmt.Errorf("memory add: %w: got %d, store holds %d",
				domain.ErrDimensionMismatch, len(r.Embedding), m.dimension)
		}
	}
	m.records = append(m.records, records...)
	return nil
}

// Search scores every record and returns the k best, ties in insertion order.
func (m *Memory) Search(_ context.Context, vector []float32, k int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(vector) != m.dimension {
		return nil, fmt.Errorf("memory search: %w: got %d, store holds %d",
			domain.ErrDimensionMismatch, len(vector), m.dimension)
	}
	results := make([]SearchResult, 0, len(m.records))
	for _, r := range m.records {
		results = append(results, SearchResult{Chunk: r.Chunk, Score: cosine(vector, r.Embedding)})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Health always succeeds.
func (m *Memory) Health(context.Context) error { return nil }

// Clear drops every record; the dimension stays configured.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
