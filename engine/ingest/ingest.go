// Package ingest runs the ingestion pipeline: load a PDF, chunk its
// pages, embed the chunks in batches, and append the records to the
// semantic store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/LeitorAI/leitor-mvp/engine/chunker"
	"github.com/LeitorAI/leitor-mvp/engine/domain"
	"github.com/LeitorAI/leitor-mvp/engine/semantic"
	"github.com/LeitorAI/leitor-mvp/pkg/fn"
)

const (
	// EmbedBatchSize is the max texts per embedding request.
	EmbedBatchSize = 100
	// EmbedWorkers bounds how many embedding batches run concurrently.
	EmbedWorkers = 4
)

// Loader extracts page-segmented text from a file.
type Loader func(path string) ([]domain.Document, error)

// Embedder is the slice of the provider the pipeline needs.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Adder is the slice of the semantic store the pipeline needs.
type Adder interface {
	Add(ctx context.Context, records []semantic.Record) error
}

// Deps holds the external collaborators of the pipeline.
type Deps struct {
	Loader   Loader
	Splitter *chunker.Splitter
	Embedder Embedder
	Store    Adder
	Logger   *slog.Logger
}

// Pipeline is the ingestion pipeline. Stateless between runs.
type Pipeline struct {
	deps Deps
}

// New creates a Pipeline. A nil logger falls back to slog.Default.
func New(deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Pipeline{deps: deps}
}

// Run ingests the file at path and returns a summary of what was stored.
// Records get fresh random IDs, so re-running the same file appends
// duplicate content instead of replacing it.
func (p *Pipeline) Run(ctx context.Context, path string) (Summary, error) {
	pipeline := fn.Then(fn.Then(fn.Then(
		fn.TracedStage("ingest.load", p.load()),
		fn.TracedStage("ingest.chunk", p.chunk())),
		fn.TracedStage("ingest.embed", p.embed())),
		fn.TracedStage("ingest.store", p.store()))

	summary, err := pipeline(ctx, path).Unwrap()
	if err != nil {
		p.deps.Logger.Error("ingestion failed", "path", path, "err", err)
		return Summary{}, err
	}
	p.deps.Logger.Info("ingestion done",
		"source", summary.Source, "pages", summary.Pages, "chunks", summary.Chunks)
	return summary, nil
}

func (p *Pipeline) load() fn.Stage[string, LoadedDoc] {
	return func(_ context.Context, path string) fn.Result[LoadedDoc] {
		pages, err := p.deps.Loader(path)
		if err != nil {
			return fn.Err[LoadedDoc](fmt.Errorf("ingest: load %s: %w", path, err))
		}
		return fn.Ok(LoadedDoc{Path: path, Pages: pages})
	}
}

func (p *Pipeline) chunk() fn.Stage[LoadedDoc, ChunkedDoc] {
	return fn.MapStage(func(doc LoadedDoc) ChunkedDoc {
		return ChunkedDoc{LoadedDoc: doc, Chunks: p.deps.Splitter.ChunkDocuments(doc.Pages)}
	})
}

func (p *Pipeline) embed() fn.Stage[ChunkedDoc, EmbeddedDoc] {
	embedBatch := fn.RetryStage(fn.DefaultRetry,
		fn.Stage[[]domain.Chunk, [][]float32](func(ctx context.Context, chunks []domain.Chunk) fn.Result[[][]float32] {
			texts := fn.Map(chunks, func(c domain.Chunk) string { return c.Text })
			return fn.FromPair(p.deps.Embedder.EmbedBatch(ctx, texts))
		}))
	batches := fn.BatchStage(EmbedWorkers, embedBatch)

	return func(ctx context.Context, doc ChunkedDoc) fn.Result[EmbeddedDoc] {
		if len(doc.Chunks) == 0 {
			return fn.Ok(EmbeddedDoc{ChunkedDoc: doc})
		}
		nested, err := batches(ctx, fn.Chunk(doc.Chunks, EmbedBatchSize)).Unwrap()
		if err != nil {
			return fn.Err[EmbeddedDoc](fmt.Errorf("ingest: embed: %w", err))
		}
		vectors := fn.Flatten(nested)
		if len(vectors) != len(doc.Chunks) {
			return fn.Err[EmbeddedDoc](fmt.Errorf("ingest: embed: got %d vectors for %d chunks",
				len(vectors), len(doc.Chunks)))
		}

		records := make([]semantic.Record, len(doc.Chunks))
		for i, c := range doc.Chunks {
			records[i] = semantic.Record{ID: uuid.NewString(), Chunk: c, Embedding: vectors[i]}
		}
		return fn.Ok(EmbeddedDoc{ChunkedDoc: doc, Records: records})
	}
}

func (p *Pipeline) store() fn.Stage[EmbeddedDoc, Summary] {
	return func(ctx context.Context, doc EmbeddedDoc) fn.Result[Summary] {
		if len(doc.Records) > 0 {
			if err := p.deps.Store.Add(ctx, doc.Records); err != nil {
				return fn.Err[Summary](fmt.Errorf("ingest: store: %w", err))
			}
		}
		source := doc.Path
		if len(doc.Pages) > 0 {
			source = doc.Pages[0].Source
		}
		return fn.Ok(Summary{Source: source, Pages: len(doc.Pages), Chunks: len(doc.Records)})
	}
}
