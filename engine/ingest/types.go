package ingest

import (
	"github.com/LeitorAI/leitor-mvp/engine/domain"
	"github.com/LeitorAI/leitor-mvp/engine/semantic"
)

// LoadedDoc is a source file after text extraction.
type LoadedDoc struct {
	Path  string
	Pages []domain.Document
}

// ChunkedDoc carries the loaded pages plus their chunks.
type ChunkedDoc struct {
	LoadedDoc
	Chunks []domain.Chunk
}

// EmbeddedDoc carries the chunked document plus one store record per chunk.
type EmbeddedDoc struct {
	ChunkedDoc
	Records []semantic.Record
}

// Summary reports what one ingestion run produced.
type Summary struct {
	Source string
	Pages  int
	Chunks int
}
