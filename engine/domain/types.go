package domain

// Document is one page of text extracted from the source PDF.
// Immutable once loaded.
type Document struct {
	Source  string // path of the originating PDF
	Page    int    // 1-based page number
	Content string
}

// Chunk is a bounded contiguous segment of a Document, the atomic
// retrieval unit. Chunks are created during ingestion and never mutated;
// re-ingestion produces new chunks instead of updating old ones.
type Chunk struct {
	Text   string
	Index  int // position within the whole document, 0-based
	Source string
	Page   int
}

// DefaultCollection is the single collection name that partitions this
// system's records from anything co-located in the same store.
const DefaultCollection = "pdf_documents"
