// Package chunker splits document text into overlapping segments sized
// for embedding. Boundaries prefer paragraph breaks, then line breaks,
// then spaces, and hard-cut only when no separator fits in the window.
package chunker

import (
	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

// Separator preference, strongest first. The empty entry stands for a
// hard cut at the size limit.
var separators = [][]rune{[]rune("\n\n"), []rune("\n"), []rune(" ")}

// Splitter produces chunks of at most size runes where consecutive
// chunks share exactly overlap runes. Pure; safe for concurrent use.
type Splitter struct {
	size    int
	overlap int
}

// New validates the chunking parameters. overlap must be smaller than size
// or every window would slide backwards.
func New(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, domain.NewConfigError("chunk_size", "must be positive")
	}
	if overlap < 0 || overlap >= size {
		return nil, domain.NewConfigError("chunk_overlap", "must be non-negative and smaller than chunk_size")
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Size reports the configured maximum chunk length in runes.
func (s *Splitter) Size() int { return s.size }

// Overlap reports the configured overlap length in runes.
func (s *Splitter) Overlap() int { return s.overlap }

// Split cuts text into ordered segments. Each segment is at most size
// runes, each non-boundary pair of neighbours shares exactly overlap
// runes, and concatenating the segments with the overlaps removed
// reproduces text unchanged. Empty input yields no segments.
func (s *Splitter) Split(text string) []string {
	rs := []rune(text)
	if len(rs) == 0 {
		return nil
	}

	var out []string
	start := 0
	for {
		if len(rs)-start <= s.size {
			out = append(out, string(rs[start:]))
			return out
		}
		cut := s.cutPoint(rs, start)
		out = append(out, string(rs[start:cut]))
		start = cut - s.overlap
	}
}

// cutPoint picks where the chunk starting at start should end. It walks
// the separator preference order and takes the latest occurrence inside
// the window; the cut must land after start+overlap so the window always
// advances and the overlap invariant holds exactly.
func (s *Splitter) cutPoint(rs []rune, start int) int {
	end := start + s.size
	minCut := start + s.overlap
	for _, sep := range separators {
		if cut := lastSeparatorEnd(rs, start, end, minCut, sep); cut > 0 {
			return cut
		}
	}
	return end
}

// lastSeparatorEnd returns the largest i in (minCut, end] such that sep
// ends at i, or -1 when no such position exists.
func lastSeparatorEnd(rs []rune, start, end, minCut int, sep []rune) int {
	for i := end; i > minCut; i-- {
		j := i - len(sep)
		if j < start {
			break
		}
		if runesEqual(rs[j:i], sep) {
			return i
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ChunkDocuments splits every page and assigns document-wide indexes.
// Pages are chunked independently so the page metadata on each chunk
// stays truthful.
func (s *Splitter) ChunkDocuments(docs []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	idx := 0
	for _, d := range docs {
		for _, text := range s.Split(d.Content) {
			chunks = append(chunks, domain.Chunk{
				Text:   text,
				Index:  idx,
				Source: d.Source,
				Page:   d.Page,
			})
			idx++
		}
	}
	return chunks
}
