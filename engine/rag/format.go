package rag

import (
	"fmt"
	"strings"

	"github.com/LeitorAI/leitor-mvp/engine/semantic"
)

// FormatContext renders retrieval results as numbered blocks, best match
// first. An empty result set yields the no-context sentinel.
func FormatContext(results []semantic.SearchResult) string {
	if len(results) == 0 {
		return NoContextSentinel
	}
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("[%d] %s", i+1, r.Chunk.Text)
	}
	return strings.Join(parts, "\n\n")
}
