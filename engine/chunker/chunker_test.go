package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

func TestNew_RejectsBadParams(t *testing.T) {
	cases := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap above size", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.size, tc.overlap)
			if err == nil {
				t.Fatalf("expected error for size=%d overlap=%d", tc.size, tc.overlap)
			}
			if !errors.Is(err, domain.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	s, _ := New(1000, 150)
	if got := s.Split(""); got != nil {
		t.Fatalf("expected no chunks for empty document, got %d", len(got))
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s, _ := New(1000, 150)
	text := "um parágrafo curto que cabe inteiro"
	got := s.Split(text)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(got))
	}
	if got[0] != text {
		t.Errorf("chunk altered the text: %q", got[0])
	}
}

// reassemble strips the leading overlap from every chunk after the first.
func reassemble(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		rs := []rune(c)
		if i == 0 {
			b.WriteString(c)
			continue
		}
		b.WriteString(string(rs[overlap:]))
	}
	return b.String()
}

func TestSplit_ReconstructsOriginal(t *testing.T) {
	texts := []string{
		strings.Repeat("a", 5000),
		strings.Repeat("palavra ", 700),
		strings.Repeat("linha um\nlinha dois\n", 200),
		strings.Repeat("parágrafo com acentuação e çedilha.\n\n", 100),
	}
	for _, size := range []int{100, 1000} {
		overlap := size / 10
		s, err := New(size, overlap)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for _, text := range texts {
			chunks := s.Split(text)
			if got := reassemble(chunks, overlap); got != text {
				t.Fatalf("size=%d: reconstruction mismatch (got %d runes, want %d)",
					size, len([]rune(got)), len([]rune(text)))
			}
		}
	}
}

func TestSplit_SizeBoundAndExactOverlap(t *testing.T) {
	const size, overlap = 120, 30
	s, _ := New(size, overlap)
	text := strings.Repeat("o faturamento cresceu no trimestre. ", 100)

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > size {
			t.Errorf("chunk %d has %d runes, limit %d", i, n, size)
		}
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		tail := string(prev[len(prev)-overlap:])
		head := string(cur[:overlap])
		if tail != head {
			t.Fatalf("chunks %d/%d overlap mismatch: %q vs %q", i-1, i, tail, head)
		}
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	s, _ := New(100, 10)
	// Paragraph break at rune 60, line break at 80, spaces throughout.
	text := strings.Repeat("x", 59) + "\n\n" + strings.Repeat("y", 19) + "\n" + strings.Repeat("z w", 40)
	chunks := s.Split(text)
	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("expected first cut at the paragraph break, got chunk ending %q", tailOf(chunks[0]))
	}
}

func TestSplit_FallsBackToLineThenSpace(t *testing.T) {
	s, _ := New(50, 5)

	noParagraphs := strings.Repeat("abc def\n", 30)
	chunks := s.Split(noParagraphs)
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Errorf("expected line-break cut, got chunk ending %q", tailOf(chunks[0]))
	}

	noLines := strings.Repeat("abc def ", 30)
	chunks = s.Split(noLines)
	if !strings.HasSuffix(chunks[0], " ") {
		t.Errorf("expected space cut, got chunk ending %q", tailOf(chunks[0]))
	}
}

func TestSplit_HardCutWithoutSeparators(t *testing.T) {
	const size, overlap = 40, 8
	s, _ := New(size, overlap)
	text := strings.Repeat("Ç", 200)
	chunks := s.Split(text)
	for i, c := range chunks[:len(chunks)-1] {
		if n := len([]rune(c)); n != size {
			t.Errorf("chunk %d: expected hard cut at %d runes, got %d", i, size, n)
		}
	}
	if got := reassemble(chunks, overlap); got != text {
		t.Fatal("hard-cut reconstruction mismatch")
	}
}

func TestChunkDocuments_IndexesAndMetadata(t *testing.T) {
	s, _ := New(50, 10)
	docs := []domain.Document{
		{Source: "relatorio.pdf", Page: 1, Content: strings.Repeat("a b ", 40)},
		{Source: "relatorio.pdf", Page: 2, Content: "página curta"},
	}
	chunks := s.ChunkDocuments(docs)
	if len(chunks) < 3 {
		t.Fatalf("expected chunks from both pages, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: index %d", i, c.Index)
		}
		if c.Source != "relatorio.pdf" {
			t.Errorf("chunk %d: source %q", i, c.Source)
		}
	}
	last := chunks[len(chunks)-1]
	if last.Page != 2 || last.Text != "página curta" {
		t.Errorf("unexpected final chunk: %+v", last)
	}
}

func tailOf(s string) string {
	rs := []rune(s)
	if len(rs) <= 10 {
		return s
	}
	return string(rs[len(rs)-10:])
}
