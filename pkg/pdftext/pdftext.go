// Package pdftext extracts page-segmented plain text from PDF files.
package pdftext

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/LeitorAI/leitor-mvp/engine/domain"
)

// ExtractPages reads the PDF at path and returns one Document per page
// that carries any text. Pages are numbered from 1. Blank pages are
// skipped rather than reported as errors.
func ExtractPages(path string) ([]domain.Document, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdftext: open %s: %w", path, err)
	}
	defer f.Close()

	source := filepath.Base(path)
	var docs []domain.Document
	for n := 1; n <= rdr.NumPage(); n++ {
		page := rdr.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("pdftext: page %d of %s: %w", n, source, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, domain.Document{Source: source, Page: n, Content: text})
	}
	return docs, nil
}
