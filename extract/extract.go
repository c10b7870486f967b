package extract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mbellot/veracite/core/pipeline"
)

// ExtractionError reports a document page whose raw text could not be read.
// It is surfaced to the caller per document and never retried here.
type ExtractionError struct {
	Path string
	Page int
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extraction failed for %v page %d: %v", e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("extraction failed for %v: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ExtractFile reads a document from disk and returns one raw text per
// physical page. PDFs are read per page, everything else is treated as
// plain text.
func ExtractFile(path string) ([]pipeline.Page, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ExtractPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	return ExtractText(string(data)), nil
}

// ExtractPDF extracts the text of every page of a PDF file. Page numbering
// follows the physical page order starting at 1; pages with no extractable
// text are skipped without disturbing that numbering.
func ExtractPDF(path string) ([]pipeline.Page, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	defer func() {
		_ = file.Close()
	}()

	return readPages(reader, path)
}

// ExtractPDFBytes extracts per-page text from an in-memory PDF
func ExtractPDFBytes(data []byte, name string) ([]pipeline.Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Path: name, Err: err}
	}

	return readPages(reader, name)
}

func readPages(reader *pdf.Reader, path string) ([]pipeline.Page, error) {
	var pages []pipeline.Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, &ExtractionError{Path: path, Page: i, Err: err}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, pipeline.Page{Text: text, Physical: i})
	}

	return pages, nil
}

// ExtractText treats plain text as a page sequence separated by form feeds.
// Text without form feeds is a single page.
func ExtractText(text string) []pipeline.Page {
	var pages []pipeline.Page
	for i, pageText := range strings.Split(text, "\f") {
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, pipeline.Page{Text: pageText, Physical: i + 1})
	}
	return pages
}
