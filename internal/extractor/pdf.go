package extractor

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// pdfText extracts page text from a PDF in page order. Each non-empty
// page is trimmed and terminated with a blank line so page boundaries
// read as paragraph boundaries downstream. Pages that fail to decode
// are skipped; one bad page must not sink the document.
func pdfText(r io.Reader) (string, error) {
	path, cleanup, err := spoolToFile(r, "vectorizer-pdf-*.pdf")
	if err != nil {
		return "", err
	}
	defer cleanup()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return "", nil
	}
	return strings.Join(pages, "\n\n") + "\n\n", nil
}

// spoolToFile copies a stream into a temp file and returns its path,
// for parsers that need random access.
func spoolToFile(r io.Reader, pattern string) (path string, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path = tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}
