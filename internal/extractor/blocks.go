package extractor

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// Blocks extracts pre-classified heading/paragraph blocks from a
// FamilyBlocks file. These formats carry explicit structure, so heading
// detection comes from markup rather than text-shape heuristics; the
// result feeds section grouping directly.
func Blocks(r io.Reader, filename string) ([]document.Block, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".md", ".markdown":
		return markdownBlocks(r)
	case ".html", ".htm":
		return htmlBlocks(r)
	case ".docx":
		return docxBlocks(r)
	default:
		return nil, fmt.Errorf("no block extractor for %q", ext)
	}
}

// FlattenBlocks joins block texts with blank lines, for the raw-text
// artifact that accompanies styled-block documents.
func FlattenBlocks(blocks []document.Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	return sb.String()
}
