// Package extractor turns uploaded document bytes into the inputs the
// reconstruction and chunking passes consume. Formats fall into three
// families: raw-text producers (PDF, plain text) whose output goes
// through full reconstruction, styled-block producers (Markdown, HTML,
// DOCX) whose structure already classifies headings, and tabular
// producers (JSON, CSV, Excel) that flatten into source blocks and skip
// chunking entirely.
package extractor

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Family tells the pipeline which path a file takes.
type Family int

const (
	// FamilyText yields raw text for full reconstruction.
	FamilyText Family = iota
	// FamilyBlocks yields pre-classified heading/paragraph blocks.
	FamilyBlocks
	// FamilyTabular yields flat source blocks, persisted as JSONL.
	FamilyTabular
)

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".json":     true,
	".csv":      true,
	".xlsx":     true,
}

// IsSupportedExtension checks if a filename's extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// FamilyFor returns the extraction family for a filename.
func FamilyFor(filename string) (Family, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf", ".txt":
		return FamilyText, nil
	case ".md", ".markdown", ".html", ".htm", ".docx":
		return FamilyBlocks, nil
	case ".json", ".csv", ".xlsx":
		return FamilyTabular, nil
	default:
		return 0, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// SourceType names the format for persisted records and API responses.
func SourceType(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return "pdf"
	case ".txt":
		return "text"
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm":
		return "html"
	case ".docx":
		return "docx"
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	case ".xlsx":
		return "excel"
	default:
		return "unknown"
	}
}

// Text extracts raw linear text from a FamilyText file.
func Text(r io.Reader, filename string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return pdfText(r)
	case ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("no raw-text extractor for %q", ext)
	}
}
