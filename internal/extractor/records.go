package extractor

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// Records extracts flat source blocks from a FamilyTabular file. Each
// block is a self-contained "key: value" rendering of one record, ready
// to be persisted as JSONL without reconstruction or chunking.
func Records(r io.Reader, filename string) ([]document.SourceBlock, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return jsonRecords(r, filename)
	case ".csv":
		return csvRecords(r, filename)
	case ".xlsx":
		// Only OOXML workbooks; legacy .xls is not readable by excelize.
		return excelRecords(r, filename)
	default:
		return nil, fmt.Errorf("no record extractor for %q", ext)
	}
}
