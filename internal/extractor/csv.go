package extractor

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// csvRecords turns each data row of a CSV file into one source block
// carrying the row number (1-based, header row counted as 1), the
// column names, and the cell values. Blank rows are skipped.
func csvRecords(r io.Reader, filename string) ([]document.SourceBlock, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	var blocks []document.SourceBlock

	blockID := 0
	for i, row := range rows[1:] {
		if rowIsBlank(row) {
			continue
		}

		lines := []string{fmt.Sprintf("Row %d of %s", i+2, filename)}
		for col, value := range row {
			if col >= len(header) {
				break
			}
			name := strings.TrimSpace(header[col])
			if name == "" {
				name = "column"
			}
			lines = append(lines, name+": "+strings.TrimSpace(value))
		}

		blocks = append(blocks, document.SourceBlock{
			SourceFile: filename,
			SourceType: "csv",
			BlockID:    blockID,
			Text:       strings.Join(lines, "\n"),
		})
		blockID++
	}
	return blocks, nil
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
