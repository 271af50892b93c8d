package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// excelRecords turns each data row of an Excel workbook into one source
// block. Sheets are processed in order; the first non-empty row of each
// sheet is its header, and every later non-empty row becomes a block
// naming the sheet, the 1-based row number, and the column values.
func excelRecords(r io.Reader, filename string) ([]document.SourceBlock, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var blocks []document.SourceBlock
	blockID := 0

	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		header, headerRow := excelHeader(rows)
		if header == nil {
			continue
		}

		for i := headerRow; i < len(rows); i++ {
			row := rows[i]
			if rowIsBlank(row) {
				continue
			}

			lines := []string{fmt.Sprintf("Sheet %s, Row %d of %s", sheet, i+1, filename)}
			for col, value := range row {
				if col >= len(header) {
					break
				}
				name := header[col]
				if name == "" {
					name = "column"
				}
				lines = append(lines, name+": "+strings.TrimSpace(value))
			}

			blocks = append(blocks, document.SourceBlock{
				SourceFile: filename,
				SourceType: "excel",
				BlockID:    blockID,
				Text:       strings.Join(lines, "\n"),
			})
			blockID++
		}
	}
	return blocks, nil
}

// excelHeader finds the first non-empty row and returns its trimmed
// cells plus the 0-based index of the row after it.
func excelHeader(rows [][]string) ([]string, int) {
	for i, row := range rows {
		if rowIsBlank(row) {
			continue
		}
		header := make([]string, len(row))
		for j, cell := range row {
			header[j] = strings.TrimSpace(cell)
		}
		return header, i + 1
	}
	return nil, 0
}
