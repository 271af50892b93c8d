package extractor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestJSONRecords_FlattensNestedStructure(t *testing.T) {
	input := `{
  "title": "Report",
  "meta": {"author": "Ada", "year": 2024},
  "tags": ["alpha", "beta"],
  "published": true,
  "score": 9.5,
  "note": null
}`
	blocks, err := Records(strings.NewReader(input), "report.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}

	b := blocks[0]
	if b.SourceFile != "report.json" || b.SourceType != "json" || b.BlockID != 0 {
		t.Errorf("unexpected block metadata: %+v", b)
	}

	want := strings.Join([]string{
		"title: Report",
		"meta.author: Ada",
		"meta.year: 2024",
		"tags.0: alpha",
		"tags.1: beta",
		"published: true",
		"score: 9.5",
		"note: null",
	}, "\n")
	if b.Text != want {
		t.Errorf("expected text:\n%s\ngot:\n%s", want, b.Text)
	}
}

func TestJSONRecords_TopLevelArray(t *testing.T) {
	blocks, err := Records(strings.NewReader(`[{"a": 1}, {"a": 2}]`), "list.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "0.a: 1\n1.a: 2"
	if blocks[0].Text != want {
		t.Errorf("expected %q, got %q", want, blocks[0].Text)
	}
}

func TestJSONRecords_InvalidJSON(t *testing.T) {
	if _, err := Records(strings.NewReader(`{"a": `), "broken.json"); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if _, err := Records(strings.NewReader(`{} trailing`), "trail.json"); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestCSVRecords_RowBlocks(t *testing.T) {
	input := "name,role\nAda,engineer\n,\nGrace,admiral\n"
	blocks, err := Records(strings.NewReader(input), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks (blank row skipped), got %d", len(blocks))
	}

	// Row numbers count the header as row 1 and skip nothing.
	if got, want := blocks[0].Text, "Row 2 of people.csv\nname: Ada\nrole: engineer"; got != want {
		t.Errorf("block[0]: expected %q, got %q", want, got)
	}
	if got, want := blocks[1].Text, "Row 4 of people.csv\nname: Grace\nrole: admiral"; got != want {
		t.Errorf("block[1]: expected %q, got %q", want, got)
	}
	if blocks[0].BlockID != 0 || blocks[1].BlockID != 1 {
		t.Errorf("expected contiguous block ids, got %d and %d", blocks[0].BlockID, blocks[1].BlockID)
	}
	if blocks[0].SourceType != "csv" {
		t.Errorf("expected source type csv, got %q", blocks[0].SourceType)
	}
}

func TestCSVRecords_EmptyHeaderName(t *testing.T) {
	input := "name,\nAda,41\n"
	blocks, err := Records(strings.NewReader(input), "cols.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Row 2 of cols.csv\nname: Ada\ncolumn: 41"; blocks[0].Text != want {
		t.Errorf("expected %q, got %q", want, blocks[0].Text)
	}
}

func TestCSVRecords_EmptyFile(t *testing.T) {
	blocks, err := Records(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("expected 0 blocks, got %d", len(blocks))
	}
}

func TestExcelRecords_SheetRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	for cell, value := range map[string]string{
		"A1": "name", "B1": "role",
		"A2": "Ada", "B2": "engineer",
		"A3": "Grace", "B3": "admiral",
	} {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatalf("set cell %s: %v", cell, err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	blocks, err := Records(&buf, "staff.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if got, want := blocks[0].Text, "Sheet Sheet1, Row 2 of staff.xlsx\nname: Ada\nrole: engineer"; got != want {
		t.Errorf("block[0]: expected %q, got %q", want, got)
	}
	if blocks[1].SourceType != "excel" || blocks[1].BlockID != 1 {
		t.Errorf("unexpected block metadata: %+v", blocks[1])
	}
}

func TestRecords_UnsupportedExtension(t *testing.T) {
	if _, err := Records(strings.NewReader("x"), "doc.pdf"); err == nil {
		t.Fatal("expected error for non-tabular extension")
	}
}
