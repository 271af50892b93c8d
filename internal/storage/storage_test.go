package storage

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	s, err := New(t.TempDir(), maxBytes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSafeFileID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Annual Report 2024", "Annual_Report_2024"},
		{"notes#final!!", "notes_final"},
		{"__already__safe__", "already_safe"},
		{"résumé", "r_sum"},
		{"ok-name_1", "ok-name_1"},
	}
	for _, tt := range tests {
		if got := SafeFileID(tt.in); got != tt.want {
			t.Errorf("SafeFileID(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestSafeFileID_EmptyFallsBackToRandom(t *testing.T) {
	got := SafeFileID("###")
	if got == "" {
		t.Fatal("expected non-empty fallback ID")
	}
	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(got) {
		t.Errorf("expected 32 hex chars, got %q", got)
	}
}

func TestSaveUpload_GeneratesUniqueIDs(t *testing.T) {
	s := newTestStore(t, 1<<20)

	id1, path1, err := s.SaveUpload(strings.NewReader("hello"), "Report Final.pdf")
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}
	id2, _, err := s.SaveUpload(strings.NewReader("hello"), "Report Final.pdf")
	if err != nil {
		t.Fatalf("SaveUpload: %v", err)
	}

	if !strings.HasPrefix(id1, "Report_Final_") {
		t.Errorf("expected sanitized stem prefix, got %q", id1)
	}
	if id1 == id2 {
		t.Errorf("expected distinct IDs for repeat uploads, got %q twice", id1)
	}
	if filepath.Ext(path1) != ".pdf" {
		t.Errorf("expected original extension kept, got %q", path1)
	}

	data, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("read upload: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected stored bytes %q, got %q", "hello", data)
	}
}

func TestSaveUpload_SizeLimit(t *testing.T) {
	s := newTestStore(t, 10)

	// Exactly at the limit passes.
	if _, _, err := s.SaveUpload(strings.NewReader("0123456789"), "ok.txt"); err != nil {
		t.Fatalf("upload at limit: %v", err)
	}

	// One byte over fails and leaves nothing behind.
	_, _, err := s.SaveUpload(strings.NewReader("0123456789x"), "big.txt")
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(s.root, "uploads"))
	if err != nil {
		t.Fatalf("read uploads dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "big_") {
			t.Errorf("oversized upload left partial file %s", e.Name())
		}
	}
}

func TestSaveSections_EmptySerializesAsArray(t *testing.T) {
	s := newTestStore(t, 1<<20)
	if err := s.SaveSections("doc_1", nil); err != nil {
		t.Fatalf("SaveSections: %v", err)
	}
	data, err := os.ReadFile(s.SectionsPath("doc_1"))
	if err != nil {
		t.Fatalf("read sections: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty JSON array, got %q", data)
	}
}

func TestSaveChunks_WritesBothFormats(t *testing.T) {
	s := newTestStore(t, 1<<20)
	chunks := []document.Chunk{
		{ChunkID: 0, Section: "Introduction", Text: "First chunk."},
		{ChunkID: 1, Section: "Methods", Text: "Second chunk."},
	}
	if err := s.SaveChunks("doc_1", chunks); err != nil {
		t.Fatalf("SaveChunks: %v", err)
	}

	jsonData, err := os.ReadFile(s.ChunksPath("doc_1"))
	if err != nil {
		t.Fatalf("read chunks json: %v", err)
	}
	if !strings.Contains(string(jsonData), `"chunk_id": 0`) {
		t.Errorf("expected chunk_id field in JSON, got %s", jsonData)
	}

	jsonlData, err := os.ReadFile(s.ChunksJSONLPath("doc_1"))
	if err != nil {
		t.Fatalf("read chunks jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(jsonlData), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}
}

func TestPreviewChunks(t *testing.T) {
	s := newTestStore(t, 1<<20)
	chunks := []document.Chunk{
		{ChunkID: 0, Section: "A", Text: "one"},
		{ChunkID: 1, Section: "A", Text: "two"},
		{ChunkID: 2, Section: "B", Text: "three"},
	}
	if err := s.SaveChunks("doc_1", chunks); err != nil {
		t.Fatalf("SaveChunks: %v", err)
	}

	got, err := s.PreviewChunks("doc_1", 2)
	if err != nil {
		t.Fatalf("PreviewChunks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0] != chunks[0] || got[1] != chunks[1] {
		t.Errorf("expected first two chunks in order, got %+v", got)
	}

	if _, err := s.PreviewChunks("missing", 5); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error for unknown file, got %v", err)
	}
}

func TestSaveSourceBlocks(t *testing.T) {
	s := newTestStore(t, 1<<20)
	blocks := []document.SourceBlock{
		{SourceFile: "rows.csv", SourceType: "csv", BlockID: 0, Text: "Row 2 of rows.csv\nname: Ada"},
		{SourceFile: "rows.csv", SourceType: "csv", BlockID: 1, Text: "Row 3 of rows.csv\nname: Grace"},
	}
	if err := s.SaveSourceBlocks("rows_1", blocks); err != nil {
		t.Fatalf("SaveSourceBlocks: %v", err)
	}

	jsonl, err := os.ReadFile(s.SourceBlocksPath("rows_1"))
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(jsonl), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"source_type":"csv"`) {
		t.Errorf("expected source_type field, got %s", lines[0])
	}

	raw, err := os.ReadFile(s.RawTextPath("rows_1"))
	if err != nil {
		t.Fatalf("read raw text: %v", err)
	}
	if !strings.Contains(string(raw), "name: Grace") {
		t.Errorf("expected joined text artifact, got %q", raw)
	}
}
