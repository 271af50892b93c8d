// Package document defines the value types that flow through the
// vectorization pipeline: classified blocks, reconstructed sections, and
// embedding-ready chunks. All types are plain data with no back-references;
// once emitted they are never mutated.
package document

// BlockKind classifies a reconstructed text block.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
)

func (k BlockKind) String() string {
	switch k {
	case Heading:
		return "heading"
	default:
		return "paragraph"
	}
}

// Block is the intermediate classification unit produced while
// reconstructing a document: either a section heading or body text.
type Block struct {
	Kind BlockKind
	Text string
}

// Section is one reconstructed document section: a title plus its
// paragraphs in source order. Title is never empty; content appearing
// before the first heading is grouped under "Introduction".
type Section struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}

// Chunk is a token-budgeted, paragraph-aligned span of exactly one
// section's text, ready for embedding. ChunkID is 0-based and strictly
// increasing across the whole document.
type Chunk struct {
	ChunkID int    `json:"chunk_id"`
	Section string `json:"section"`
	Text    string `json:"text"`
}

// SourceBlock is a flattened record extracted from structured inputs
// (JSON, CSV, Excel). These are persisted as JSONL and are not routed
// through the reconstruction or chunking passes.
type SourceBlock struct {
	SourceFile string `json:"source_file"`
	SourceType string `json:"source_type"`
	BlockID    int    `json:"block_id"`
	Text       string `json:"text"`
}
