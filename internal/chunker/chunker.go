// Package chunker converts reconstructed sections into token-budgeted,
// paragraph-aligned chunks for embedding. Chunking happens only at
// paragraph boundaries: a paragraph is atomic and is never split, a
// chunk never spans two sections, and consecutive chunks of the same
// section share trailing paragraphs as overlap for retrieval context.
package chunker

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// ErrInvalidParameter reports chunking parameters that fail validation.
// It is returned before any section is processed.
var ErrInvalidParameter = errors.New("invalid chunking parameter")

const (
	DefaultTargetTokens = 400
	DefaultOverlapRatio = 0.15

	// untitledSection labels chunks of a section that somehow arrived
	// with an empty title.
	untitledSection = "Untitled"
)

// Chunker splits sections into chunks near a token budget. It holds
// only configuration and is safe for concurrent use.
type Chunker struct {
	targetTokens  int
	overlapBudget int
}

// New validates the parameters and returns a configured Chunker. The
// overlap budget is floor(targetTokens * overlapRatio) tokens of
// trailing paragraphs carried from each flushed chunk into the next
// chunk of the same section.
func New(targetTokens int, overlapRatio float64) (*Chunker, error) {
	if targetTokens <= 0 {
		return nil, fmt.Errorf("%w: target_tokens must be positive, got %d", ErrInvalidParameter, targetTokens)
	}
	if overlapRatio < 0 || overlapRatio >= 1 {
		return nil, fmt.Errorf("%w: overlap_ratio must be in [0, 1), got %v", ErrInvalidParameter, overlapRatio)
	}
	return &Chunker{
		targetTokens:  targetTokens,
		overlapBudget: int(float64(targetTokens) * overlapRatio),
	}, nil
}

// CountTokens approximates token count as the number of
// whitespace-delimited fields. This is intentionally cheap; the
// downstream embedding budget is approximate anyway.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}

// Chunk produces chunks for all sections in order. Chunk IDs are
// 0-based and strictly increasing across the whole document.
func (c *Chunker) Chunk(sections []document.Section) []document.Chunk {
	chunks := slices.Collect(c.ChunkSeq(slices.Values(sections)))
	if chunks == nil {
		chunks = []document.Chunk{}
	}
	return chunks
}

// ChunkSeq streams chunks from a lazily produced sequence of sections,
// for documents too large to materialize. Semantics are identical to
// Chunk: each section is accumulated paragraph by paragraph, and the
// accumulator is flushed before a paragraph that would push it past
// the token budget. A single paragraph larger than the budget still
// becomes its own chunk; overlap never crosses a section boundary.
func (c *Chunker) ChunkSeq(sections iter.Seq[document.Section]) iter.Seq[document.Chunk] {
	return func(yield func(document.Chunk) bool) {
		nextID := 0
		for section := range sections {
			title := section.Title
			if title == "" {
				title = untitledSection
			}

			var acc []string
			accTokens := 0

			for _, para := range section.Paragraphs {
				para = strings.TrimSpace(para)
				if para == "" {
					continue
				}
				tokens := CountTokens(para)
				if accTokens+tokens > c.targetTokens && len(acc) > 0 {
					if !yield(makeChunk(nextID, title, acc)) {
						return
					}
					nextID++
					acc, accTokens = c.carryOver(acc)
				}
				acc = append(acc, para)
				accTokens += tokens
			}

			if len(acc) > 0 {
				if !yield(makeChunk(nextID, title, acc)) {
					return
				}
				nextID++
			}
		}
	}
}

// makeChunk joins accumulated paragraphs with a blank line.
func makeChunk(id int, title string, paragraphs []string) document.Chunk {
	return document.Chunk{
		ChunkID: id,
		Section: title,
		Text:    strings.TrimSpace(strings.Join(paragraphs, "\n\n")),
	}
}

// carryOver selects the overlap for the next chunk: the minimal run of
// trailing whole paragraphs whose combined token count reaches the
// overlap budget, including the paragraph that crosses it. A zero
// budget resets the accumulator entirely.
func (c *Chunker) carryOver(flushed []string) ([]string, int) {
	if c.overlapBudget <= 0 {
		return nil, 0
	}
	start := len(flushed)
	kept := 0
	for start > 0 && kept < c.overlapBudget {
		start--
		kept += CountTokens(flushed[start])
	}
	return slices.Clone(flushed[start:]), kept
}
