// Package reconstruct repairs raw extracted document text into ordered
// sections. Upstream PDF text extraction produces layout-mangled output:
// sentences broken by soft line wraps, headings indistinguishable from
// body text. This package normalizes line endings, re-merges wrapped
// lines, detects headings by text shape, and groups paragraphs under
// their section titles.
//
// Everything here is a pure, deterministic transformation over its
// input. Malformed text never fails: the worst case is a single
// catch-all section, and empty input yields no sections at all.
package reconstruct

import (
	"iter"
	"slices"
	"strings"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// DefaultTitle is assigned to content that appears before the first
// detected heading.
const DefaultTitle = "Introduction"

// Sections runs the full reconstruction pass over raw extracted text
// and returns the document's ordered sections. An empty or
// whitespace-only input yields an empty slice.
func Sections(raw string) []document.Section {
	return Group(ClassifyBlocks(raw))
}

// ClassifyBlocks normalizes and splits raw text into flattened candidate
// blocks, tagging each as a heading or a paragraph. A heading-shaped
// block is only promoted when it has content both before and after it
// in the candidate sequence; a short opening or closing line stays a
// paragraph rather than being misread as a title.
func ClassifyBlocks(raw string) []document.Block {
	blocks := SplitBlocks(NormalizeNewlines(raw))

	typed := make([]document.Block, 0, len(blocks))
	for i, block := range blocks {
		text := MergeSoftLines(block)
		if text == "" {
			continue
		}
		kind := document.Paragraph
		if LooksLikeHeading(text) && i > 0 && i < len(blocks)-1 {
			kind = document.Heading
		}
		typed = append(typed, document.Block{Kind: kind, Text: text})
	}
	return typed
}

// Group folds classified blocks into sections in order.
func Group(blocks []document.Block) []document.Section {
	return GroupSeq(slices.Values(blocks))
}

// GroupSeq is the streaming form of Group for callers that produce
// blocks incrementally: styled-block extractors (Markdown, HTML, DOCX)
// and very large documents that should not be materialized up front.
//
// A heading closes the current section if it has accumulated any
// paragraphs, then becomes the new title; consecutive headings simply
// replace one another. Content before the first heading falls under
// DefaultTitle, and a trailing section is emitted after the last block.
func GroupSeq(blocks iter.Seq[document.Block]) []document.Section {
	var sections []document.Section

	title := DefaultTitle
	var paragraphs []string

	for block := range blocks {
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}
		if block.Kind == document.Heading {
			if len(paragraphs) > 0 {
				sections = append(sections, document.Section{Title: title, Paragraphs: paragraphs})
				paragraphs = nil
			}
			title = text
			continue
		}
		paragraphs = append(paragraphs, text)
	}

	if len(paragraphs) > 0 {
		sections = append(sections, document.Section{Title: title, Paragraphs: paragraphs})
	}
	return sections
}
