package extractor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// docxBlocks flattens a .docx body into classified blocks: paragraphs
// carrying a Heading1..Heading6 style become heading blocks, everything
// else with text becomes a paragraph block.
func docxBlocks(r io.Reader) ([]document.Block, error) {
	doc, err := parseDocx(r)
	if err != nil {
		return nil, err
	}

	var blocks []document.Block
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := runText(para)
		if text == "" {
			continue
		}
		b := document.Block{Kind: document.Paragraph, Text: text}
		if isDocxHeading(para) {
			b.Kind = document.Heading
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// parseDocx spools the stream to a temp file because go-docx needs a
// ReadSeeker and the archive size up front.
func parseDocx(r io.Reader) (*docx.Docx, error) {
	tmp, err := os.CreateTemp("", "vectorizer-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}
	return doc, nil
}

// isDocxHeading recognizes the built-in Word heading styles in both
// spellings ("Heading1" style IDs and "heading 1" style names).
func isDocxHeading(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(para.Properties.Style.Val)
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok {
		return false
	}
	rest = strings.TrimSpace(rest)
	return len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6'
}

// runText joins the text runs of one paragraph.
func runText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
