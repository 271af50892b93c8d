package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// markdownBlocks flattens a Markdown document into classified blocks
// using the goldmark AST: heading nodes of any level become heading
// blocks, everything else contributes paragraph text.
func markdownBlocks(r io.Reader) ([]document.Block, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []document.Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(node.Text(src)))
			if title != "" {
				blocks = append(blocks, document.Block{Kind: document.Heading, Text: title})
			}
		default:
			if t := markdownText(n, src); t != "" {
				blocks = append(blocks, document.Block{Kind: document.Paragraph, Text: t})
			}
		}
	}
	return blocks, nil
}

// markdownText gets the source text of a goldmark AST node: block nodes
// report their own source lines, container nodes (lists, quotes) are
// assembled from their children.
func markdownText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		var buf strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}

	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := markdownText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
