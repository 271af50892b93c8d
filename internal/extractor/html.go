package extractor

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// Elements whose subtrees carry page chrome, not document content.
var htmlSkip = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
}

// Elements whose flattened text forms one paragraph block.
var htmlContent = map[string]bool{
	"p":          true,
	"li":         true,
	"td":         true,
	"blockquote": true,
}

// htmlBlocks flattens an HTML document into classified blocks: h1-h6
// become heading blocks, content elements become paragraph blocks, and
// chrome elements are skipped. The walk starts at <body> when one
// exists.
func htmlBlocks(r io.Reader) ([]document.Block, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []document.Block
	emit := func(kind document.BlockKind, n *html.Node) {
		if t := flattenText(n); t != "" {
			blocks = append(blocks, document.Block{Kind: kind, Text: t})
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case isHeadingTag(n.Data):
				emit(document.Heading, n)
				return
			case htmlSkip[n.Data]:
				return
			case htmlContent[n.Data]:
				emit(document.Paragraph, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(contentRoot(doc))
	return blocks, nil
}

// isHeadingTag matches h1 through h6.
func isHeadingTag(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// flattenText concatenates every text node under n, trimmed.
func flattenText(n *html.Node) string {
	var buf strings.Builder
	stack := []*html.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type == html.TextNode {
			buf.WriteString(cur.Data)
		}
		// Push children in reverse so they pop in document order.
		for c := cur.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return strings.TrimSpace(buf.String())
}

// contentRoot returns the <body> element when the document has one,
// otherwise the document node itself (fragments parse without a body
// in practice only for malformed input).
func contentRoot(doc *html.Node) *html.Node {
	var body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if body != nil {
		return body
	}
	return doc
}
