package reconstruct

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeNewlines converts \r\n and bare \r line endings to \n.
// Applying it twice yields the same result as once.
func NormalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// A blank line (possibly containing only whitespace) separates paragraph
// blocks. Single newlines inside a block are soft wraps from upstream
// layout extraction.
var blockBoundary = regexp.MustCompile(`\n\s*\n`)

// SplitBlocks splits normalized text into candidate paragraph blocks.
// Blocks that are empty after trimming are dropped.
func SplitBlocks(text string) []string {
	parts := blockBoundary.Split(text, -1)
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// sentenceEnders are the terminal characters that mark a line as a
// completed sentence; a line ending in one of these never merges with
// its successor.
const sentenceEnders = ".?!:;"

// MergeSoftLines flattens one candidate block into a single paragraph
// string. Two adjacent lines merge when the first does not end in
// sentence punctuation and the second starts with a lowercase letter;
// merging continues greedily forward. Line breaks that do not qualify
// are still replaced by single spaces, so no newline survives into the
// output, and whitespace runs collapse to one space.
func MergeSoftLines(block string) string {
	lines := strings.Split(block, "\n")
	merged := make([]string, 0, len(lines))

	for idx := 0; idx < len(lines); idx++ {
		line := strings.TrimSpace(lines[idx])
		if line == "" {
			continue
		}

		for idx+1 < len(lines) {
			next := strings.TrimLeftFunc(lines[idx+1], unicode.IsSpace)
			if next == "" {
				break
			}
			last, _ := utf8.DecodeLastRuneInString(line)
			first, _ := utf8.DecodeRuneInString(next)
			if strings.ContainsRune(sentenceEnders, last) || !unicode.IsLower(first) {
				break
			}
			line = line + " " + next
			idx++
		}

		merged = append(merged, line)
	}

	joined := strings.Join(merged, " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(joined, " "))
}
