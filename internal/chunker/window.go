package chunker

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Window splits a raw text stream into fixed-size token windows with a
// fixed token overlap between consecutive windows. Unlike Chunker it
// ignores document structure entirely; it exists for plain-text inputs
// too large to reconstruct in memory, and reads the stream token by
// token without materializing it.
func Window(r io.Reader, sizeTokens, overlapTokens int) ([]string, error) {
	if sizeTokens <= 0 {
		return nil, fmt.Errorf("%w: size_tokens must be positive, got %d", ErrInvalidParameter, sizeTokens)
	}
	if overlapTokens < 0 {
		return nil, fmt.Errorf("%w: overlap_tokens cannot be negative, got %d", ErrInvalidParameter, overlapTokens)
	}
	if overlapTokens >= sizeTokens {
		return nil, fmt.Errorf("%w: overlap_tokens (%d) must be smaller than size_tokens (%d)", ErrInvalidParameter, overlapTokens, sizeTokens)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	var windows []string
	tokens := make([]string, 0, sizeTokens)

	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
		if len(tokens) >= sizeTokens {
			windows = append(windows, strings.Join(tokens, " "))
			if overlapTokens > 0 {
				tokens = slices.Clone(tokens[len(tokens)-overlapTokens:])
			} else {
				tokens = tokens[:0]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan tokens: %w", err)
	}

	if len(tokens) > 0 {
		windows = append(windows, strings.Join(tokens, " "))
	}
	return windows, nil
}
