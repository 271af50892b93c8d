package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// jsonRecords flattens an entire JSON document into dot-notation
// "path: value" lines, preserving key order as it appears in the file,
// and emits them as a single source block. Array elements are indexed
// numerically: parent.0.child, parent.1.child.
func jsonRecords(r io.Reader, filename string) ([]document.SourceBlock, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var lines []string
	if err := flattenJSON(dec, "", &lines); err != nil {
		return nil, fmt.Errorf("invalid json content: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid json content: trailing data")
	}

	return []document.SourceBlock{{
		SourceFile: filename,
		SourceType: "json",
		BlockID:    0,
		Text:       strings.Join(lines, "\n"),
	}}, nil
}

// flattenJSON consumes one JSON value from dec and appends its flattened
// "path: value" lines. Decoder tokens arrive in document order, which
// keeps object keys in their original sequence.
func flattenJSON(dec *json.Decoder, key string, lines *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		*lines = append(*lines, key+": "+jsonScalar(tok))
		return nil
	}

	switch delim {
	case '{':
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return err
			}
			name, _ := kt.(string)
			if err := flattenJSON(dec, joinKey(key, name), lines); err != nil {
				return err
			}
		}
	case '[':
		for idx := 0; dec.More(); idx++ {
			if err := flattenJSON(dec, joinKey(key, strconv.Itoa(idx)), lines); err != nil {
				return err
			}
		}
	}
	_, err = dec.Token() // closing delimiter
	return err
}

func joinKey(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func jsonScalar(tok json.Token) string {
	switch v := tok.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}
