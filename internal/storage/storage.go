// Package storage persists upload bytes and every pipeline artifact
// under a single data directory, keyed by file ID:
//
//	uploads/     original upload bytes
//	raw_text/    extracted linear text (.txt)
//	sections/    reconstructed sections (.json)
//	chunks/      retrieval-ready chunks (.json and .jsonl)
//	normalized/  tabular source blocks (.jsonl)
package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Theubaa/Pdf-Vectorizer/internal/document"
)

// ErrFileTooLarge is returned by SaveUpload when the stream exceeds the
// configured size limit.
var ErrFileTooLarge = errors.New("file exceeds maximum allowed size")

var (
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// SafeFileID converts an original filename stem into a URL- and
// filesystem-safe identifier. An empty result falls back to a random
// hex string so every upload gets a usable ID.
func SafeFileID(stem string) string {
	safe := unsafeChars.ReplaceAllString(stem, "_")
	safe = underscoreRuns.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return safe
}

// Store owns the artifact directory tree for one data root.
type Store struct {
	root     string
	maxBytes int64
}

// New creates the artifact directories under root.
func New(root string, maxBytes int64) (*Store, error) {
	s := &Store{root: root, maxBytes: maxBytes}
	for _, dir := range []string{s.uploadsDir(), s.rawTextDir(), s.sectionsDir(), s.chunksDir(), s.normalizedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	return s, nil
}

func (s *Store) uploadsDir() string    { return filepath.Join(s.root, "uploads") }
func (s *Store) rawTextDir() string    { return filepath.Join(s.root, "raw_text") }
func (s *Store) sectionsDir() string   { return filepath.Join(s.root, "sections") }
func (s *Store) chunksDir() string     { return filepath.Join(s.root, "chunks") }
func (s *Store) normalizedDir() string { return filepath.Join(s.root, "normalized") }

// SaveUpload streams an upload to disk, enforcing the size limit, and
// returns the generated file ID plus the stored path. The ID keeps the
// sanitized original stem and appends a short random suffix so repeat
// uploads of the same name never collide.
func (s *Store) SaveUpload(r io.Reader, filename string) (fileID, path string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	fileID = SafeFileID(stem) + "_" + suffix
	path = filepath.Join(s.uploadsDir(), fileID+ext)

	out, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	// Read one byte past the limit so exactly-at-limit uploads pass.
	n, err := io.Copy(out, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(path)
		return "", "", fmt.Errorf("write upload file: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(path)
		return "", "", ErrFileTooLarge
	}
	return fileID, path, nil
}

// SaveRawText writes the extracted linear text artifact.
func (s *Store) SaveRawText(fileID, text string) error {
	return writeFile(s.RawTextPath(fileID), []byte(text))
}

// SaveSections writes the reconstructed sections as a JSON array. An
// empty slice serializes as [], never null.
func (s *Store) SaveSections(fileID string, sections []document.Section) error {
	if sections == nil {
		sections = []document.Section{}
	}
	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	return writeFile(s.SectionsPath(fileID), data)
}

// SaveChunks writes the chunk artifact twice: a pretty JSON array for
// download and a JSONL stream for line-oriented consumers.
func (s *Store) SaveChunks(fileID string, chunks []document.Chunk) error {
	if chunks == nil {
		chunks = []document.Chunk{}
	}
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}
	if err := writeFile(s.ChunksPath(fileID), data); err != nil {
		return err
	}

	var lines strings.Builder
	for _, c := range chunks {
		line, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal chunk %d: %w", c.ChunkID, err)
		}
		lines.Write(line)
		lines.WriteByte('\n')
	}
	return writeFile(s.ChunksJSONLPath(fileID), []byte(lines.String()))
}

// SaveSourceBlocks writes tabular source blocks as JSONL, plus a plain
// text artifact joining the block texts for inspection.
func (s *Store) SaveSourceBlocks(fileID string, blocks []document.SourceBlock) error {
	var lines strings.Builder
	var texts []string
	for _, b := range blocks {
		line, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal block %d: %w", b.BlockID, err)
		}
		lines.Write(line)
		lines.WriteByte('\n')
		if t := strings.TrimSpace(b.Text); t != "" {
			texts = append(texts, t)
		}
	}
	if err := writeFile(s.SourceBlocksPath(fileID), []byte(lines.String())); err != nil {
		return err
	}
	return s.SaveRawText(fileID, strings.Join(texts, "\n\n"))
}

// RawTextPath returns the raw text artifact path for a file ID.
func (s *Store) RawTextPath(fileID string) string {
	return filepath.Join(s.rawTextDir(), fileID+".txt")
}

// SectionsPath returns the sections artifact path for a file ID.
func (s *Store) SectionsPath(fileID string) string {
	return filepath.Join(s.sectionsDir(), fileID+".json")
}

// ChunksPath returns the chunk JSON artifact path for a file ID.
func (s *Store) ChunksPath(fileID string) string {
	return filepath.Join(s.chunksDir(), fileID+".json")
}

// ChunksJSONLPath returns the chunk JSONL artifact path for a file ID.
func (s *Store) ChunksJSONLPath(fileID string) string {
	return filepath.Join(s.chunksDir(), fileID+".jsonl")
}

// SourceBlocksPath returns the normalized JSONL path for a file ID.
func (s *Store) SourceBlocksPath(fileID string) string {
	return filepath.Join(s.normalizedDir(), fileID+".jsonl")
}

// PreviewChunks reads at most limit chunks from the JSONL artifact
// without loading the whole file.
func (s *Store) PreviewChunks(fileID string, limit int) ([]document.Chunk, error) {
	f, err := os.Open(s.ChunksJSONLPath(fileID))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	chunks := []document.Chunk{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() && len(chunks) < limit {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var c document.Chunk
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("decode chunk line: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chunks: %w", err)
	}
	return chunks, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
