// Package vecstore persists embedding vectors to a Supabase
// (PostgREST + pgvector) table and runs similarity queries against it.
package vecstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const embeddingsTable = "document_embeddings"

// Client communicates with the Supabase REST API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient validates the Supabase credentials and builds a client.
func NewClient(baseURL, serviceKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	serviceKey = strings.TrimSpace(serviceKey)
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is missing or empty")
	}
	if serviceKey == "" {
		return nil, fmt.Errorf("supabase service key is missing or empty")
	}
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Record is one embedded chunk row. The embedding serializes as a JSON
// array, which PostgREST maps onto the pgvector column.
type Record struct {
	FileID    string    `json:"file_id"`
	ChunkID   int       `json:"chunk_id"`
	Section   string    `json:"section"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// UpsertEmbeddings writes records to the embeddings table, merging on
// duplicates. Records without a vector are skipped; an empty batch is a
// no-op.
func (c *Client) UpsertEmbeddings(ctx context.Context, records []Record) error {
	rows := make([]Record, 0, len(records))
	for _, rec := range records {
		if len(rec.Embedding) == 0 {
			continue
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal embeddings: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/"+embeddingsTable, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("upsert embeddings: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upsert embeddings: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// Match is one similarity search hit.
type Match struct {
	FileID     string  `json:"file_id"`
	ChunkID    int     `json:"chunk_id"`
	Section    string  `json:"section"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// Search calls the match_document_embeddings SQL function with a query
// vector and returns the closest chunks.
func (c *Client) Search(ctx context.Context, embedding []float32, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 5
	}
	reqBody := struct {
		QueryEmbedding []float32 `json:"query_embedding"`
		MatchCount     int       `json:"match_count"`
	}{
		QueryEmbedding: embedding,
		MatchCount:     limit,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/rpc/match_document_embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search embeddings: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search embeddings: status %d: %s", resp.StatusCode, string(respBody))
	}

	var matches []Match
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return matches, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
