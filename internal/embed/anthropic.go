package embed

import (
	"context"
	"fmt"
	"net/http"
)

const defaultAnthropicModel = "claude-3-haiku-20240307"

type anthropicProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func newAnthropicProvider(apiKey, model string) *anthropicProvider {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &anthropicProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type anthropicRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type anthropicResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *anthropicProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp anthropicResponse
	err := postJSON(ctx, p.httpClient, "https://api.anthropic.com/v1/embeddings",
		map[string]string{
			"x-api-key":         p.apiKey,
			"anthropic-version": "2023-06-01",
		},
		anthropicRequest{Model: p.model, Input: text}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("anthropic error: %s: %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding from anthropic")
	}
	return resp.Data[0].Embedding, nil
}

func (p *anthropicProvider) Name() string { return "anthropic" }

func (p *anthropicProvider) Close() {
	p.httpClient.CloseIdleConnections()
}
