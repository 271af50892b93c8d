package embed

import (
	"context"
	"fmt"
	"net/http"
)

const defaultOpenAIModel = "text-embedding-3-small"

type openAIProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func newOpenAIProvider(apiKey, model string) *openAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type openAIRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openAIResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *openAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp openAIResponse
	err := postJSON(ctx, p.httpClient, "https://api.openai.com/v1/embeddings",
		map[string]string{"Authorization": "Bearer " + p.apiKey},
		openAIRequest{Model: p.model, Input: text}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai error: %s: %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding from openai")
	}
	return resp.Data[0].Embedding, nil
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Close() {
	p.httpClient.CloseIdleConnections()
}
