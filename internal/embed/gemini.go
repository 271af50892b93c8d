package embed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultGeminiModel = "models/text-embedding-004"

type geminiProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func newGeminiProvider(apiKey, model string) *geminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &geminiProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type geminiRequest struct {
	Model   string `json:"model"`
	Content struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"content"`
}

type geminiResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
	Error *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *geminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	req := geminiRequest{Model: p.model}
	req.Content.Parts = []struct {
		Text string `json:"text"`
	}{{Text: text}}

	endpoint := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/%s:embedContent?key=%s",
		p.model, url.QueryEscape(p.apiKey))

	var resp geminiResponse
	if err := postJSON(ctx, p.httpClient, endpoint, nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("gemini error: %s: %s", resp.Error.Status, resp.Error.Message)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding from gemini")
	}
	return resp.Embedding.Values, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Close() {
	p.httpClient.CloseIdleConnections()
}
