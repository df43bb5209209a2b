package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaProvider calls a local Ollama runner via its flat generate API.
type OllamaProvider struct {
	url        string
	httpClient *http.Client
}

// NewOllamaProvider creates an Ollama provider for the given generate URL.
func NewOllamaProvider(url string, httpClient *http.Client) *OllamaProvider {
	return &OllamaProvider{url: url, httpClient: httpClient}
}

var _ Provider = (*OllamaProvider)(nil)

type ollamaGenerateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Stream bool     `json:"stream"`
	Images []string `json:"images,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// Generate flattens the system and user prompts into Ollama's single prompt
// field and issues one non-streaming call.
func (p *OllamaProvider) Generate(ctx context.Context, req Request) (string, string, error) {
	prompt := fmt.Sprintf("%s\n\nUser:\n%s\n", req.System, strings.TrimSpace(req.Prompt))

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  req.Model,
		Prompt: prompt,
		Stream: false,
		Images: req.Images,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("%w: ollama returned status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var data ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", "", fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
	}

	model := data.Model
	if model == "" {
		model = req.Model
	}
	return model, strings.TrimSpace(data.Response), nil
}
