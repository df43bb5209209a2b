// Package provider abstracts the model-serving backends behind a single
// Generate contract. Two variants exist: the local Ollama runner and any
// OpenAI-compatible chat-completions endpoint.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/TripCu/ai-hotkey/config"
)

// ErrUpstream marks transport or HTTP failures talking to a provider. The
// orchestrator surfaces it as a gateway failure and never retries.
var ErrUpstream = errors.New("upstream unavailable")

// Request is a provider-agnostic generation request. Images are
// base64-encoded payloads; providers that cannot carry them reject the
// request upstream.
type Request struct {
	System string
	Prompt string
	Images []string
	Model  string
}

// Provider turns a prompt into generated text.
type Provider interface {
	// Generate returns the model name reported by the backend and the
	// response text.
	Generate(ctx context.Context, req Request) (model string, text string, err error)
}

// New selects the provider variant from configuration. Adding a variant
// means adding a case here, not touching the orchestrator.
func New(cfg *config.Config) (Provider, error) {
	client := newHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout)
	switch cfg.AIBackend {
	case config.BackendOllama:
		return NewOllamaProvider(cfg.OllamaURL, client), nil
	case config.BackendOpenAICompatible:
		return NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, client), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", cfg.AIBackend)
	}
}

// newHTTPClient bounds the connect phase separately from the overall call so
// a slow model can still stream out a response without the dial hanging
// forever.
func newHTTPClient(connectTimeout, readTimeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: readTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}
}
