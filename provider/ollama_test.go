package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient() *http.Client {
	return newHTTPClient(time.Second, 5*time.Second)
}

func TestOllamaGenerate(t *testing.T) {
	var gotBody ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"llama3.1:8b","response":"  Answer: 4  ","done":true}`)
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, testClient())
	model, text, err := p.Generate(context.Background(), Request{
		System: "be brief",
		Prompt: "what is 2+2",
		Model:  "llama3.1:8b",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if model != "llama3.1:8b" || text != "Answer: 4" {
		t.Fatalf("unexpected result: %q %q", model, text)
	}
	if gotBody.Stream {
		t.Fatalf("stream must be disabled")
	}
	if !strings.Contains(gotBody.Prompt, "be brief") || !strings.Contains(gotBody.Prompt, "User:\nwhat is 2+2") {
		t.Fatalf("unexpected flattened prompt: %q", gotBody.Prompt)
	}
}

func TestOllamaGenerateCarriesImages(t *testing.T) {
	var gotBody ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"model":"llava:13b","response":"a cat"}`)
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, testClient())
	_, _, err := p.Generate(context.Background(), Request{
		System: "describe",
		Prompt: "what is in the image",
		Images: []string{"aGVsbG8="},
		Model:  "llava:13b",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(gotBody.Images) != 1 || gotBody.Images[0] != "aGVsbG8=" {
		t.Fatalf("unexpected images payload: %v", gotBody.Images)
	}
}

func TestOllamaGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "model not loaded")
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, testClient())
	_, _, err := p.Generate(context.Background(), Request{Prompt: "hi", Model: "m"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestOllamaGenerateConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	p := NewOllamaProvider(server.URL, testClient())
	_, _, err := p.Generate(context.Background(), Request{Prompt: "hi", Model: "m"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestOllamaGenerateFallsBackToRequestedModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":"ok"}`)
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, testClient())
	model, _, err := p.Generate(context.Background(), Request{Prompt: "hi", Model: "fallback"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if model != "fallback" {
		t.Fatalf("expected requested model echoed back, got %q", model)
	}
}
