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
)

func TestOpenAIGenerate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"  Answer: 4  "}}]}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL+"/v1", "sk-test", testClient())
	model, text, err := p.Generate(context.Background(), Request{
		System: "be brief",
		Prompt: "what is 2+2",
		Model:  "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if model != "gpt-4o-mini" || text != "Answer: 4" {
		t.Fatalf("unexpected result: %q %q", model, text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}

	messages := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(messages))
	}
	first := messages[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "be brief" {
		t.Fatalf("unexpected system message: %v", first)
	}
}

func TestOpenAIGenerateImagesBecomeTypedParts(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"model":"gpt-4o","choices":[{"message":{"content":"a cat"}}]}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "", testClient())
	_, _, err := p.Generate(context.Background(), Request{
		System: "describe",
		Prompt: "what is in the image",
		Images: []string{"aGVsbG8="},
		Model:  "gpt-4o",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	messages := gotBody["messages"].([]any)
	user := messages[1].(map[string]any)
	parts := user["content"].([]any)
	if len(parts) != 2 {
		t.Fatalf("expected text and image parts, got %d", len(parts))
	}
	img := parts[1].(map[string]any)
	if img["type"] != "image_url" {
		t.Fatalf("unexpected part: %v", img)
	}
	url := img["image_url"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(url, "data:image/png;base64,aGVsbG8=") {
		t.Fatalf("unexpected data URL: %q", url)
	}
}

func TestOpenAIGenerateContentParts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"model":"gpt-4o","choices":[{"message":{"content":[{"type":"text","text":"Answer: "},{"type":"image_url"},{"type":"text","text":"4"}]}}]}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "", testClient())
	_, text, err := p.Generate(context.Background(), Request{Prompt: "hi", Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "Answer: 4" {
		t.Fatalf("expected text parts concatenated in order, got %q", text)
	}
}

func TestOpenAIGenerateUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"error":{"message":"overloaded"}}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "", testClient())
	_, _, err := p.Generate(context.Background(), Request{Prompt: "hi", Model: "m"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"model":"m","choices":[]}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "", testClient())
	_, _, err := p.Generate(context.Background(), Request{Prompt: "hi", Model: "m"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
