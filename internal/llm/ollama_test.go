package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOllamaProvider_Defaults(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	if provider.Name() != "ollama" {
		t.Errorf("Expected name ollama, got %q", provider.Name())
	}
	if provider.baseURL != "http://localhost:11434" {
		t.Errorf("Expected default base URL, got %q", provider.baseURL)
	}
}

func TestNewOllamaProvider_TrimsTrailingSlash(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://example.com:11434/"})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}
	if provider.baseURL != "http://example.com:11434" {
		t.Errorf("Expected trailing slash to be trimmed, got %q", provider.baseURL)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Expected /api/tags, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}
}

func TestOllamaProvider_IsAvailable_Down(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	if provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable on non-200")
	}
}

func TestOllamaProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected /api/generate, got %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("Expected non-streaming request")
		}
		if req.Prompt == "" {
			t.Error("Expected a prompt to be built")
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:           req.Model,
			Response:        "  G1 earned full credit.  ",
			Done:            true,
			PromptEvalCount: 10,
			EvalCount:       5,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "llama3.2"})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	resp, err := provider.Generate(context.Background(), GenerateRequest{
		Report:     sampleReport(),
		Mode:       "gold only",
		AllowedIDs: []string{"G1", "G2"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.Narrative != "G1 earned full credit." {
		t.Errorf("Expected trimmed narrative, got %q", resp.Narrative)
	}
	if resp.TokensUsed != 15 {
		t.Errorf("Expected 15 tokens used, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOllamaProvider failed: %v", err)
	}

	if _, err := provider.Generate(context.Background(), GenerateRequest{Report: sampleReport()}); err == nil {
		t.Error("Expected API error to surface")
	}
}
