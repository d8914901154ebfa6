package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaLLM_Generate(t *testing.T) {
	var got ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "  Hello there!\n",
			"done":     true,
		})
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test-model", nil)
	resp, err := adapter.Generate(context.Background(), "be brief", "Hi")

	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if resp != "Hello there!" {
		t.Errorf("unexpected response: %q", resp)
	}
	if got.System != "be brief" || got.Prompt != "Hi" || got.Stream {
		t.Errorf("unexpected request: %+v", got)
	}
	if got.Model != "test-model" {
		t.Errorf("unexpected model: %s", got.Model)
	}
}

func TestOllamaLLM_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, "test", nil)
	_, err := adapter.Generate(context.Background(), "", "test")

	if err == nil {
		t.Error("expected error on 500 status")
	}
}

func TestOllamaLLM_Defaults(t *testing.T) {
	adapter := NewOllamaAdapter("", "", nil)

	if adapter.baseURL != "http://localhost:11434" {
		t.Errorf("unexpected default url: %s", adapter.baseURL)
	}
	if adapter.model != "llama3.2" {
		t.Errorf("unexpected default model: %s", adapter.model)
	}
	if adapter.Name() != "ollama" {
		t.Errorf("unexpected name: %s", adapter.Name())
	}
}
