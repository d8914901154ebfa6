// Package llm provides the text generation adapters.
// Clean Architecture: Adapters implementing ports.LLMService.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/0xcro3dile/salesinsight-go/internal/observability"
)

// OllamaAdapter implements ports.LLMService using the Ollama generate API.
type OllamaAdapter struct {
	baseURL string
	model   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewOllamaAdapter creates a new Ollama text generation adapter.
func NewOllamaAdapter(baseURL, model string, log *zap.Logger) *OllamaAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.2"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OllamaAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Timeout: 300 * time.Second, // local models can be slow on first load
		},
		breaker: observability.NewBreaker("ollama-generate", log),
		log:     log,
	}
}

// ollamaGenerateRequest is the Ollama generate API request.
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// ollamaGenerateResponse is the Ollama generate API response.
type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Name identifies the provider.
func (a *OllamaAdapter) Name() string { return "ollama" }

// Generate produces a single non-streamed response.
func (a *OllamaAdapter) Generate(ctx context.Context, system, prompt string) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:  a.model,
		System: system,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	out, err := a.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calling Ollama: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("Ollama returned status %d", resp.StatusCode)
		}

		var genResp ollamaGenerateResponse
		if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		return genResp.Response, nil
	})
	if err != nil {
		return "", err
	}

	a.log.Debug("ollama generation complete", zap.String("model", a.model))
	return strings.TrimSpace(out.(string)), nil
}
