package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/0xcro3dile/salesinsight-go/internal/observability"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the default chat model on Groq.
	DefaultModel = "llama-3.3-70b-versatile"
	// DefaultTemperature keeps answers close to the numbers.
	DefaultTemperature = 0.2
)

// OpenAIAdapter implements ports.LLMService against any
// OpenAI-compatible chat completions API.
type OpenAIAdapter struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker
	log         *zap.Logger
}

// NewOpenAIAdapter creates a chat completions adapter.
// It returns ErrNotConfigured when apiKey is empty.
func NewOpenAIAdapter(baseURL, apiKey, model string, temperature float64, log *zap.Logger) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OpenAIAdapter{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: 120 * time.Second},
		breaker:     observability.NewBreaker("chat-completions", log),
		log:         log,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Name identifies the provider.
func (a *OpenAIAdapter) Name() string { return "openai" }

// Generate sends system and prompt as a two-message chat and returns
// the first choice, trimmed.
func (a *OpenAIAdapter) Generate(ctx context.Context, system, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: a.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	start := time.Now()
	out, err := a.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+a.apiKey)

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calling chat completions: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
		}

		var chatResp chatResponse
		if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
			return nil, fmt.Errorf("decoding response: %w", err)
		}
		if len(chatResp.Choices) == 0 {
			return nil, fmt.Errorf("chat completions returned no choices")
		}
		return chatResp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}

	a.log.Debug("chat completion",
		zap.String("model", a.model),
		zap.Duration("duration", time.Since(start)),
	)
	return strings.TrimSpace(out.(string)), nil
}
