package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a provider is selected without credentials.
var ErrNotConfigured = errors.New("llm provider not configured")

// NotConfiguredMessage is the answer given when no provider is available.
const NotConfiguredMessage = "⚠️ No LLM configured.\nSet GROQ_API_KEY (or LLM_API_KEY) to enable AI answers."

// Unconfigured is the fallback ports.LLMService. It never calls out.
type Unconfigured struct{}

// Name identifies the provider.
func (Unconfigured) Name() string { return "none" }

// Generate returns NotConfiguredMessage.
func (Unconfigured) Generate(ctx context.Context, system, prompt string) (string, error) {
	return NotConfiguredMessage, nil
}
