package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/ports"
)

// Options selects and configures a provider.
type Options struct {
	Provider    string // auto, openai, ollama, none
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	OllamaURL   string
	OllamaModel string
}

// New builds the provider named by opts.Provider. "auto" picks openai when
// an API key is present and the unconfigured fallback otherwise.
func New(opts Options, log *zap.Logger) (ports.LLMService, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" || provider == "auto" {
		provider = "none"
		if opts.APIKey != "" {
			provider = "openai"
		}
	}

	switch provider {
	case "openai", "groq":
		if opts.APIKey == "" {
			if log != nil {
				log.Warn("llm provider selected without api key, using fallback", zap.String("provider", provider))
			}
			return Unconfigured{}, nil
		}
		a, err := NewOpenAIAdapter(opts.BaseURL, opts.APIKey, opts.Model, opts.Temperature, log)
		if err != nil {
			return nil, fmt.Errorf("openai provider: %w", err)
		}
		return a, nil
	case "ollama":
		return NewOllamaAdapter(opts.OllamaURL, opts.OllamaModel, log), nil
	case "none":
		return Unconfigured{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}
