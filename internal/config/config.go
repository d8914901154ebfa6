// Package config loads runtime settings from an optional .env file,
// an optional config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/0xcro3dile/salesinsight-go/internal/domain/aggregate"
)

// Config is the full application configuration.
type Config struct {
	Timezone  string          `mapstructure:"timezone"`
	SalesAPI  SalesAPIConfig  `mapstructure:"sales_api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Filter    FilterConfig    `mapstructure:"filter"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SalesAPIConfig locates the upstream orders API.
type SalesAPIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig selects the order cache backend and its expiry.
type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LLMConfig configures the OpenAI-compatible text generation provider.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

// OllamaConfig points at a local Ollama server for generation and embeddings.
type OllamaConfig struct {
	URL        string `mapstructure:"url"`
	Model      string `mapstructure:"model"`
	EmbedModel string `mapstructure:"embed_model"`
}

// RetrievalConfig chooses the retrieval scorer and how many orders it returns.
type RetrievalConfig struct {
	Backend string `mapstructure:"backend"`
	TopK    int    `mapstructure:"top_k"`
}

// FilterConfig holds the order filter policy.
type FilterConfig struct {
	RequireLocked bool   `mapstructure:"require_locked"`
	Interval      string `mapstructure:"interval"`
}

// HTTPConfig holds the listen address for serve mode.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig sets the zap log level.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings lists the environment variables read for each key, first match wins.
var envBindings = map[string][]string{
	"timezone":              {"APP_TIMEZONE"},
	"sales_api.url":         {"SALES_API_URL"},
	"sales_api.timeout":     {"SALES_API_TIMEOUT"},
	"cache.backend":         {"CACHE_BACKEND"},
	"cache.dir":             {"CACHE_DIR"},
	"cache.redis_url":       {"REDIS_URL"},
	"cache.ttl":             {"CACHE_TTL"},
	"llm.provider":          {"LLM_PROVIDER"},
	"llm.api_key":           {"GROQ_API_KEY", "LLM_API_KEY"},
	"llm.base_url":          {"LLM_BASE_URL"},
	"llm.model":             {"GROQ_MODEL", "LLM_MODEL"},
	"llm.temperature":       {"LLM_TEMPERATURE"},
	"ollama.url":            {"OLLAMA_URL"},
	"ollama.model":          {"OLLAMA_MODEL"},
	"ollama.embed_model":    {"OLLAMA_EMBED_MODEL"},
	"retrieval.backend":     {"RETRIEVAL_BACKEND"},
	"retrieval.top_k":       {"RETRIEVAL_TOP_K"},
	"filter.require_locked": {"FILTER_REQUIRE_LOCKED"},
	"filter.interval":       {"FILTER_INTERVAL"},
	"http.addr":             {"HTTP_ADDR"},
	"logging.level":         {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Asia/Kolkata")
	v.SetDefault("sales_api.url", "https://sandbox.mkonnekt.net/ch-portal/api/v1/orders/recent")
	v.SetDefault("sales_api.timeout", "30s")
	v.SetDefault("cache.backend", "sqlite")
	v.SetDefault("cache.dir", ".cache")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "0s")
	v.SetDefault("llm.provider", "auto")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.2")
	v.SetDefault("ollama.embed_model", "nomic-embed-text")
	v.SetDefault("retrieval.backend", "bow")
	v.SetDefault("retrieval.top_k", 4)
	v.SetDefault("filter.require_locked", true)
	v.SetDefault("filter.interval", "inclusive")
	v.SetDefault("http.addr", ":8000")
	v.SetDefault("logging.level", "info")
}

// Load reads .env (if present), then config.yaml from . or ./configs
// (if present), then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at construction time.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case "sqlite":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.backend=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Retrieval.Backend {
	case "bow", "ollama":
	default:
		return fmt.Errorf("unknown retrieval backend %q", c.Retrieval.Backend)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// Location resolves the configured IANA timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Policy builds the order filter policy.
func (c *Config) Policy() (aggregate.Policy, error) {
	bounds, err := aggregate.ParseBounds(c.Filter.Interval)
	if err != nil {
		return aggregate.Policy{}, err
	}
	return aggregate.Policy{RequireLocked: c.Filter.RequireLocked, Bounds: bounds}, nil
}
