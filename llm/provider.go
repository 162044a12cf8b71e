package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoProvider is returned when Config.Provider is empty.
	ErrNoProvider = errors.New("llm provider not specified")
	// ErrUnknownProvider is returned for a provider name with no client.
	ErrUnknownProvider = errors.New("unknown llm provider")
)

// Provider completes a chat conversation.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest carries one completion call. Zero sampling fields are
// omitted so the vendor default applies.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the first choice of a completion plus token usage.
type ChatResponse struct {
	Content          string `json:"content"`
	Model            string `json:"model"`
	FinishReason     string `json:"finish_reason"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
}

// Config selects and tunes a provider. Provider is one of the keys of
// compatProviders or "replicate".
type Config struct {
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`
	Model    string `json:"model" yaml:"model" mapstructure:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`

	// Transport tuning. Zero values select the package defaults.
	Timeout    time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	MaxRetries int           `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`
}

// compatDefaults describes an OpenAI-compatible vendor.
type compatDefaults struct {
	baseURL    string
	pathPrefix string
	model      string
}

// compatProviders lists every vendor served by the OpenAI-compatible client.
// An empty baseURL means the caller must supply one.
var compatProviders = map[string]compatDefaults{
	"ollama":     {baseURL: "http://localhost:11434", pathPrefix: "/v1"},
	"lmstudio":   {baseURL: "http://localhost:1234", pathPrefix: "/v1"},
	"openrouter": {baseURL: "https://openrouter.ai/api", pathPrefix: "/v1"},
	"openai":     {baseURL: "https://api.openai.com", pathPrefix: "/v1", model: "gpt-4o-mini"},
	"groq":       {baseURL: "https://api.groq.com/openai", pathPrefix: "/v1", model: "llama-3.3-70b-versatile"},
	"xai":        {baseURL: "https://api.x.ai", pathPrefix: "/v1"},
	// Gemini's OpenAI-compatible endpoint has no /v1 segment.
	"gemini": {baseURL: "https://generativelanguage.googleapis.com/v1beta/openai", pathPrefix: ""},
	"custom": {pathPrefix: "/v1"},
}

// NewProvider builds the client named by cfg.Provider, filling BaseURL and
// Model from the vendor defaults when they are empty.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.Provider == "" {
		return nil, ErrNoProvider
	}
	if cfg.Provider == "replicate" {
		return NewReplicate(cfg), nil
	}

	d, ok := compatProviders[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.baseURL
	}
	if cfg.Model == "" {
		cfg.Model = d.model
	}
	return &openAICompatProvider{name: cfg.Provider, base: newTransport(cfg, d.pathPrefix)}, nil
}

// NewOpenAICompat talks to any /v1/chat/completions server at cfg.BaseURL.
func NewOpenAICompat(cfg Config) Provider {
	return &openAICompatProvider{name: "custom", base: newTransport(cfg, "/v1")}
}
