package llm

import (
	"context"
	"strings"
)

// GenerateRequest is a single-prompt text generation request.
type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}

// GenerateResponse holds generated text as returned by the provider,
// possibly split into fragments.
type GenerateResponse struct {
	Fragments        []string `json:"fragments"`
	Model            string   `json:"model"`
	PromptTokens     int      `json:"prompt_tokens"`
	CompletionTokens int      `json:"completion_tokens"`
}

// Text concatenates the fragments with no separator.
func (r *GenerateResponse) Text() string {
	if r == nil {
		return ""
	}
	return strings.Join(r.Fragments, "")
}

// Generator produces text from a single prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// NewGenerator returns p itself when it generates natively, otherwise an
// adapter that sends the prompt as one user message.
func NewGenerator(p Provider) Generator {
	if g, ok := p.(Generator); ok {
		return g
	}
	return chatGenerator{p: p}
}

type chatGenerator struct {
	p Provider
}

func (c chatGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	resp, err := c.p.Chat(ctx, ChatRequest{
		Messages:    []Message{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{
		Fragments:        []string{resp.Content},
		Model:            resp.Model,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
	}, nil
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	return f(ctx, req)
}
