// Package paraphrase turns an extracted definition into an N-sentence
// academic paraphrase using a text-generation model, with a deterministic
// templated fallback when the model is unavailable.
package paraphrase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brunobiangulo/godefine/llm"
)

// Sentence count bounds.
const (
	MinSentences = 1
	MaxSentences = 5
)

// ErrSentenceCount is returned for a sentence count outside 1-5.
var ErrSentenceCount = errors.New("paraphrase: sentence count must be between 1-5")

// Generator is the text-generation collaborator.
type Generator = llm.Generator

// Config tunes generation requests. Zero fields take the defaults below.
type Config struct {
	MaxTokensPerSentence int     `json:"max_tokens_per_sentence" yaml:"max_tokens_per_sentence" mapstructure:"max_tokens_per_sentence"`
	MaxTokensCap         int     `json:"max_tokens_cap" yaml:"max_tokens_cap" mapstructure:"max_tokens_cap"`
	Temperature          float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
	TopP                 float64 `json:"top_p" yaml:"top_p" mapstructure:"top_p"`
}

// DefaultConfig returns the paraphrase generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokensPerSentence: 800,
		MaxTokensCap:         4000,
		Temperature:          0.3,
		TopP:                 0.85,
	}
}

// Request is one paraphrase job.
type Request struct {
	SourceText    string `json:"source_text"`
	Keyword       string `json:"keyword"`
	Context       string `json:"context"`
	SentenceCount int    `json:"sentence_count"`
}

// Result is a finished paraphrase. Text always holds exactly Sentences
// sentences.
type Result struct {
	Text             string `json:"text" yaml:"text"`
	Sentences        int    `json:"sentences" yaml:"sentences"`
	Fallback         bool   `json:"fallback" yaml:"fallback"`
	Model            string `json:"model,omitempty" yaml:"model,omitempty"`
	PromptTokens     int    `json:"prompt_tokens,omitempty" yaml:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty" yaml:"completion_tokens,omitempty"`
}

// Orchestrator drives the generator. It holds no per-request state and is
// safe for concurrent use.
type Orchestrator struct {
	gen Generator
	cfg Config
}

// New creates an orchestrator around gen. A nil gen means every request
// takes the fallback path.
func New(gen Generator, cfg Config) *Orchestrator {
	d := DefaultConfig()
	if cfg.MaxTokensPerSentence == 0 {
		cfg.MaxTokensPerSentence = d.MaxTokensPerSentence
	}
	if cfg.MaxTokensCap == 0 {
		cfg.MaxTokensCap = d.MaxTokensCap
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = d.Temperature
	}
	if cfg.TopP == 0 {
		cfg.TopP = d.TopP
	}
	return &Orchestrator{gen: gen, cfg: cfg}
}

// ValidSentenceCount reports whether n is within 1-5.
func ValidSentenceCount(n int) bool {
	return n >= MinSentences && n <= MaxSentences
}

// Paraphrase makes exactly one generation attempt and post-processes the
// output. Any generator error is logged and replaced by the templated
// fallback; the only error returned is ErrSentenceCount.
func (o *Orchestrator) Paraphrase(ctx context.Context, req Request) (*Result, error) {
	n := req.SentenceCount
	if !ValidSentenceCount(n) {
		return nil, fmt.Errorf("%w: got %d", ErrSentenceCount, n)
	}

	start := time.Now()
	resp, err := o.generate(ctx, llm.GenerateRequest{
		Prompt:      BuildPrompt(req.SourceText, req.Keyword, req.Context, n),
		MaxTokens:   min(o.cfg.MaxTokensCap, o.cfg.MaxTokensPerSentence*n),
		Temperature: o.cfg.Temperature,
		TopP:        o.cfg.TopP,
	})
	if err != nil {
		slog.Warn("paraphrase: generation failed, using fallback",
			"keyword", req.Keyword, "sentences", n, "error", err)
		return &Result{Text: Fallback(req.Keyword, n), Sentences: n, Fallback: true}, nil
	}

	text := Cleanup(resp.Text(), req.Keyword, n)
	slog.Info("paraphrase: complete",
		"keyword", req.Keyword,
		"sentences", n,
		"model", resp.Model,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return &Result{
		Text:             text,
		Sentences:        n,
		Model:            resp.Model,
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
	}, nil
}

var errNoGenerator = errors.New("paraphrase: no generator configured")

func (o *Orchestrator) generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if o.gen == nil {
		return nil, errNoGenerator
	}
	resp, err := o.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("paraphrase: empty generator response")
	}
	return resp, nil
}
