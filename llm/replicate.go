package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	replicateBaseURL      = "https://api.replicate.com"
	replicateDefaultModel = "ibm-granite/granite-3.3-8b-instruct"
	replicatePollInterval = time.Second
)

// replicateProvider runs completions as Replicate model predictions.
type replicateProvider struct {
	base         transport
	pollInterval time.Duration
}

// NewReplicate creates a provider backed by the Replicate predictions API.
func NewReplicate(cfg Config) Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = replicateBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = replicateDefaultModel
	}
	base := newTransport(cfg, "/v1")
	// Hold the connection open until the prediction finishes when possible.
	base.header.Set("Prefer", "wait")
	return &replicateProvider{base: base, pollInterval: replicatePollInterval}
}

type predictionInput struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  interface{}     `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
	Metrics struct {
		InputTokenCount  int `json:"input_token_count"`
		OutputTokenCount int `json:"output_token_count"`
	} `json:"metrics"`
}

// fragments decodes the prediction output, which is either a list of
// streamed text pieces or a single string.
func (p *prediction) fragments() ([]string, error) {
	if len(p.Output) == 0 || string(p.Output) == "null" {
		return nil, nil
	}
	var parts []string
	if err := json.Unmarshal(p.Output, &parts); err == nil {
		return parts, nil
	}
	var s string
	if err := json.Unmarshal(p.Output, &s); err != nil {
		return nil, fmt.Errorf("decoding prediction output: %w", err)
	}
	return []string{s}, nil
}

// Generate runs a single prompt prediction and waits for it to settle.
func (r *replicateProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	body := predictionRequest{Input: predictionInput{
		Prompt:      req.Prompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}}

	raw, err := r.base.post(ctx, "/models/"+r.base.cfg.Model+"/predictions", body)
	if err != nil {
		return nil, err
	}

	var pred prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}

	for pred.Status == "starting" || pred.Status == "processing" {
		if pred.URLs.Get == "" {
			return nil, fmt.Errorf("prediction %s pending without poll url", pred.ID)
		}
		if err := sleep(ctx, r.pollInterval); err != nil {
			return nil, err
		}
		raw, err = r.base.get(ctx, pred.URLs.Get)
		if err != nil {
			return nil, err
		}
		pred = prediction{}
		if err := json.Unmarshal(raw, &pred); err != nil {
			return nil, fmt.Errorf("decoding prediction: %w", err)
		}
	}

	if pred.Status != "" && pred.Status != "succeeded" {
		return nil, fmt.Errorf("prediction %s %s: %v", pred.ID, pred.Status, pred.Error)
	}

	parts, err := pred.fragments()
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{
		Fragments:        parts,
		Model:            r.base.cfg.Model,
		PromptTokens:     pred.Metrics.InputTokenCount,
		CompletionTokens: pred.Metrics.OutputTokenCount,
	}, nil
}

// Chat flattens the messages into a single prompt.
func (r *replicateProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var sb strings.Builder
	for i, m := range req.Messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.Content)
	}
	resp, err := r.Generate(ctx, GenerateRequest{
		Prompt:      sb.String(),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	})
	if err != nil {
		return nil, err
	}
	return &ChatResponse{
		Content:          resp.Text(),
		Model:            resp.Model,
		FinishReason:     "stop",
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		TotalTokens:      resp.PromptTokens + resp.CompletionTokens,
	}, nil
}
