package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultTimeout    = 120 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 2 * time.Second
	minRateLimitDelay = 5 * time.Second
	maxResponseBytes  = 8 << 20
)

// ErrNoChoices is returned when a chat completion carries no choices.
var ErrNoChoices = errors.New("llm: no choices in response")

// APIError is a non-2xx reply from a provider.
type APIError struct {
	Status int
	Body   string

	retryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: API error %d: %s", e.Status, e.Body)
}

// Temporary reports whether the request is worth repeating.
func (e *APIError) Temporary() bool {
	switch e.Status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryPolicy spaces attempts with exponential backoff. Rate-limited
// replies wait at least minRateLimitDelay, or longer if Retry-After says so.
type retryPolicy struct {
	retries int
	delay   time.Duration
}

func (p retryPolicy) backoff(attempt int) time.Duration {
	return p.delay * time.Duration(1<<(attempt-1))
}

func (p retryPolicy) rateLimitWait(attempt int, retryAfter string) time.Duration {
	wait := minRateLimitDelay * time.Duration(1<<attempt)
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		wait = max(wait, time.Duration(secs)*time.Second)
	}
	return wait
}

// transport is the JSON-over-HTTP client shared by every provider: bearer
// auth, a per-provider path prefix and retries on transient failures.
type transport struct {
	cfg    Config
	client *http.Client
	prefix string
	header http.Header
	policy retryPolicy
}

func newTransport(cfg Config, prefix string) transport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	p := retryPolicy{retries: cfg.MaxRetries, delay: cfg.RetryDelay}
	if p.retries <= 0 {
		p.retries = defaultAttempts
	}
	if p.delay <= 0 {
		p.delay = defaultRetryDelay
	}
	return transport{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		prefix: prefix,
		header: http.Header{},
		policy: p,
	}
}

func (t *transport) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	return t.send(ctx, http.MethodPost, t.cfg.BaseURL+t.prefix+path, payload)
}

func (t *transport) get(ctx context.Context, url string) ([]byte, error) {
	return t.send(ctx, http.MethodGet, url, nil)
}

// send runs the request until it succeeds, fails permanently, or the
// retries are spent.
func (t *transport) send(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= t.policy.retries; attempt++ {
		if attempt > 0 {
			wait := t.policy.backoff(attempt)
			var apiErr *APIError
			if errors.As(lastErr, &apiErr) && apiErr.Status == http.StatusTooManyRequests {
				wait = t.policy.rateLimitWait(attempt-1, apiErr.retryAfter)
			}
			slog.Warn("llm: retrying request", "url", url, "attempt", attempt, "delay", wait, "error", lastErr)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		body, err := t.once(ctx, method, url, payload)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("llm: retries exhausted: %w", lastErr)
}

func (t *transport) once(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range t.header {
		req.Header[k] = vs
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:     resp.StatusCode,
			Body:       string(data),
			retryAfter: resp.Header.Get("Retry-After"),
		}
	}
	return data, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// openAICompatProvider speaks the /chat/completions dialect.
type openAICompatProvider struct {
	name string
	base transport
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *openAICompatProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.base.cfg.Model
	}
	raw, err := p.base.post(ctx, "/chat/completions", chatCompletionRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s chat: %w", p.name, err)
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%s chat: decoding response: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s chat: %w", p.name, ErrNoChoices)
	}
	choice := resp.Choices[0]
	return &ChatResponse{
		Content:          choice.Message.Content,
		Model:            resp.Model,
		FinishReason:     choice.FinishReason,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}
