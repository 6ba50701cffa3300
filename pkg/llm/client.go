// Package llm is a thin chat-completion client for the remote text-generation
// collaborator. It speaks the OpenAI and Anthropic wire formats and treats the
// model as an opaque prompt-in, text-out service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Client calls a chat-completion API.
type Client struct {
	http     *http.Client
	provider string
	model    string
	apiKey   string
	baseURL  string
}

// Request is one chat call. Temperature and MaxTokens map directly onto the
// provider payloads.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	JSONOnly    bool
}

// Result carries the raw completion text and the total token usage reported
// by the provider.
type Result struct {
	Text       string
	TokensUsed int
}

// New creates a Client. An empty model selects the provider default.
func New(provider, model, apiKey, baseURL string) *Client {
	if model == "" {
		switch provider {
		case ProviderAnthropic:
			model = "claude-sonnet-4-20250514"
		default:
			model = "gpt-4o-mini"
		}
	}
	return &Client{
		http:     &http.Client{Timeout: 60 * time.Second},
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		baseURL:  baseURL,
	}
}

// Configured reports whether an API key is available.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Model returns the model identifier in use.
func (c *Client) Model() string {
	return c.model
}

// Chat sends one prompt and returns the completion. Markdown code fences
// around JSON responses are stripped.
func (c *Client) Chat(ctx context.Context, req Request) (Result, error) {
	if !c.Configured() {
		return Result{}, fmt.Errorf("llm: no API key configured")
	}

	var res Result
	var err error
	switch c.provider {
	case ProviderAnthropic:
		res, err = c.callAnthropic(ctx, req)
	default:
		res, err = c.callOpenAI(ctx, req)
	}
	if err != nil {
		return Result{}, err
	}

	res.Text = stripFences(strings.TrimSpace(res.Text))
	return res, nil
}

func (c *Client) callOpenAI(ctx context.Context, req Request) (Result, error) {
	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	messages := []map[string]string{}
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	payload := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}
	if req.JSONOnly {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create openai request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]any
		json.NewDecoder(resp.Body).Decode(&errResp)
		return Result{}, fmt.Errorf("openai status %d: %v", resp.StatusCode, errResp)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(result.Choices) == 0 {
		return Result{}, fmt.Errorf("openai: no choices returned")
	}
	return Result{Text: result.Choices[0].Message.Content, TokensUsed: result.Usage.TotalTokens}, nil
}

func (c *Client) callAnthropic(ctx context.Context, req Request) (Result, error) {
	baseURL := c.baseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	payload := map[string]any{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
	}
	if req.System != "" {
		payload["system"] = req.System
	}
	if req.Temperature > 0 {
		payload["temperature"] = req.Temperature
	}

	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("call anthropic: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]any
		json.NewDecoder(resp.Body).Decode(&errResp)
		return Result{}, fmt.Errorf("anthropic status %d: %v", resp.StatusCode, errResp)
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(result.Content) == 0 {
		return Result{}, fmt.Errorf("anthropic: empty content")
	}
	return Result{
		Text:       result.Content[0].Text,
		TokensUsed: result.Usage.InputTokens + result.Usage.OutputTokens,
	}, nil
}

// stripFences removes a wrapping markdown code block, which some models emit
// around JSON even when told not to.
func stripFences(raw string) string {
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	if idx := strings.Index(raw[3:], "\n"); idx >= 0 {
		raw = raw[3+idx+1:]
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
