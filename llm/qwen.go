// Qwen Provider implementation over the DashScope compatible-mode HTTP API.
//
// Information Hiding:
// - Raw JSON POST with bearer authentication
// - Response shape {choices: [{message: {content}}]}
// - Non-2xx statuses surface as *StatusError; the body stays out of the error text

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	. "github.com/richinex/twinllm/internal/logging"
)

const qwenBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"

// maxErrorBody bounds how much of an error response is kept on a StatusError.
const maxErrorBody = 512

// QwenProvider implements the Provider interface for Qwen.
type QwenProvider struct {
	httpClient  *http.Client
	url         string
	apiKey      string
	model       string
	maxTokens   int
	temperature float32
}

// NewQwenProvider creates a new Qwen provider.
func NewQwenProvider(cfg ProviderConfig) (*QwenProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("qwen: API key not set")
	}

	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = qwenBaseURL
	}
	if err := validateBaseURL(endpoint); err != nil {
		return nil, fmt.Errorf("qwen: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = ModelQwenPlus
	}

	return &QwenProvider{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		url:         endpoint,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns the provider name.
func (p *QwenProvider) Name() string {
	return ProviderQwen.DisplayName()
}

// Model returns the current model.
func (p *QwenProvider) Model() string {
	return p.model
}

type qwenRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type qwenResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a chat completion request.
func (p *QwenProvider) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	payload, err := json.Marshal(qwenRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
		L_debug("qwen: error response", "status", resp.StatusCode, "body", statusErr.Body)
		return "", statusErr
	}

	var result qwenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no response choices received")
	}
	return result.Choices[0].Message.Content, nil
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// Verify QwenProvider implements Provider
var _ Provider = (*QwenProvider)(nil)
