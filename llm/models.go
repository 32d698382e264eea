// Package llm provides shared data models for LLM providers.
package llm

import (
	"strings"
	"time"
)

// ChatMessage represents a chat message with role and content.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "user",
		Content: content,
	}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "assistant",
		Content: content,
	}
}

// ProviderConfig is the static configuration of one backend.
// It is not modified after load.
type ProviderConfig struct {
	Type        ProviderType
	BaseURL     string
	Model       string
	APIKey      string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float32
	MaxTokens   int
}

// Configured reports whether a credential is present.
func (c ProviderConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Default request settings.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 2
	DefaultTemperature = float32(0.7)
	DefaultMaxTokens   = 1000
)

// DefaultProviderConfig returns the defaults for a provider type, without a credential.
func DefaultProviderConfig(t ProviderType) ProviderConfig {
	return ProviderConfig{
		Type:        t,
		BaseURL:     t.DefaultBaseURL(),
		Model:       t.DefaultModel(),
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Info describes the active provider.
type Info struct {
	Name      string
	Model     string
	Available bool
}

// ProviderStatus is a snapshot of one provider held by the Adapter.
type ProviderStatus struct {
	Type       ProviderType
	Name       string
	Model      string
	Configured bool
	Available  bool
	Current    bool
}
