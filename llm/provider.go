// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Transport details (SDK call or raw HTTP)

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations send exactly one request per Complete call;
// retries and backoff are layered on by Client.
type Provider interface {
	// Name returns the provider display name (for logging/menus).
	Name() string

	// Model returns the model being used.
	Model() string

	// Complete sends one chat completion request and returns the text content.
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
