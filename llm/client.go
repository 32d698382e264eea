// Client - retrying wrapper around a single provider.
//
// Information Hiding:
// - Attempt loop and exponential backoff hidden
// - Per-attempt error classification hidden

package llm

import (
	"context"
	"time"

	. "github.com/richinex/twinllm/internal/logging"
)

// Backoff defaults: 1s, 2s, 4s, ... capped at maxBackoff.
const (
	defaultBackoffBase = time.Second
	maxBackoff         = 30 * time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithSleep replaces the backoff sleep (tests use a recorder).
func WithSleep(sleep SleepFunc) ClientOption {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// WithBackoffBase sets the first backoff delay.
func WithBackoffBase(d time.Duration) ClientOption {
	return func(c *Client) {
		c.backoffBase = d
	}
}

// Client wraps a Provider with bounded retries.
type Client struct {
	provider    Provider
	maxRetries  int
	backoffBase time.Duration
	sleep       SleepFunc
}

// NewClient creates a new LLM client from a provider.
// maxRetries is the total number of attempts; values below 1 mean one attempt.
func NewClient(provider Provider, maxRetries int, opts ...ClientOption) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	c := &Client{
		provider:    provider,
		maxRetries:  maxRetries,
		backoffBase: defaultBackoffBase,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends the messages, retrying failed attempts with exponential backoff.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	name := c.provider.Name()
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		text, err := c.provider.Complete(ctx, messages)
		if err == nil {
			return text, nil
		}

		lastErr = classify(name, err)
		L_warn("llm: call failed", "provider", name, "attempt", attempt+1, "of", c.maxRetries, "error", err)

		if attempt == c.maxRetries-1 {
			break
		}
		if err := c.sleep(ctx, c.backoff(attempt)); err != nil {
			// cancellation is never a failover trigger
			return "", &ProviderError{Provider: name, Type: ErrorTypeTransport, Err: err}
		}
	}

	return "", &ExhaustedRetriesError{Provider: name, Attempts: c.maxRetries, Err: lastErr}
}

// backoff returns 2^attempt * base, capped at maxBackoff.
func (c *Client) backoff(attempt int) time.Duration {
	if attempt >= 30 {
		return maxBackoff
	}
	delay := c.backoffBase * time.Duration(1<<attempt)
	if delay > maxBackoff || delay <= 0 {
		delay = maxBackoff
	}
	return delay
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
