package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrNoProviderAvailable is returned when the Adapter has no usable backend.
var ErrNoProviderAvailable = errors.New("no LLM provider available")

// ErrorType categorizes provider failures for failover decisions.
type ErrorType string

const (
	ErrorTypeTransport ErrorType = "transport"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeAuth      ErrorType = "auth"
)

// ProviderError is a classified failure of a single request attempt.
type ProviderError struct {
	Provider string
	Type     ErrorType
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Type, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExhaustedRetriesError is returned when every attempt failed. Err is the last failure.
type ExhaustedRetriesError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("%s: gave up after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx HTTP response. Error reports only the status
// line, so the classifier never reads the response body.
type StatusError struct {
	StatusCode int
	// Body is the start of the response body, for diagnostics.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// classify wraps a raw attempt failure in a ProviderError.
func classify(provider string, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Provider: provider, Type: ClassifyError(err), Err: err}
}

// ClassifyError determines the error type of a raw failure.
// Network timeouts are transport errors before the text heuristics run,
// so "context deadline exceeded" does not read as a quota failure.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeTransport
	}
	if isTimeout(err) {
		return ErrorTypeTransport
	}
	msg := err.Error()
	if IsRateLimitMessage(msg) {
		return ErrorTypeRateLimit
	}
	if IsAuthMessage(msg) {
		return ErrorTypeAuth
	}
	return ErrorTypeTransport
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsRateLimited is the single failover classifier used by the Adapter.
// Typed errors are trusted; anything else falls back to the text markers.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Type == ErrorTypeRateLimit
	}
	return IsRateLimitMessage(err.Error())
}

// rateLimitMarkers are matched case-insensitively against failure text.
var rateLimitMarkers = []string{"rate limit", "quota", "exceeded", "429"}

// IsRateLimitMessage checks if a message indicates rate limiting or an exhausted quota.
func IsRateLimitMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, marker := range rateLimitMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// IsAuthMessage checks if a message indicates authentication failure.
func IsAuthMessage(msg string) bool {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "401") || strings.Contains(lower, "403") {
		return true
	}
	return strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "invalid api key") ||
		strings.Contains(lower, "invalid_api_key") ||
		strings.Contains(lower, "incorrect api key") ||
		strings.Contains(lower, "authentication")
}
