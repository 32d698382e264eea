// Adapter - provider selection and quota failover.
//
// Information Hiding:
// - Per-provider availability flags
// - Preference order and current selection
// - Single-hop failover on rate-limit/quota failures

package llm

import (
	"context"
	"strings"
	"sync"

	. "github.com/richinex/twinllm/internal/logging"
)

// BuildFunc constructs the provider client for a configuration.
type BuildFunc func(ProviderConfig) (Provider, error)

// Backend pairs a provider configuration with its constructor.
type Backend struct {
	Config ProviderConfig
	Build  BuildFunc
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithClientOptions applies options to every provider's retry client.
func WithClientOptions(opts ...ClientOption) AdapterOption {
	return func(a *Adapter) {
		a.clientOpts = append(a.clientOpts, opts...)
	}
}

type providerState struct {
	config     ProviderConfig
	client     *Client
	configured bool
	available  bool
}

func (s *providerState) name() string {
	if s.client != nil {
		return s.client.Provider().Name()
	}
	return s.config.Type.DisplayName()
}

func (s *providerState) model() string {
	if s.client != nil {
		return s.client.Provider().Model()
	}
	return s.config.Model
}

// Adapter routes calls to the selected provider and fails over on quota errors.
// Availability flags are only cleared, never restored, for the life of the Adapter.
type Adapter struct {
	mu         sync.Mutex
	states     []*providerState // preference order
	current    ProviderType
	clientOpts []ClientOption
}

// NewAdapter builds a client for every configured backend and selects the first available one.
// Returns ErrNoProviderAvailable if none could be set up.
func NewAdapter(backends []Backend, opts ...AdapterOption) (*Adapter, error) {
	a := &Adapter{current: ProviderNone}
	for _, opt := range opts {
		opt(a)
	}

	for _, b := range backends {
		state := &providerState{config: b.Config}
		a.states = append(a.states, state)

		name := b.Config.Type.DisplayName()
		if !b.Config.Configured() {
			L_warn("llm: API key not configured", "provider", name)
			continue
		}
		state.configured = true

		if b.Build == nil {
			L_warn("llm: no constructor for provider", "provider", name)
			continue
		}
		provider, err := b.Build(b.Config)
		if err != nil {
			L_warn("llm: client setup failed", "provider", name, "error", err)
			continue
		}

		state.client = NewClient(provider, b.Config.MaxRetries, a.clientOpts...)
		state.available = true
		L_info("llm: provider ready", "provider", name, "model", provider.Model())
	}

	if !a.Auto() {
		return nil, ErrNoProviderAvailable
	}
	return a, nil
}

// state returns the state for a provider type, or nil.
func (a *Adapter) state(t ProviderType) *providerState {
	for _, s := range a.states {
		if s.config.Type == t {
			return s
		}
	}
	return nil
}

// Use selects a specific provider. It succeeds only if that provider is available.
func (a *Adapter) Use(t ProviderType) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch t {
	case ProviderDeepSeek, ProviderQwen:
		s := a.state(t)
		if s == nil || !s.available {
			return false
		}
		a.current = t
		return true
	case ProviderNone:
		return false
	default:
		return false
	}
}

// Auto selects the most preferred available provider.
func (a *Adapter) Auto() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range a.states {
		if s.available {
			a.current = s.config.Type
			return true
		}
	}
	a.current = ProviderNone
	return false
}

// Select parses target ("deepseek", "qwen" or "auto") and applies it.
func (a *Adapter) Select(target string) bool {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "auto", "3":
		return a.Auto()
	}
	t, err := ParseProviderType(target)
	if err != nil {
		return false
	}
	return a.Use(t)
}

// Current returns the selected provider type.
func (a *Adapter) Current() ProviderType {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// CurrentInfo describes the active provider, or "unknown" when nothing is selected.
func (a *Adapter) CurrentInfo() Info {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.current {
	case ProviderDeepSeek, ProviderQwen:
		if s := a.state(a.current); s != nil {
			return Info{Name: s.name(), Model: s.model(), Available: s.available}
		}
	case ProviderNone:
	}
	return Info{Name: "unknown", Model: "unknown", Available: false}
}

// Status returns a snapshot of every provider in preference order.
func (a *Adapter) Status() []ProviderStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := make([]ProviderStatus, 0, len(a.states))
	for _, s := range a.states {
		result = append(result, ProviderStatus{
			Type:       s.config.Type,
			Name:       s.name(),
			Model:      s.model(),
			Configured: s.configured,
			Available:  s.available,
			Current:    s.config.Type == a.current,
		})
	}
	return result
}

// Available reports whether provider t is currently usable.
func (a *Adapter) Available(t ProviderType) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.state(t)
	return s != nil && s.available
}

// active returns the selected state if it is usable.
func (a *Adapter) active() *providerState {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.current {
	case ProviderDeepSeek, ProviderQwen:
		s := a.state(a.current)
		if s == nil || !s.available {
			return nil
		}
		return s
	case ProviderNone:
		return nil
	default:
		return nil
	}
}

// failover marks failed unavailable and switches to another available provider.
// Returns nil, with the selection cleared, when no other provider is usable.
func (a *Adapter) failover(failed *providerState) *providerState {
	a.mu.Lock()
	defer a.mu.Unlock()

	failed.available = false
	for _, s := range a.states {
		if s != failed && s.available {
			a.current = s.config.Type
			return s
		}
	}
	a.current = ProviderNone
	return nil
}

// Call sends messages to the selected provider.
// A rate-limit/quota failure disables that provider and retries once on the other one;
// a failure there is returned as is. Other failures are returned without switching.
func (a *Adapter) Call(ctx context.Context, messages []ChatMessage) (string, error) {
	s := a.active()
	if s == nil {
		return "", ErrNoProviderAvailable
	}

	text, err := s.client.Complete(ctx, messages)
	if err == nil {
		return text, nil
	}
	L_warn("llm: provider call failed", "provider", s.name(), "error", err)

	if !IsRateLimited(err) {
		return "", err
	}

	next := a.failover(s)
	if next == nil {
		L_error("llm: quota exhausted and no fallback available", "provider", s.name())
		return "", err
	}

	L_warn("llm: quota exhausted, switching provider", "from", s.name(), "to", next.name())
	return next.client.Complete(ctx, messages)
}
