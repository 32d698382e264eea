// LLM Provider Factory - provider types and constructors.
//
//	deepseek, err := llm.ProviderDeepSeek.Build(cfg)
//	backends := llm.DefaultBackends(deepseekCfg, qwenCfg)

package llm

import (
	"fmt"
	"strings"
)

// ProviderType identifies a supported backend. ProviderNone marks an empty selection.
type ProviderType int

const (
	// ProviderNone is the empty selection.
	ProviderNone ProviderType = iota
	// ProviderDeepSeek is DeepSeek through its OpenAI-compatible SDK endpoint.
	ProviderDeepSeek
	// ProviderQwen is Qwen through the DashScope compatible-mode HTTP endpoint.
	ProviderQwen
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderDeepSeek:
		return "deepseek"
	case ProviderQwen:
		return "qwen"
	case ProviderNone:
		return "none"
	default:
		return "unknown"
	}
}

// DisplayName returns the name shown to operators.
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderDeepSeek:
		return "DeepSeek"
	case ProviderQwen:
		return "Qwen"
	case ProviderNone:
		return "unknown"
	default:
		return "unknown"
	}
}

// EnvPrefix returns the environment variable prefix for this provider.
func (p ProviderType) EnvPrefix() string {
	switch p {
	case ProviderDeepSeek:
		return "DEEPSEEK"
	case ProviderQwen:
		return "QWEN"
	default:
		return ""
	}
}

// DefaultModel returns the default model for this provider.
func (p ProviderType) DefaultModel() string {
	switch p {
	case ProviderDeepSeek:
		return ModelDeepSeekChat
	case ProviderQwen:
		return ModelQwenPlus
	default:
		return ""
	}
}

// DefaultBaseURL returns the default endpoint for this provider.
func (p ProviderType) DefaultBaseURL() string {
	switch p {
	case ProviderDeepSeek:
		return deepseekBaseURL
	case ProviderQwen:
		return qwenBaseURL
	default:
		return ""
	}
}

// Build creates the provider client for cfg.
func (p ProviderType) Build(cfg ProviderConfig) (Provider, error) {
	switch p {
	case ProviderDeepSeek:
		return NewDeepSeekProvider(cfg)
	case ProviderQwen:
		return NewQwenProvider(cfg)
	case ProviderNone:
		return nil, fmt.Errorf("cannot build provider %q", p)
	default:
		return nil, fmt.Errorf("unknown provider type: %d", int(p))
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deepseek", "1":
		return ProviderDeepSeek, nil
	case "qwen", "dashscope", "tongyi", "2":
		return ProviderQwen, nil
	default:
		return ProviderNone, fmt.Errorf("unknown provider: %s", s)
	}
}

// ProviderTypes lists the supported providers in preference order.
func ProviderTypes() []ProviderType {
	return []ProviderType{ProviderDeepSeek, ProviderQwen}
}

// DefaultBackends pairs the given configs with their constructors, in preference order.
func DefaultBackends(configs ...ProviderConfig) []Backend {
	backends := make([]Backend, 0, len(configs))
	for _, cfg := range configs {
		backends = append(backends, Backend{
			Config: cfg,
			Build:  cfg.Type.Build,
		})
	}
	return backends
}

// Model identifier constants.
const (
	// ModelDeepSeekChat is the general DeepSeek chat model.
	ModelDeepSeekChat = "deepseek-chat"
	// ModelDeepSeekReasoner is the DeepSeek reasoning model.
	ModelDeepSeekReasoner = "deepseek-reasoner"
	// ModelQwenPlus is the balanced Qwen model.
	ModelQwenPlus = "qwen-plus"
	// ModelQwenMax is the flagship Qwen model.
	ModelQwenMax = "qwen-max"
	// ModelQwenTurbo is the fast Qwen model.
	ModelQwenTurbo = "qwen-turbo"
)
