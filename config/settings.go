// Package config provides application settings.
//
// Settings are created via Load() which applies, in order:
// - Built-in defaults
// - An optional TOML file
// - Environment variable overrides, with validation

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/richinex/twinllm/llm"
)

// Settings holds all application configuration.
type Settings struct {
	DeepSeek llm.ProviderConfig
	Qwen     llm.ProviderConfig
	// Provider is the initial selection: "auto", "deepseek" or "qwen".
	Provider string
	LogLevel string
	// HistoryPath is the SQLite query log location.
	HistoryPath string
}

// Providers returns the provider configurations in preference order.
func (s Settings) Providers() []llm.ProviderConfig {
	return []llm.ProviderConfig{s.DeepSeek, s.Qwen}
}

// fileConfig mirrors the TOML layout. Pointers distinguish "unset" from zero.
type fileConfig struct {
	Provider  *string `toml:"provider"`
	LogLevel  *string `toml:"log_level"`
	HistoryDB *string `toml:"history_db"`

	LLM struct {
		Timeout     *int     `toml:"timeout"` // seconds
		MaxRetries  *int     `toml:"max_retries"`
		Temperature *float64 `toml:"temperature"`
		MaxTokens   *int     `toml:"max_tokens"`
	} `toml:"llm"`

	DeepSeek providerSection `toml:"deepseek"`
	Qwen     providerSection `toml:"qwen"`
}

type providerSection struct {
	APIKey  *string `toml:"api_key"`
	BaseURL *string `toml:"base_url"`
	Model   *string `toml:"model"`
}

// Defaults returns the built-in settings without credentials.
func Defaults() Settings {
	return Settings{
		DeepSeek:    llm.DefaultProviderConfig(llm.ProviderDeepSeek),
		Qwen:        llm.DefaultProviderConfig(llm.ProviderQwen),
		Provider:    "auto",
		LogLevel:    "info",
		HistoryPath: DefaultHistoryPath(),
	}
}

// DefaultHistoryPath returns ~/.twinllm/history.db, or a relative path if
// the home directory is unknown.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".twinllm", "history.db")
	}
	return filepath.Join(home, ".twinllm", "history.db")
}

// Load builds settings from defaults, the TOML file at path (skipped if
// path is empty) and the environment.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		if err := s.applyFile(path); err != nil {
			return Settings{}, err
		}
	}
	if err := s.applyEnv(); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// MustLoad loads settings and panics on error.
// Use this only when configuration errors should be fatal.
func MustLoad(path string) Settings {
	settings, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

func (s *Settings) applyFile(path string) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}

	setString(&s.Provider, fc.Provider)
	setString(&s.LogLevel, fc.LogLevel)
	setString(&s.HistoryPath, fc.HistoryDB)

	for _, cfg := range []*llm.ProviderConfig{&s.DeepSeek, &s.Qwen} {
		if fc.LLM.Timeout != nil {
			cfg.Timeout = time.Duration(*fc.LLM.Timeout) * time.Second
		}
		if fc.LLM.MaxRetries != nil {
			cfg.MaxRetries = *fc.LLM.MaxRetries
		}
		if fc.LLM.Temperature != nil {
			cfg.Temperature = float32(*fc.LLM.Temperature)
		}
		if fc.LLM.MaxTokens != nil {
			cfg.MaxTokens = *fc.LLM.MaxTokens
		}
	}

	fc.DeepSeek.apply(&s.DeepSeek)
	fc.Qwen.apply(&s.Qwen)
	return nil
}

func (p providerSection) apply(cfg *llm.ProviderConfig) {
	setString(&cfg.APIKey, p.APIKey)
	setString(&cfg.BaseURL, p.BaseURL)
	setString(&cfg.Model, p.Model)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func (s *Settings) applyEnv() error {
	s.Provider = getEnvString("LLM_PROVIDER", s.Provider)
	s.LogLevel = getEnvString("LOG_LEVEL", s.LogLevel)
	s.HistoryPath = getEnvString("TWINLLM_HISTORY_DB", s.HistoryPath)

	for _, cfg := range []*llm.ProviderConfig{&s.DeepSeek, &s.Qwen} {
		timeoutSecs, err := getEnvInt("LLM_TIMEOUT", int(cfg.Timeout/time.Second))
		if err != nil {
			return err
		}
		cfg.Timeout = time.Duration(timeoutSecs) * time.Second

		if cfg.MaxRetries, err = getEnvInt("LLM_MAX_RETRIES", cfg.MaxRetries); err != nil {
			return err
		}

		temperature, err := getEnvFloat64("LLM_TEMPERATURE", float64(cfg.Temperature))
		if err != nil {
			return err
		}
		cfg.Temperature = float32(temperature)

		maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", uint32(cfg.MaxTokens))
		if err != nil {
			return err
		}
		cfg.MaxTokens = int(maxTokens)

		prefix := cfg.Type.EnvPrefix()
		cfg.APIKey = getEnvString(prefix+"_API_KEY", cfg.APIKey)
		cfg.BaseURL = getEnvString(prefix+"_BASE_URL", cfg.BaseURL)
		cfg.Model = getEnvString(prefix+"_MODEL", cfg.Model)
	}
	return nil
}

// Validate checks value ranges. Missing credentials are not an error here:
// the adapter reports unconfigured providers itself.
func (s Settings) Validate() error {
	var errs []error

	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "auto", "deepseek", "qwen":
	default:
		errs = append(errs, fmt.Errorf("invalid provider %q: want auto, deepseek or qwen", s.Provider))
	}

	for _, cfg := range s.Providers() {
		name := cfg.Type.String()
		if cfg.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("%s: timeout must be positive", name))
		}
		if cfg.MaxRetries < 1 {
			errs = append(errs, fmt.Errorf("%s: max_retries must be at least 1", name))
		}
		if cfg.Temperature < 0 || cfg.Temperature > 2 {
			errs = append(errs, fmt.Errorf("%s: temperature must be between 0 and 2", name))
		}
		if cfg.MaxTokens <= 0 {
			errs = append(errs, fmt.Errorf("%s: max_tokens must be positive", name))
		}
		if cfg.Model == "" {
			errs = append(errs, fmt.Errorf("%s: model must not be empty", name))
		}
	}

	return errors.Join(errs...)
}

// Environment variable helpers with proper error handling

func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
