// Session setup for CLI commands.
//
// Information Hiding:
// - Settings, logging and adapter construction hidden
// - Query log backend choice hidden

package cli

import (
	"fmt"

	"github.com/richinex/twinllm/agent"
	"github.com/richinex/twinllm/config"
	"github.com/richinex/twinllm/internal/logging"
	"github.com/richinex/twinllm/llm"
	"github.com/richinex/twinllm/storage"
	"github.com/richinex/twinllm/tools"
)

// session holds everything one command needs to answer queries.
type session struct {
	settings config.Settings
	adapter  *llm.Adapter
	registry *tools.Registry
	queryLog storage.QueryLog
	agent    *agent.Agent
}

// loadSettings reads settings and configures logging.
func loadSettings(opts Options) (config.Settings, error) {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Settings{}, err
	}

	logOpts := logging.DefaultOptions()
	logOpts.Level = settings.LogLevel
	if opts.LogLevel != "" {
		logOpts.Level = opts.LogLevel
	}
	if opts.Verbose && opts.LogLevel == "" {
		logOpts.Level = "debug"
	}
	if err := logging.Init(logOpts); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

// openSession builds the adapter, function registry, query log and agent.
func openSession(opts Options) (*session, error) {
	settings, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}

	adapter, err := llm.NewAdapter(llm.DefaultBackends(settings.Providers()...))
	if err != nil {
		return nil, fmt.Errorf("%w: set DEEPSEEK_API_KEY or QWEN_API_KEY", err)
	}

	selection := settings.Provider
	if opts.Provider != "" {
		selection = opts.Provider
	}
	if !adapter.Select(selection) {
		info := adapter.CurrentInfo()
		logging.L_warn("cli: provider not available, keeping current", "requested", selection, "current", info.Name)
	}

	registry, err := tools.WithDefaults()
	if err != nil {
		return nil, err
	}

	queryLog := openQueryLog(opts, settings)

	return &session{
		settings: settings,
		adapter:  adapter,
		registry: registry,
		queryLog: queryLog,
		agent:    agent.New(adapter, registry).WithQueryLog(queryLog),
	}, nil
}

// openQueryLog opens the SQLite history, falling back to memory.
func openQueryLog(opts Options, settings config.Settings) storage.QueryLog {
	if opts.NoHistory {
		return storage.NewInMemoryStorage()
	}

	path := settings.HistoryPath
	if opts.DBPath != "" {
		path = opts.DBPath
	}

	store, err := storage.OpenSqlite(path)
	if err != nil {
		logging.L_warn("cli: query history disabled", "path", path, "error", err)
		return storage.NewInMemoryStorage()
	}
	return store
}

// Close releases the query log.
func (s *session) Close() {
	if err := s.queryLog.Close(); err != nil {
		logging.L_warn("cli: failed to close query history", "error", err)
	}
}
