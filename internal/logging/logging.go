// Package logging provides the process-wide logger.
// Callers dot-import it to use L_info, L_warn, etc. directly.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	logger *log.Logger
	mu     sync.Mutex
)

// Options holds logger configuration.
type Options struct {
	Level      string // debug, info, warn, error
	TimeFormat string
	ShowCaller bool
	Output     io.Writer
}

// DefaultOptions returns info level on stderr.
func DefaultOptions() Options {
	return Options{
		Level:      "info",
		TimeFormat: "15:04:05",
		Output:     os.Stderr,
	}
}

// Init (re)configures the global logger.
func Init(opts Options) error {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = "15:04:05"
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	l := log.NewWithOptions(opts.Output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      opts.TimeFormat,
		ReportCaller:    opts.ShowCaller,
		CallerOffset:    2, // logMsg -> L_* -> caller
		Level:           level,
	})

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// ParseLevel maps a level name to a charmbracelet level. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return log.InfoLevel, nil
	case "trace", "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level: %q", s)
	}
}

// SetLevel changes the log level at runtime. Unknown names are ignored.
func SetLevel(s string) {
	level, err := ParseLevel(s)
	if err != nil {
		return
	}
	current().SetLevel(level)
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		d := DefaultOptions()
		logger = log.NewWithOptions(d.Output, log.Options{
			ReportTimestamp: true,
			TimeFormat:      d.TimeFormat,
			CallerOffset:    2,
		})
	}
	return logger
}

// hasFmtVerb reports whether s contains a printf verb.
func hasFmtVerb(s string) bool {
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '%' {
			next := s[i+1]
			if next != '%' && strings.ContainsRune("vsdtfgeopqxXbcUT+#", rune(next)) {
				return true
			}
		}
	}
	return false
}

// logMsg accepts three call shapes:
//   - logMsg(level, "message")
//   - logMsg(level, "value is %d", 42)
//   - logMsg(level, "loaded", "key", val, ...)
func logMsg(level log.Level, msg string, args ...interface{}) {
	l := current()

	var keyvals []interface{}
	switch {
	case len(args) == 0:
	case hasFmtVerb(msg):
		msg = fmt.Sprintf(msg, args...)
	default:
		keyvals = args
	}

	switch level {
	case log.DebugLevel:
		l.Debug(msg, keyvals...)
	case log.InfoLevel:
		l.Info(msg, keyvals...)
	case log.WarnLevel:
		l.Warn(msg, keyvals...)
	default:
		l.Error(msg, keyvals...)
	}
}

// L_debug logs at debug level
func L_debug(msg string, args ...interface{}) {
	logMsg(log.DebugLevel, msg, args...)
}

// L_info logs at info level
func L_info(msg string, args ...interface{}) {
	logMsg(log.InfoLevel, msg, args...)
}

// L_warn logs at warn level
func L_warn(msg string, args ...interface{}) {
	logMsg(log.WarnLevel, msg, args...)
}

// L_error logs at error level
func L_error(msg string, args ...interface{}) {
	logMsg(log.ErrorLevel, msg, args...)
}
