// Command execution for CLI commands.
//
// Information Hiding:
// - Session setup hidden
// - Chat loop and provider switching hidden
// - Output formatting hidden

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/richinex/twinllm/agent"
	"github.com/richinex/twinllm/llm"
	"github.com/richinex/twinllm/storage"
	"github.com/richinex/twinllm/tools"
)

// Options holds CLI execution options.
type Options struct {
	ConfigPath string
	// Provider overrides the configured initial selection.
	Provider  string
	DBPath    string
	NoHistory bool
	Verbose   bool
	LogLevel  string
}

// ErrQueryFailed is returned by Ask when the answer is an apology.
// The apology has already been printed.
var ErrQueryFailed = errors.New("query failed")

const (
	maxHistoryQueryLen  = 40
	maxHistoryAnswerLen = 60
)

// Ask answers a single query.
func Ask(ctx context.Context, query string, opts Options) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	resp := s.agent.Run(ctx, query)
	printResponse(os.Stdout, resp, opts.Verbose)
	if resp.Failed() {
		return ErrQueryFailed
	}
	return nil
}

// Chat runs the interactive loop until the operator exits or input ends.
func Chat(ctx context.Context, opts Options) error {
	s, err := openSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	sessionID := uuid.New().String()
	s.agent.WithSession(sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	interactive := isInteractive(os.Stdin)

	var m menu = lineMenu{scanner: scanner, out: os.Stdout}
	if interactive {
		m = huhMenu{}
	}

	loop := &chatLoop{
		selector: s.adapter,
		runner:   s.agent,
		scanner:  scanner,
		out:      os.Stdout,
		menu:     m,
		verbose:  opts.Verbose,
	}

	fmt.Println(bannerStyle.Render("twinllm chat"))
	fmt.Println(providerStyle.Render("Session " + sessionID))

	// The startup menu only appears when nothing chose a provider up front.
	if opts.Provider == "" && interactive {
		ok, err := loop.chooseProvider()
		if err != nil || !ok {
			return err
		}
	}

	return loop.run(ctx)
}

// selector is the part of the Adapter the chat loop drives.
type selector interface {
	CurrentInfo() llm.Info
	Select(target string) bool
	Status() []llm.ProviderStatus
}

// queryRunner answers one query.
type queryRunner interface {
	Run(ctx context.Context, query string) agent.Response
}

type chatLoop struct {
	selector selector
	runner   queryRunner
	scanner  *bufio.Scanner
	out      io.Writer
	menu     menu
	verbose  bool
}

// chooseProvider shows the provider menu. Returns false if the operator chose to exit.
func (c *chatLoop) chooseProvider() (bool, error) {
	for {
		choice, err := c.menu.Choose("Select a model provider", providerOptions(c.selector.Status()))
		if err != nil {
			return false, err
		}
		if choice == choiceExit {
			fmt.Fprintln(c.out, "Goodbye.")
			return false, nil
		}
		if c.selector.Select(choice) {
			info := c.selector.CurrentInfo()
			fmt.Fprintf(c.out, "Switched to %s (%s)\n", info.Name, info.Model)
			return true, nil
		}
		fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf("Provider %q is not available.", choice)))
	}
}

func (c *chatLoop) run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Type 'switch' to change provider, 'exit' to quit.")

	for {
		if ctx.Err() != nil {
			return nil
		}

		info := c.selector.CurrentInfo()
		fmt.Fprintf(c.out, "\n%s\n", providerStyle.Render(fmt.Sprintf("Current provider: %s (%s)", info.Name, info.Model)))
		fmt.Fprint(c.out, "You: ")

		if !c.scanner.Scan() {
			fmt.Fprintln(c.out)
			return c.scanner.Err()
		}

		input := strings.TrimSpace(c.scanner.Text())
		switch strings.ToLower(input) {
		case "":
			fmt.Fprintln(c.out, "Enter a question, 'switch' or 'exit'.")
		case "exit", "quit":
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		case "switch":
			ok, err := c.chooseProvider()
			if err != nil || !ok {
				return err
			}
		default:
			resp := c.runner.Run(ctx, input)
			printResponse(c.out, resp, c.verbose)
		}
	}
}

func printResponse(w io.Writer, resp agent.Response, verbose bool) {
	if verbose && resp.Call != nil {
		fmt.Fprintln(w, functionStyle.Render(fmt.Sprintf("%s %s", resp.Call.Name, resp.Call.JSON())))
		fmt.Fprintln(w, functionStyle.Render("=> "+resp.FunctionResult))
	}

	if resp.Failed() {
		fmt.Fprintln(w, errorStyle.Render(resp.Answer))
	} else {
		fmt.Fprintf(w, "%s %s\n", answerLabelStyle.Render("Answer:"), resp.Answer)
	}

	if verbose {
		fmt.Fprintln(w, providerStyle.Render(fmt.Sprintf("[%s/%s, %d call(s), %s]",
			resp.Provider.Name, resp.Provider.Model, resp.LLMCalls, resp.Duration.Round(time.Millisecond))))
	}
}

// ListProviders prints each provider and whether it can be used.
func ListProviders(w io.Writer, opts Options) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	var status []llm.ProviderStatus
	adapter, err := llm.NewAdapter(llm.DefaultBackends(settings.Providers()...))
	switch {
	case err == nil:
		status = adapter.Status()
	case errors.Is(err, llm.ErrNoProviderAvailable):
		for _, cfg := range settings.Providers() {
			status = append(status, llm.ProviderStatus{
				Type:       cfg.Type,
				Name:       cfg.Type.DisplayName(),
				Model:      cfg.Model,
				Configured: cfg.Configured(),
			})
		}
	default:
		return err
	}

	printProviders(w, status)
	return nil
}

func printProviders(w io.Writer, status []llm.ProviderStatus) {
	for _, s := range status {
		marker := " "
		if s.Current {
			marker = "*"
		}

		state := availableStyle.Render("available")
		switch {
		case !s.Configured:
			state = unavailableStyle.Render("no API key")
		case !s.Available:
			state = unavailableStyle.Render("unavailable")
		}
		fmt.Fprintf(w, "%s %-10s %-20s %s\n", marker, s.Name, s.Model, state)
	}
}

// ListFunctions prints the functions the model may call.
func ListFunctions(w io.Writer, verbose bool) error {
	registry, err := tools.WithDefaults()
	if err != nil {
		return err
	}

	for _, meta := range registry.Describe() {
		fmt.Fprintf(w, "%s - %s\n", functionStyle.Render(meta.Name), meta.Description)
		if !verbose {
			continue
		}
		params, err := json.MarshalIndent(meta.Parameters, "    ", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode parameters for %s: %w", meta.Name, err)
		}
		fmt.Fprintf(w, "    %s\n", params)
	}
	return nil
}

// History prints the most recent recorded queries, newest first.
func History(ctx context.Context, w io.Writer, opts Options, limit int) error {
	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	path := settings.HistoryPath
	if opts.DBPath != "" {
		path = opts.DBPath
	}
	store, err := storage.OpenSqlite(path)
	if err != nil {
		return fmt.Errorf("failed to open query history: %w", err)
	}
	defer store.Close()

	return printHistory(ctx, w, store, limit)
}

func printHistory(ctx context.Context, w io.Writer, log storage.QueryLog, limit int) error {
	entries, err := log.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read query history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No queries recorded.")
		return nil
	}

	for _, e := range entries {
		when := time.Unix(e.CreatedAt, 0).Format("2006-01-02 15:04:05")
		result := truncateString(e.Answer, maxHistoryAnswerLen)
		if e.Failed() {
			result = errorStyle.Render("error: " + truncateString(e.Error, maxHistoryAnswerLen))
		}
		fmt.Fprintf(w, "%s  %-8s  %-*s  %s\n",
			when, e.Provider, maxHistoryQueryLen+3, truncateString(e.Query, maxHistoryQueryLen), result)
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
