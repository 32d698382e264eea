// Package main provides the twinllm CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/twinllm/cli"
)

var (
	// Global flags
	configPath string
	provider   string
	dbPath     string
	noHistory  bool
	verbose    bool
	logLevel   string
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "twinllm",
		Short: "Function-calling assistant over DeepSeek and Qwen",
		Long: `Answer questions with DeepSeek or Qwen, letting the model call local functions.

The preferred provider is used first. When it reports a rate limit or
exhausted quota, the query is retried once on the other provider, which
then stays selected.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to TOML config file")
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "Initial provider (deepseek, qwen, auto)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Query history database path")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not record queries")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show function calls and provider details")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Add commands
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(functionsCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// The apology has already been printed.
		if !errors.Is(err, cli.ErrQueryFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{
		ConfigPath: configPath,
		Provider:   provider,
		DBPath:     dbPath,
		NoHistory:  noHistory,
		Verbose:    verbose,
		LogLevel:   logLevel,
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [query]",
		Short: "Answer a single query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(cmd.Context(), strings.Join(args, " "), options())
		},
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Type 'switch' to pick another provider and 'exit' to quit. Without
--provider, a provider menu is shown first when stdin is a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Chat(cmd.Context(), options())
		},
	}
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List providers and whether they are usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListProviders(cmd.OutOrStdout(), options())
		},
	}
}

func functionsCmd() *cobra.Command {
	var showParams bool

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List functions the model may call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListFunctions(cmd.OutOrStdout(), showParams)
		},
	}

	cmd.Flags().BoolVarP(&showParams, "params", "V", false, "Show function parameters")

	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.History(cmd.Context(), cmd.OutOrStdout(), options(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")

	return cmd
}
