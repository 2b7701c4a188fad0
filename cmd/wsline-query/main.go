package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wsline/wsline/internal/query"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "wsline-query",
		Short: "MCP tool server for a remote query service",
		Long: `Serve the run_query and describe_schema tools over stdio using the
Model Context Protocol, translating each call into an HTTP request
against the query service.`,
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().String("endpoint", "", "base URL of the query service (or WSLINE_QUERY_ENDPOINT)")
	rootCmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout for query service calls")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	if endpoint == "" {
		endpoint = os.Getenv("WSLINE_QUERY_ENDPOINT")
	}
	if endpoint == "" {
		return fmt.Errorf("query service endpoint is required: use --endpoint or set WSLINE_QUERY_ENDPOINT")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	logLevel, _ := cmd.Flags().GetString("log-level")
	logger := newLogger(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("serving query tools over stdio", "endpoint", endpoint)
	return query.Serve(ctx, query.NewClient(endpoint, timeout), version)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
