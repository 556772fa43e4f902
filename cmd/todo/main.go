package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"todoList/internal/client"
	"todoList/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()

	var (
		apiURL   string
		logPath  string
		logLevel string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Terminal client for the todo list API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close() //nolint:errcheck

			l, err := newLogger(f, logLevel)
			if err != nil {
				return err
			}

			api, err := client.New(apiURL, client.WithTimeout(timeout))
			if err != nil {
				return err
			}
			l.Info("starting", "api", apiURL)

			if _, err := tea.NewProgram(tui.New(api, l, timeout)).Run(); err != nil {
				l.Error("program exited", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", envOr("TODO_API_URL", "http://localhost:3000/api"), "API base URL including the route prefix")
	cmd.Flags().StringVar(&logPath, "log-file", envOr("TODO_LOG_FILE", "todo.log"), "where request failures are logged")
	cmd.Flags().StringVar(&logLevel, "log-level", envOr("TODO_LOG_LEVEL", "info"), "debug, info, warn or error")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "timeout of a single API call")
	return cmd
}

func newLogger(f *os.File, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(f, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "todo",
	}), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
