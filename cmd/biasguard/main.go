// Package main implements the biasguard command-line auditor.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/biasguard/internal/client"
	"github.com/ashureev/biasguard/internal/history"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	baseURL      string
	timeout      time.Duration
	historyLimit int
)

var rootCmd = &cobra.Command{
	Use:   "biasguard",
	Short: "Run ethical audits against a BiasGuard guardrail service",
	Long: `biasguard submits applicant records or free text to a guardrail
service and renders the decision and its ethical audit.

The service URL comes from --url or BIASGUARD_URL.`,
	SilenceUsage: true,
}

func init() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("BIASGUARD_URL")
	if defaultURL == "" {
		defaultURL = client.DefaultBaseURL
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", defaultURL, "guardrail service base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (0 waits indefinitely)")
	rootCmd.PersistentFlags().IntVar(&historyLimit, "history-limit", history.DefaultLimit, "audits kept in session history")

	rootCmd.AddCommand(auditCmd, twinsCmd, analyzeCmd, historyCmd)
}

// commandContext returns a context cancelled on interrupt and, if set, after --timeout.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func newClient() *client.Client {
	return client.New(baseURL, nil)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
