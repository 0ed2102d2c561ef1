package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigflow-dev/sigflow/pkg/httpres"
	"github.com/sigflow-dev/sigflow/pkg/retry"
)

func getCmd() *cobra.Command {
	var (
		retries     int
		delay       time.Duration
		exponential bool
		timeout     time.Duration
		headers     []string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "Issue a GET request through a retrying resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel(verbose),
			}))

			opts := []httpres.Option{
				httpres.WithLogger(logger),
				httpres.WithTimeout(timeout),
				httpres.WithRetry(retry.Options{
					MaxAttempts:  retries,
					InitialDelay: delay,
					Exponential:  exponential,
					OnRetry: func(n int, d time.Duration) {
						fmt.Fprintf(cmd.ErrOrStderr(), "retry %d in %s\n", n+1, d)
					},
				}),
			}
			for _, h := range headers {
				name, value, ok := strings.Cut(h, ":")
				if !ok {
					return fmt.Errorf("invalid header %q, want name:value", h)
				}
				opts = append(opts, httpres.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value)))
			}

			res := httpres.New("", opts...)
			resp, err := res.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", resp.StatusCode)
			if resp.Body != "" {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Body)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&retries, "attempts", "a", retry.DefaultMaxAttempts, "Maximum attempts, first try included")
	cmd.Flags().DurationVarP(&delay, "delay", "d", retry.DefaultInitialDelay, "Delay before the first retry")
	cmd.Flags().BoolVarP(&exponential, "exponential", "e", false, "Double the delay on every retry")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Per-request timeout")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Header to send, as name:value (repeatable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log request and retry details")

	return cmd
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
