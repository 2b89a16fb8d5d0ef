package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/epic-tm/completionist/internal/config"
	"github.com/epic-tm/completionist/internal/state"
)

const minWatchInterval = time.Second

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a progress table instead of the chart",
	Long: `Print per-domain progress as a text table. With --watch the table is
re-read from the progress database at the given interval, so it can run
next to the chart in another terminal.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().Duration("watch", 0, "repeat at this interval (e.g. 30s)")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	interval, _ := cmd.Flags().GetDuration("watch")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	log := newLogger(cfg, cmd.ErrOrStderr())

	outputOnce := func(ctx context.Context) error {
		// A fresh session per pass picks up progress saved by other processes.
		s, err := openSession(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer s.Close()

		snap := s.mgr.Snapshot()
		state.WriteSummaryTable(out, snap, time.Now())
		if !s.loaded {
			fmt.Fprintln(out, "(demo data: no achievements document found)")
		}
		return nil
	}

	if interval == 0 {
		return outputOnce(context.Background())
	}
	if interval < minWatchInterval {
		interval = minWatchInterval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	clear := isTerminal(out)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if clear {
			fmt.Fprint(out, "\033[H\033[2J")
		}
		if err := outputOnce(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
