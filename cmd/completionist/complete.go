package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epic-tm/completionist/internal/achievements"
)

var completeCmd = &cobra.Command{
	Use:   "complete DOMAIN TIER ACHIEVEMENT",
	Short: "Mark an achievement completed",
	Long: `Mark an achievement completed. Numbers start at 1 and match the chart,
so "complete 2 1 3" is the third achievement of the first tier of the second
domain. Finishing a tier unlocks the next one.`,
	Args: cobra.ExactArgs(3),
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	ref, err := parseRef(args)
	if err != nil {
		return err
	}

	return withSession(cmd, func(ctx context.Context, s *session) error {
		unlocked, err := s.mgr.Complete(ctx, ref)
		switch {
		case errors.Is(err, achievements.ErrLocked):
			return fmt.Errorf("%s is locked: complete the previous tier first", ref)
		case err != nil:
			return err
		}

		out := cmd.OutOrStdout()
		a, _ := s.mgr.Snapshot().Document.Get(ref)
		fmt.Fprintf(out, "Completed %s %s\n", ref, a.Title)
		if unlocked > 0 {
			fmt.Fprintf(out, "Next tier unlocked: %d achievements\n", unlocked)
		}
		return nil
	})
}
