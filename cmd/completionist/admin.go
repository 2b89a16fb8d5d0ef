package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/state"
)

// errWrongPassword is returned when --password does not match admin_password.
var errWrongPassword = errors.New("admin: wrong password")

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Edit achievements and progress",
	Long: `Edit titles, descriptions and statuses, or unlock or reset everything.
Every subcommand needs --password matching the admin_password setting.`,
}

func init() {
	adminCmd.PersistentFlags().String("password", "", "admin password")
	_ = adminCmd.MarkPersistentFlagRequired("password")

	adminCmd.AddCommand(
		&cobra.Command{
			Use:   "set-status DOMAIN TIER ACHIEVEMENT STATUS",
			Short: "Force an achievement to locked, available or completed",
			Args:  cobra.ExactArgs(4),
			RunE:  runAdminSetStatus,
		},
		&cobra.Command{
			Use:   "set-title DOMAIN TIER ACHIEVEMENT TITLE...",
			Short: "Rename an achievement",
			Args:  cobra.MinimumNArgs(4),
			RunE:  runAdminSetTitle,
		},
		&cobra.Command{
			Use:   "set-desc DOMAIN TIER ACHIEVEMENT DESCRIPTION...",
			Short: "Replace an achievement's description",
			Args:  cobra.MinimumNArgs(4),
			RunE:  runAdminSetDescription,
		},
		&cobra.Command{
			Use:   "unlock-all",
			Short: "Make every locked achievement available",
			Args:  cobra.NoArgs,
			RunE:  runAdminUnlockAll,
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Return every achievement to its initial status",
			Args:  cobra.NoArgs,
			RunE:  runAdminReset,
		},
	)
	rootCmd.AddCommand(adminCmd)
}

// withAdmin opens a session and checks the admin password before running fn.
// The events fn produced are printed afterwards.
func withAdmin(cmd *cobra.Command, fn func(ctx context.Context, mgr *state.Manager) error) error {
	password, _ := cmd.Flags().GetString("password")
	return withSession(cmd, func(ctx context.Context, s *session) error {
		if !s.mgr.CheckAdmin(password) {
			return errWrongPassword
		}
		if err := fn(ctx, s.mgr); err != nil {
			return err
		}
		events := s.mgr.RecentEvents(10)
		state.WriteEvents(cmd.OutOrStdout(), events, len(events))
		return nil
	})
}

func runAdminSetStatus(cmd *cobra.Command, args []string) error {
	ref, err := parseRef(args)
	if err != nil {
		return err
	}
	status, err := achievements.ParseStatus(args[3])
	if err != nil {
		return err
	}
	return withAdmin(cmd, func(ctx context.Context, mgr *state.Manager) error {
		return mgr.SetStatus(ctx, ref, status)
	})
}

func runAdminSetTitle(cmd *cobra.Command, args []string) error {
	ref, err := parseRef(args)
	if err != nil {
		return err
	}
	title := strings.Join(args[3:], " ")
	return withAdmin(cmd, func(ctx context.Context, mgr *state.Manager) error {
		return mgr.SetTitle(ctx, ref, title)
	})
}

func runAdminSetDescription(cmd *cobra.Command, args []string) error {
	ref, err := parseRef(args)
	if err != nil {
		return err
	}
	desc := strings.Join(args[3:], " ")
	return withAdmin(cmd, func(ctx context.Context, mgr *state.Manager) error {
		return mgr.SetDescription(ctx, ref, desc)
	})
}

func runAdminUnlockAll(cmd *cobra.Command, _ []string) error {
	return withAdmin(cmd, func(ctx context.Context, mgr *state.Manager) error {
		n, err := mgr.UnlockAll(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Unlocked %d achievements\n", n)
		return nil
	})
}

func runAdminReset(cmd *cobra.Command, _ []string) error {
	return withAdmin(cmd, func(ctx context.Context, mgr *state.Manager) error {
		return mgr.ResetAll(ctx)
	})
}
