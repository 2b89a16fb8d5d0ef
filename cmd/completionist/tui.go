package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/config"
	"github.com/epic-tm/completionist/internal/logging"
	"github.com/epic-tm/completionist/internal/source"
	"github.com/epic-tm/completionist/internal/ui"
	"github.com/epic-tm/completionist/internal/watch"
)

func init() {
	f := rootCmd.Flags()
	f.Bool("ascii", false, "draw the chart with ASCII glyphs only")
	f.Bool("watch", true, "reload the data document when the file changes")
	bindFlags(f, map[string]string{"watch": "watch"})
}

// runTUI starts the interactive star chart.
func runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the star chart needs a terminal; try 'completionist summary'")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Bubble Tea owns the terminal, so logs go to a file or nowhere.
	log := logging.Discard()
	if cfg.LogFile != "" {
		var closer io.Closer
		log, closer, err = logging.OpenFile(cfg.LogFile, logging.ParseLevel(cfg.LogLevel))
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()
	log.Info("starting chart: data=%s loaded=%v restored=%v", cfg.Data, s.loaded, s.mgr.Restored())

	glyphs := ui.UnicodeGlyphs()
	if ascii, _ := cmd.Flags().GetBool("ascii"); ascii {
		glyphs = ui.ASCIIGlyphs()
	}

	model := ui.New(s.mgr, ui.Options{
		Camera:        cfg.Camera,
		FrameInterval: cfg.FrameInterval,
		Glyphs:        glyphs,
		Source:        cfg.Data,
	}, log.Named("ui"))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	if cfg.Watch && cfg.Data != "" && !source.IsRemote(cfg.Data) {
		go runWatchLoop(ctx, s, p)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// runWatchLoop re-reads the data document on every change and hands it to
// the running program.
func runWatchLoop(ctx context.Context, s *session, p *tea.Program) {
	log := s.log.Named("watch")

	w, err := watch.New(s.cfg.Data)
	if err != nil {
		log.Warn("cannot watch %s: %v", s.cfg.Data, err)
		return
	}
	if err := w.Start(); err != nil {
		log.Warn("cannot watch %s: %v", s.cfg.Data, err)
		return
	}
	defer w.Stop()
	log.Debug("watching %s", w.File)

	for {
		select {
		case <-ctx.Done():
			log.Debug("watch loop shutting down")
			return
		case _, ok := <-w.Changes:
			if !ok {
				return
			}
			p.Send(reload(ctx, s.fetcher, s.cfg, log))
		}
	}
}

// reload fetches and parses the data document into a ui.ReloadMsg.
func reload(ctx context.Context, f *source.Fetcher, cfg config.Config, log *logging.Logger) ui.ReloadMsg {
	msg := ui.ReloadMsg{Location: cfg.Data}

	res := f.Fetch(ctx, cfg.Data)
	if res.Err != nil {
		msg.Err = res.Err
		return msg
	}
	msg.Doc, msg.Err = achievements.Parse(res.Data, cfg.Shape)
	if msg.Err == nil {
		log.Debug("reloaded %s in %v", cfg.Data, res.Duration)
	}
	return msg
}
