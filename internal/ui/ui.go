// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/camera"
	"github.com/epic-tm/completionist/internal/logging"
	"github.com/epic-tm/completionist/internal/state"
	"github.com/epic-tm/completionist/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewChart ViewMode = iota
	ViewDashboard
)

const (
	headerHeight = 1
	footerHeight = 1
)

// Msg types for Bubble Tea
type (
	// frameTickMsg drives one redraw of the chart.
	frameTickMsg time.Time

	// ReloadMsg carries a freshly loaded data document from the watcher.
	ReloadMsg struct {
		Doc      *achievements.Document
		Location string
		Err      error
	}
)

// Options configure the root model.
type Options struct {
	Camera        camera.Config
	FrameInterval time.Duration
	Glyphs        Glyphs
	Source        string
	Now           func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager
	log   *logging.Logger
	opts  Options
	keys  KeyMap
	ctx   context.Context

	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string

	chart     ChartModel
	dashboard DashboardModel
	admin     *AdminOverlay

	snapshot state.Snapshot
	revision uint64
}

// New creates a new root UI model.
func New(mgr *state.Manager, opts Options, log *logging.Logger) Model {
	if log == nil {
		log = logging.Discard()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 33 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		state:     mgr,
		log:       log,
		opts:      opts,
		keys:      DefaultKeyMap(),
		ctx:       context.Background(),
		viewMode:  ViewChart,
		chart:     NewChartModel(opts.Camera, mgr.LayoutConfig(), opts.Glyphs).WithClock(opts.Now),
		dashboard: NewDashboardModel(),
	}
	m.refresh()
	return m
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.opts.FrameInterval)
}

// refresh pulls a new snapshot into the sub-models.
func (m *Model) refresh() {
	m.snapshot = m.state.Snapshot()
	m.revision = m.snapshot.Revision
	m.chart = m.chart.UpdateData(m.snapshot)
	m.dashboard = m.dashboard.UpdateData(m.snapshot)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.admin != nil {
			cmds = append(cmds, m.updateAdmin(msg))
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Switch):
			m.viewMode = (m.viewMode + 1) % 2
		case key.Matches(msg, m.keys.Admin):
			m.openAdmin()
		case key.Matches(msg, m.keys.Complete) && m.viewMode == ViewChart:
			m.completeDetail()
		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.MouseMsg:
		if m.admin == nil && m.viewMode == ViewChart {
			msg.Y -= headerHeight
			var cmd tea.Cmd
			m.chart, cmd = m.chart.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentHeight := msg.Height - headerHeight - footerHeight
		m.chart = m.chart.SetSize(msg.Width, contentHeight)
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)

	case frameTickMsg:
		cmds = append(cmds, frameCmd(m.opts.FrameInterval))
		if m.state.Revision() != m.revision {
			m.refresh()
		}
		m.chart = m.chart.Step()

	case ReloadMsg:
		m.handleReload(msg)

	case HoverEnterMsg:
		// A status line describes the last action; moving on dismisses it.
		m.statusMsg = ""

	case FocusDomainMsg:
		m.chart = m.chart.FocusDomain(msg.Domain)
		m.viewMode = ViewChart

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewChart:
		m.chart, cmd = m.chart.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return cmd
}

func (m *Model) handleReload(msg ReloadMsg) {
	if msg.Err != nil {
		m.log.Warn("reload %s: %v", msg.Location, msg.Err)
		m.statusMsg = fmt.Sprintf("Reload failed: %v", msg.Err)
		return
	}
	if err := m.state.Reload(m.ctx, msg.Doc); err != nil {
		m.statusMsg = fmt.Sprintf("Reloaded, but saving failed: %v", err)
	} else {
		m.statusMsg = "Reloaded " + msg.Location
	}
	m.refresh()
}

// completeDetail completes the achievement in the open detail panel.
func (m *Model) completeDetail() {
	ref, ok := m.chart.Detail()
	if !ok {
		return
	}
	unlocked, err := m.state.Complete(m.ctx, ref)
	switch {
	case errors.Is(err, achievements.ErrLocked):
		m.statusMsg = "Locked: complete the previous tier first"
	case errors.Is(err, achievements.ErrNotFound):
		m.statusMsg = err.Error()
	case err != nil:
		m.statusMsg = fmt.Sprintf("Completed, but saving failed: %v", err)
	case unlocked > 0:
		m.statusMsg = fmt.Sprintf("Completed %s · next tier unlocked (%d)", ref, unlocked)
	default:
		m.statusMsg = "Completed " + ref.String()
	}
	m.refresh()
}

func (m *Model) openAdmin() {
	var (
		target *achievements.Ref
		item   achievements.Achievement
	)
	if ref, ok := m.chart.Detail(); ok && m.viewMode == ViewChart {
		if a, err := m.snapshot.Document.Get(ref); err == nil {
			target, item = &ref, *a
		}
	}
	m.admin = NewAdminOverlay(m.state.CheckAdmin, target, item)
}

func (m *Model) updateAdmin(msg tea.KeyMsg) tea.Cmd {
	req, cmd := m.admin.Update(msg)

	var err error
	switch req.Action {
	case AdminNone:
		return cmd
	case AdminClose:
		m.admin = nil
		return cmd
	case AdminUnlockAll:
		var n int
		n, err = m.state.UnlockAll(m.ctx)
		m.statusMsg = fmt.Sprintf("Unlocked %d achievements", n)
	case AdminResetAll:
		err = m.state.ResetAll(m.ctx)
		m.statusMsg = "Progress reset"
	case AdminSetStatus:
		err = m.state.SetStatus(m.ctx, req.Ref, req.Status)
		m.statusMsg = fmt.Sprintf("%s is now %s", req.Ref, req.Status)
	case AdminSetTitle:
		err = m.state.SetTitle(m.ctx, req.Ref, req.Value)
		m.statusMsg = "Title saved"
	case AdminSetDescription:
		err = m.state.SetDescription(m.ctx, req.Ref, req.Value)
		m.statusMsg = "Description saved"
	}
	if err != nil {
		m.log.Error("admin %d on %s: %v", req.Action, req.Ref, err)
		m.statusMsg = fmt.Sprintf("Admin edit failed: %v", err)
	}
	m.refresh()
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	contentHeight := m.height - headerHeight - footerHeight
	var content string
	switch {
	case m.admin != nil:
		content = m.admin.View(m.width, contentHeight)
	case m.viewMode == ViewDashboard:
		content = m.dashboard.View()
	default:
		content = m.chart.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

var (
	headerTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	activeTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

func (m Model) renderHeader() string {
	tabs := []string{"chart", "domains"}
	var b strings.Builder
	b.WriteString(headerTitleStyle.Render("✦ COMPLETIONIST"))
	b.WriteString(" ")
	for i, t := range tabs {
		if ViewMode(i) == m.viewMode {
			b.WriteString(activeTabStyle.Render(t))
		} else {
			b.WriteString(tabStyle.Render(t))
		}
	}
	c := m.snapshot.Overall
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d · %.0f%%  v%s", c.Completed, c.Total(), c.Fraction()*100, version.Version)))
	return b.String()
}

func (m Model) renderFooter() string {
	var parts []string
	if m.statusMsg != "" {
		parts = append(parts, statusStyle.Render(m.statusMsg))
	} else if m.viewMode == ViewChart {
		parts = append(parts, mutedStyle.Render(m.chart.StatusLine()))
	} else if m.opts.Source != "" {
		parts = append(parts, mutedStyle.Render("data "+m.opts.Source))
	}
	var help []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	parts = append(parts, mutedStyle.Render(strings.Join(help, " · ")))
	return strings.Join(parts, "  ")
}

// Snapshot returns the model's current data snapshot.
func (m Model) Snapshot() state.Snapshot {
	return m.snapshot
}

// Chart returns the chart sub-model.
func (m Model) Chart() ChartModel {
	return m.chart
}

// Mode returns the active view.
func (m Model) Mode() ViewMode {
	return m.viewMode
}

// StatusMessage returns the last status bar message.
func (m Model) StatusMessage() string {
	return m.statusMsg
}
