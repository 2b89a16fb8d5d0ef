package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/state"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	tierStyleDone = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	tierStyleLocked = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("249"))
)

// FocusDomainMsg asks the root model to show a domain on the chart.
type FocusDomainMsg struct {
	Domain int
}

// DashboardModel lists per-domain and per-tier progress.
type DashboardModel struct {
	width    int
	height   int
	cursor   int
	keys     KeyMap
	snapshot state.Snapshot
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel() DashboardModel {
	return DashboardModel{keys: DefaultKeyMap()}
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	if n := m.domainCount(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	return m
}

func (m DashboardModel) domainCount() int {
	if m.snapshot.Document == nil {
		return 0
	}
	return len(m.snapshot.Document.Domains)
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := m.domainCount()
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case keyMsg.String() == "home":
		m.cursor = 0
	case keyMsg.String() == "end":
		if n > 0 {
			m.cursor = n - 1
		}
	case key.Matches(keyMsg, m.keys.Select):
		if n > 0 {
			d := m.cursor
			return m, func() tea.Msg { return FocusDomainMsg{Domain: d} }
		}
	}
	return m, nil
}

// Cursor returns the selected domain index.
func (m DashboardModel) Cursor() int {
	return m.cursor
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.snapshot.LastError != nil {
		b.WriteString(errorStyle.Render("Error: " + m.snapshot.LastError.Error()))
		b.WriteString("\n\n")
	}

	doc := m.snapshot.Document
	if doc == nil {
		b.WriteString("Loading achievements...\n")
		return b.String()
	}

	b.WriteString(m.renderOverall())
	b.WriteString("\n\n")
	b.WriteString(m.renderDomainTable(doc))
	b.WriteString("\n")
	b.WriteString(m.renderTiers(doc))
	b.WriteString("\n")
	b.WriteString(m.renderEvents())

	return b.String()
}

func (m DashboardModel) renderOverall() string {
	c := m.snapshot.Overall
	return titleStyle.Render("Progress") + "  " +
		m.renderProgressBar(c.Fraction(), 30) +
		fmt.Sprintf(" %d/%d completed · %d available · %d locked", c.Completed, c.Total(), c.Available, c.Locked)
}

func (m DashboardModel) renderDomainTable(doc *achievements.Document) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Domains"))
	b.WriteString("\n")
	header := fmt.Sprintf("%-3s %-18s %-22s %-9s %-5s", "#", "Domain", "Progress", "Done", "Tiers")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, dom := range doc.Domains {
		var c achievements.Count
		if i < len(m.snapshot.PerDomain) {
			c = m.snapshot.PerDomain[i]
		} else {
			c = dom.Progress()
		}
		done := 0
		for _, t := range dom.Tiers {
			if t.Done() {
				done++
			}
		}
		row := fmt.Sprintf("%-3d %-18s %s %-9s %d/%d",
			i+1,
			truncate(dom.Name, 18),
			m.renderProgressBar(c.Fraction(), 20),
			fmt.Sprintf("%d/%d", c.Completed, c.Total()),
			done, len(dom.Tiers),
		)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderTiers lists the tiers of the selected domain.
func (m DashboardModel) renderTiers(doc *achievements.Document) string {
	if m.cursor >= len(doc.Domains) {
		return ""
	}
	dom := doc.Domains[m.cursor]

	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(dom.Name)))
	b.WriteString("\n")
	for t, tier := range dom.Tiers {
		c := tier.Progress()
		line := fmt.Sprintf("  %-16s %s %d/%d", truncate(tier.Name, 16), m.renderTierBar(tier), c.Completed, c.Total())
		switch {
		case tier.Done():
			b.WriteString(tierStyleDone.Render(line))
		case c.Available == 0 && c.Completed == 0 && t > 0:
			b.WriteString(tierStyleLocked.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.renderMissions(dom))
	return b.String()
}

// renderMissions lists the selected domain's missions and badges, if any.
func (m DashboardModel) renderMissions(dom achievements.Domain) string {
	if len(dom.Missions) == 0 && len(dom.Badges) == 0 {
		return ""
	}
	var b strings.Builder
	if len(dom.Missions) > 0 {
		open, total := dom.XP()
		fmt.Fprintf(&b, "  Missions  %d/%d XP open\n", open, total)
		for _, ms := range dom.Missions {
			line := fmt.Sprintf("    %-8s %-20s %5d XP", ms.Status, truncate(ms.Title, 20), ms.XP)
			if ms.Open() {
				b.WriteString(rowStyle.Render(line))
			} else {
				b.WriteString(tierStyleLocked.Render(line))
			}
			b.WriteString("\n")
		}
	}
	if len(dom.Badges) > 0 {
		b.WriteString("  Badges    " + strings.Join(dom.Badges, " · ") + "\n")
	}
	return b.String()
}

// renderTierBar draws one glyph per achievement.
func (m DashboardModel) renderTierBar(tier achievements.Tier) string {
	var b strings.Builder
	for _, a := range tier.Achievements {
		switch a.Status {
		case achievements.StatusCompleted:
			b.WriteRune('◆')
		case achievements.StatusAvailable:
			b.WriteRune('◇')
		default:
			b.WriteRune('·')
		}
	}
	return fmt.Sprintf("%-12s", b.String())
}

func (m DashboardModel) renderProgressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style lipgloss.Style
	switch {
	case frac >= 1:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	case frac >= 0.5:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	default:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	}

	return "[" + style.Render(bar) + "]"
}

// renderEvents shows the most recent progress events.
func (m DashboardModel) renderEvents() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString("  No activity yet\n")
		return b.String()
	}
	rows := max(3, m.height-len(m.snapshot.PerDomain)-20)
	if len(events) > rows {
		events = events[len(events)-rows:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		line := fmt.Sprintf("  %s %-9s %s", e.Timestamp.Local().Format("15:04:05"), e.Type, e.Describe())
		b.WriteString(eventStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
