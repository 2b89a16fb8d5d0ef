package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/epic-tm/completionist/internal/achievements"
)

var (
	styleAdminOverlay = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205")).
				Padding(1, 2)

	styleAdminTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	styleAdminHint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	styleAdminError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

type adminStage int

const (
	stagePassword adminStage = iota
	stageMenu
	stageEditTitle
	stageEditDescription
)

// AdminAction is an edit requested from the admin overlay.
type AdminAction int

const (
	AdminNone AdminAction = iota
	AdminClose
	AdminUnlockAll
	AdminResetAll
	AdminSetStatus
	AdminSetTitle
	AdminSetDescription
)

// AdminRequest is returned by the overlay when the user confirms an edit.
type AdminRequest struct {
	Action AdminAction
	Ref    achievements.Ref
	Status achievements.Status
	Value  string
}

// AdminOverlay is the password-gated editing overlay. When opened on an
// achievement it can edit that achievement; otherwise only the bulk
// actions are offered.
type AdminOverlay struct {
	stage  adminStage
	input  textinput.Model
	check  func(string) bool
	target *achievements.Ref
	item   achievements.Achievement
	err    string
}

// NewAdminOverlay opens the overlay at the password prompt. check
// validates the password; target may be nil.
func NewAdminOverlay(check func(string) bool, target *achievements.Ref, item achievements.Achievement) *AdminOverlay {
	ti := textinput.New()
	ti.Prompt = "▸ "
	ti.Placeholder = "admin password"
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 128
	ti.Focus()

	return &AdminOverlay{
		stage:  stagePassword,
		input:  ti,
		check:  check,
		target: target,
		item:   item,
	}
}

// Update handles a key press and returns the requested action, if any.
func (o *AdminOverlay) Update(msg tea.KeyMsg) (AdminRequest, tea.Cmd) {
	switch o.stage {
	case stagePassword:
		switch msg.Type {
		case tea.KeyEsc:
			return AdminRequest{Action: AdminClose}, nil
		case tea.KeyEnter:
			if o.check == nil || !o.check(o.input.Value()) {
				o.err = "wrong password"
				o.input.Reset()
				return AdminRequest{}, nil
			}
			o.err = ""
			o.stage = stageMenu
			o.input.Reset()
			o.input.Blur()
			return AdminRequest{}, nil
		}
		var cmd tea.Cmd
		o.input, cmd = o.input.Update(msg)
		return AdminRequest{}, cmd

	case stageMenu:
		return o.updateMenu(msg), nil

	case stageEditTitle, stageEditDescription:
		switch msg.Type {
		case tea.KeyEsc:
			o.stage = stageMenu
			o.input.Blur()
			return AdminRequest{}, nil
		case tea.KeyEnter:
			req := AdminRequest{Action: AdminSetTitle, Ref: *o.target, Value: o.input.Value()}
			if o.stage == stageEditDescription {
				req.Action = AdminSetDescription
				o.item.Description = req.Value
			} else {
				o.item.Title = req.Value
			}
			o.stage = stageMenu
			o.input.Blur()
			return req, nil
		}
		var cmd tea.Cmd
		o.input, cmd = o.input.Update(msg)
		return AdminRequest{}, cmd
	}
	return AdminRequest{}, nil
}

func (o *AdminOverlay) updateMenu(msg tea.KeyMsg) AdminRequest {
	switch msg.String() {
	case "esc", "q":
		return AdminRequest{Action: AdminClose}
	case "u":
		return AdminRequest{Action: AdminUnlockAll}
	case "R":
		return AdminRequest{Action: AdminResetAll}
	}
	if o.target == nil {
		return AdminRequest{}
	}
	switch msg.String() {
	case "s":
		o.item.Status = nextStatus(o.item.Status)
		return AdminRequest{Action: AdminSetStatus, Ref: *o.target, Status: o.item.Status}
	case "t":
		o.beginEdit(stageEditTitle, o.item.Title)
	case "d":
		o.beginEdit(stageEditDescription, o.item.Description)
	}
	return AdminRequest{}
}

func (o *AdminOverlay) beginEdit(stage adminStage, value string) {
	o.stage = stage
	o.input.EchoMode = textinput.EchoNormal
	o.input.Placeholder = ""
	o.input.CharLimit = 512
	o.input.SetValue(value)
	o.input.CursorEnd()
	o.input.Focus()
}

// Authenticated reports whether the password was accepted.
func (o *AdminOverlay) Authenticated() bool {
	return o.stage != stagePassword
}

// nextStatus cycles locked → available → completed → locked.
func nextStatus(s achievements.Status) achievements.Status {
	switch s {
	case achievements.StatusLocked:
		return achievements.StatusAvailable
	case achievements.StatusAvailable:
		return achievements.StatusCompleted
	default:
		return achievements.StatusLocked
	}
}

// View renders the overlay centred in width×height.
func (o *AdminOverlay) View(width, height int) string {
	var b strings.Builder
	b.WriteString(styleAdminTitle.Render("ADMIN"))
	b.WriteString("\n\n")

	switch o.stage {
	case stagePassword:
		b.WriteString("Enter the admin password to edit achievements.\n\n")
		b.WriteString(o.input.View())
		if o.err != "" {
			b.WriteString("\n")
			b.WriteString(styleAdminError.Render(o.err))
		}
		b.WriteString("\n\n")
		b.WriteString(styleAdminHint.Render("[enter] unlock  [esc] cancel"))

	case stageMenu:
		if o.target != nil {
			b.WriteString(strings.ToUpper(o.item.Title))
			b.WriteString("  ")
			b.WriteString(styleAdminHint.Render(o.target.String() + " · " + string(o.item.Status)))
			b.WriteString("\n\n")
			b.WriteString("[s] cycle status\n[t] edit title\n[d] edit description\n")
		} else {
			b.WriteString(styleAdminHint.Render("open an achievement to edit it"))
			b.WriteString("\n\n")
		}
		b.WriteString("[u] unlock all\n[R] reset all progress\n\n")
		b.WriteString(styleAdminHint.Render("[esc] close"))

	case stageEditTitle, stageEditDescription:
		field := "Title"
		if o.stage == stageEditDescription {
			field = "Description"
		}
		b.WriteString(field + "\n\n")
		b.WriteString(o.input.View())
		b.WriteString("\n\n")
		b.WriteString(styleAdminHint.Render("[enter] save  [esc] back"))
	}

	box := styleAdminOverlay.Width(min(64, max(20, width-4))).Render(b.String())
	return centerOverlay(box, width, height)
}

// centerOverlay places content in the center of the given dimensions.
func centerOverlay(content string, width, height int) string {
	contentWidth := lipgloss.Width(content)
	contentHeight := lipgloss.Height(content)

	if width <= 0 || height <= 0 {
		return content
	}

	leftPad := 0
	if contentWidth < width {
		leftPad = (width - contentWidth) / 2
	}
	topPad := 0
	if contentHeight < height {
		topPad = (height - contentHeight) / 2
	}

	return lipgloss.NewStyle().
		PaddingLeft(leftPad).
		PaddingTop(topPad).
		Render(content)
}
