package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.mode == helpMode {
		return m.viewHelp()
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.viewInput(),
		m.viewStatus(),
	)

	if m.width-sidebarWidth-1 < 20 {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), " ", main)
}

func (m Model) roleStyle(role models.Role) lipgloss.Style {
	switch role {
	case models.RoleUser:
		return m.styles.userLabel
	case models.RoleAssistant:
		return m.styles.assistantLabel
	default:
		return m.styles.systemLabel
	}
}

func (m Model) renderTranscript() string {
	width := m.viewport.Width
	var b strings.Builder

	for i, msg := range m.snap.Messages {
		label := m.roleStyle(msg.Role).Render(strings.ToUpper(string(msg.Role)))

		text := msg.Text
		if text == "" && msg.Role == models.RoleAssistant && m.snap.Sending && i == len(m.snap.Messages)-1 {
			text = m.spinner.View()
		}
		body := m.styles.message.Width(width).Render(text)
		if m.mode == browseMode && i == m.selectedMsg {
			body = m.styles.selectedMsg.Width(width).Render(text)
		}

		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m Model) viewInput() string {
	if m.mode == editMode {
		return m.styles.inputBox.Render(m.editor.View())
	}
	return m.styles.inputBox.Render(m.input.View())
}

func (m Model) viewStatus() string {
	if m.snap.Err != "" {
		return m.styles.errText.Render(m.snap.Err)
	}

	var parts []string
	if m.snap.Sending {
		parts = append(parts, m.spinner.View()+"streaming (esc cancels)")
	}
	parts = append(parts, "model: "+m.effectiveModelLabel())
	if left := m.snap.Usage; left != nil && left.PremiumRequestsLeft != nil {
		parts = append(parts, fmt.Sprintf("%d premium left", *left.PremiumRequestsLeft))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, m.hint())

	return m.styles.statusBar.Render(strings.Join(parts, " • "))
}

func (m Model) effectiveModelLabel() string {
	if m.snap.SelectedModel != "" {
		return m.snap.SelectedModel
	}
	if len(m.snap.AvailableModels) > 0 {
		return m.snap.AvailableModels[0]
	}
	return "gpt-4o"
}

func (m Model) hint() string {
	switch m.mode {
	case inputMode:
		return "enter send • esc browse • tab sessions • ? help"
	case browseMode:
		return "j/k move • e edit • d delete • r resend • y copy • i type"
	case sidebarMode:
		return "j/k move • enter open • n new • d delete • m model • x export • q quit"
	case editMode:
		return "ctrl+s save • enter newline • esc discard"
	}
	return ""
}

func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(m.styles.sidebarTitle.Render("Chats"))
	b.WriteString("\n\n")

	for i, s := range m.snap.Sessions {
		title := s.Title
		if title == "" {
			title = models.DefaultTitle
		}
		if runes := []rune(title); len(runes) > sidebarWidth-4 {
			title = string(runes[:sidebarWidth-4]) + "…"
		}

		line := title
		meta := fmt.Sprintf("%d msgs · %s", s.Messages, humanize.Time(s.LastUpdated))

		switch {
		case m.mode == sidebarMode && i == m.selectedSession:
			line = m.styles.sessionSelected.Render("› " + line)
			meta = m.styles.sessionSelected.Faint(true).Render(meta)
		case s.ID == m.snap.CurrentID:
			line = m.styles.sessionCurrent.Render(line)
			meta = m.styles.sessionItem.Render(meta)
		default:
			line = m.styles.sessionItem.Render(line)
			meta = m.styles.sessionItem.Render(meta)
		}

		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(meta)
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(sidebarWidth).Render(b.String())
}

func (m Model) viewHelp() string {
	help := `pilotchat

Typing
  enter        send message
  esc          browse transcript (or cancel a running stream)
  tab          focus the session list

Browsing (esc from the input)
  j/k          select message
  e            edit selected message (ctrl+s saves, esc discards)
  d            delete selected message (the system message resets instead)
  r            resend selected user message, discarding what followed
  y            copy selected message to the clipboard
  i            back to typing

Sessions (tab)
  enter        open session
  n            new chat
  d            delete session (the last one stays)
  x            export session to markdown
  m            cycle through available models
  t            toggle light/dark theme
  q            quit

Anywhere
  ctrl+n       new chat
  ctrl+t       toggle theme
  ctrl+e       export current session
  ctrl+c       quit

Press any key to return.`
	return m.styles.help.Render(help)
}
