package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings first.
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.snap.Sending && m.cancelSend != nil {
			m.cancelSend()
			m.status = "stream cancelled"
			return m, nil
		}

	case "ctrl+n":
		m.store.NewChat()
		m.selectedMsg = -1
		return m.refresh(), nil

	case "ctrl+t":
		m.store.ToggleTheme()
		return m.refresh(), nil

	case "ctrl+e":
		return m, m.exportSession()
	}

	switch m.mode {
	case inputMode:
		return m.updateInput(msg)
	case browseMode:
		return m.updateBrowse(msg)
	case sidebarMode:
		return m.updateSidebar(msg)
	case editMode:
		return m.updateEdit(msg)
	case helpMode:
		m.mode = inputMode
		m.input.Focus()
		return m, nil
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if !m.snap.Sending {
			cmd := m.startSend()
			return m, cmd
		}
		return m, nil

	case "esc":
		m.store.ClearError()
		m.input.Blur()
		m.mode = browseMode
		m.selectedMsg = len(m.snap.Messages) - 1
		return m, nil

	case "tab":
		m.input.Blur()
		m.mode = sidebarMode
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedMsg > 0 {
			m.selectedMsg--
		}
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case "down", "j":
		if m.selectedMsg < len(m.snap.Messages)-1 {
			m.selectedMsg++
		}
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil

	case "e":
		if m.selectedMsg >= 0 && !m.snap.Sending {
			m.store.StartEdit(m.selectedMsg)
			m.snap = m.store.Snapshot()
			m.editor.SetValue(m.snap.EditText)
			m.editor.Focus()
			m.mode = editMode
		}
		return m, nil

	case "d":
		if m.selectedMsg >= 0 && !m.snap.Sending {
			m.store.DeleteMessage(m.selectedMsg)
			m = m.refresh()
		}
		return m, nil

	case "r":
		if m.selectedMsg >= 0 && !m.snap.Sending &&
			m.snap.Messages[m.selectedMsg].Role == models.RoleUser {
			cmd := m.startResend(m.selectedMsg)
			return m, cmd
		}
		return m, nil

	case "y":
		if m.selectedMsg >= 0 {
			return m, copyMessage(m.snap.Messages[m.selectedMsg])
		}
		return m, nil

	case "tab":
		m.mode = sidebarMode
		return m, nil

	case "?":
		m.mode = helpMode
		return m, nil

	case "i", "esc":
		m.mode = inputMode
		m.selectedMsg = -1
		m.viewport.SetContent(m.renderTranscript())
		m.input.Focus()
		return m, nil
	}
	return m, nil
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedSession > 0 {
			m.selectedSession--
		}
		return m, nil

	case "down", "j":
		if m.selectedSession < len(m.snap.Sessions)-1 {
			m.selectedSession++
		}
		return m, nil

	case "enter":
		if m.selectedSession < len(m.snap.Sessions) {
			m.store.SwitchSession(m.snap.Sessions[m.selectedSession].ID)
			m = m.refresh()
			m.viewport.GotoBottom()
		}
		return m, nil

	case "n":
		m.store.NewChat()
		m.selectedSession = 0
		return m.refresh(), nil

	case "d":
		if m.selectedSession < len(m.snap.Sessions) {
			m.store.DeleteSession(m.snap.Sessions[m.selectedSession].ID)
			m = m.refresh()
		}
		return m, nil

	case "t":
		m.store.ToggleTheme()
		return m.refresh(), nil

	case "m":
		// Cycle through the discovered models.
		if n := len(m.snap.AvailableModels); n > 0 {
			next := 0
			for i, name := range m.snap.AvailableModels {
				if name == m.snap.SelectedModel {
					next = (i + 1) % n
				}
			}
			m.store.SetSelectedModel(m.snap.AvailableModels[next])
			m = m.refresh()
		}
		return m, nil

	case "x":
		return m, m.exportSession()

	case "?":
		m.mode = helpMode
		return m, nil

	case "q":
		return m, tea.Quit

	case "tab", "esc":
		m.mode = inputMode
		m.input.Focus()
		return m, nil
	}
	return m, nil
}

// updateEdit keeps enter free for newlines so multi-line messages stay
// editable; ctrl+s commits.
func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.store.SetEditText(m.editor.Value())
		m.store.SaveEdit(m.snap.EditIndex)
		m.editor.Blur()
		m.mode = browseMode
		return m.refresh(), nil

	case "esc":
		m.store.CancelEdit()
		m.editor.Blur()
		m.mode = browseMode
		return m.refresh(), nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}
