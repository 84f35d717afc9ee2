package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pilotchat/pilotchat/internal/core/export"
	"github.com/pilotchat/pilotchat/internal/core/models"
)

type sendFinishedMsg struct{}

// statusMsg replaces the status bar text.
type statusMsg string

// startSend submits the typed input and streams the reply in the
// background. The cancel func is kept so esc can abort the stream.
func (m *Model) startSend() tea.Cmd {
	text := m.input.Value()
	m.store.SetUserInput(text)
	m.input.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelSend = cancel
	store := m.store
	return func() tea.Msg {
		store.SendMessage(ctx)
		return sendFinishedMsg{}
	}
}

// startResend truncates at the selected user message and resends it.
func (m *Model) startResend(index int) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelSend = cancel
	store := m.store
	return func() tea.Msg {
		store.ResendMessage(ctx, index)
		return sendFinishedMsg{}
	}
}

// copyMessage puts one message's text on the system clipboard.
func copyMessage(msg models.ChatMessage) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(msg.Text); err != nil {
			return statusMsg("clipboard unavailable: " + err.Error())
		}
		return statusMsg(fmt.Sprintf("copied %s message", msg.Role))
	}
}

// exportSession writes the current session as markdown into the working
// directory.
func (m Model) exportSession() tea.Cmd {
	store, template, model := m.store, m.cfg.ExportTemplate, m.snap.SelectedModel
	return func() tea.Msg {
		snap := store.Snapshot()
		session := &models.Session{
			ID:      snap.CurrentID,
			History: snap.Messages,
		}
		for _, s := range snap.Sessions {
			if s.ID == snap.CurrentID {
				session.Title = s.Title
			}
		}

		cwd, err := os.Getwd()
		if err != nil {
			return statusMsg("export failed: " + err.Error())
		}
		path, err := export.WriteFile(template, session, model, cwd)
		if err != nil {
			return statusMsg("export failed: " + err.Error())
		}
		return statusMsg("exported to " + path)
	}
}
