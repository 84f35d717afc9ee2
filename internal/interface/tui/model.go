// Package tui is the terminal chat interface. It renders exclusively
// from chat store snapshots, polled on a short tick so streamed
// fragments show up as they arrive.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pilotchat/pilotchat/internal/core/chat"
	"github.com/pilotchat/pilotchat/internal/core/config"
)

type viewMode int

const (
	inputMode viewMode = iota
	browseMode
	sidebarMode
	editMode
	helpMode
)

const sidebarWidth = 30

type Model struct {
	store *chat.Store
	cfg   *config.Config

	mode     viewMode
	input    textarea.Model
	editor   textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	snap   chat.Snapshot
	styles theme

	// Message selection in browse mode; session selection in the sidebar.
	selectedMsg     int
	selectedSession int

	cancelSend context.CancelFunc
	status     string

	width  int
	height int
	ready  bool
}

func New(store *chat.Store, cfg *config.Config) Model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.CharLimit = 0
	input.Focus()

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.SetHeight(5)
	editor.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	snap := store.Snapshot()
	return Model{
		store:       store,
		cfg:         cfg,
		mode:        inputMode,
		input:       input,
		editor:      editor,
		spinner:     sp,
		snap:        snap,
		styles:      themeFor(snap.DarkMode),
		selectedMsg: -1,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, tick())
}

// refresh pulls a fresh snapshot and keeps derived UI state in range.
func (m Model) refresh() Model {
	wasBottom := m.viewport.AtBottom()
	prevLen := len(m.snap.Messages)

	m.snap = m.store.Snapshot()
	m.styles = themeFor(m.snap.DarkMode)

	if m.selectedMsg >= len(m.snap.Messages) {
		m.selectedMsg = len(m.snap.Messages) - 1
	}
	if m.selectedSession >= len(m.snap.Sessions) {
		m.selectedSession = len(m.snap.Sessions) - 1
	}
	if m.selectedSession < 0 {
		m.selectedSession = 0
	}

	if m.ready {
		m.viewport.SetContent(m.renderTranscript())
		// Follow the stream unless the user scrolled away.
		if m.snap.Sending && (wasBottom || len(m.snap.Messages) != prevLen) {
			m.viewport.GotoBottom()
		}
	}
	return m
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m = m.refresh()
		m.viewport.GotoBottom()
		return m, nil

	case tickMsg:
		m = m.refresh()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sendFinishedMsg:
		m.cancelSend = nil
		return m.refresh(), nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) layout() {
	contentWidth := m.width - sidebarWidth - 1
	if contentWidth < 20 {
		contentWidth = m.width
	}

	inputHeight := m.input.Height() + 2 // border
	transcriptHeight := m.height - inputHeight - 2
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	m.viewport = viewport.New(contentWidth, transcriptHeight)
	m.input.SetWidth(contentWidth - 2)
	m.editor.SetWidth(contentWidth - 2)
}
