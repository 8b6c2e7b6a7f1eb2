package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HistoryModel is a Bubble Tea model for a conversation's message
// history, scrollable through a viewport.
type HistoryModel struct {
	view     HistoryView
	vp       viewport.Model
	ready    bool
	quitting bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(view HistoryView) HistoryModel {
	return HistoryModel{view: view}
}

// Init implements tea.Model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 3
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight)
			m.vp.SetContent(m.renderMessages())
			m.vp.GotoBottom()
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	title := m.view.Name
	if title == "" {
		title = m.view.ConversationID
	}
	header := TitleStyle.Render(title)
	help := HelpStyle.Render("↑/↓ scroll · q quit")

	if !m.ready {
		return header + "\n" + m.renderMessages() + "\n" + help
	}
	return header + "\n" + m.vp.View() + "\n" + help
}

func (m HistoryModel) renderMessages() string {
	if len(m.view.Messages) == 0 {
		return ValueStyle.Render("(no messages)")
	}

	var b strings.Builder
	for _, msg := range m.view.Messages {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			TimeStyle.Render(msg.Time),
			SenderStyle.Render(msg.Sender+":"),
			ValueStyle.Render(msg.Text)))
	}
	return b.String()
}

// RunHistoryTUI runs the history TUI.
func RunHistoryTUI(data any) error {
	view, ok := data.(HistoryView)
	if !ok {
		ptr, okPtr := data.(*HistoryView)
		if !okPtr {
			return fmt.Errorf("invalid data type for history view")
		}
		view = *ptr
	}
	model := NewHistoryModel(view)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderHistoryStatic renders the history without full TUI (for fallback).
func RenderHistoryStatic(view HistoryView) string {
	model := NewHistoryModel(view)
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
