package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConversationsModel is a Bubble Tea model for the conversations list.
type ConversationsModel struct {
	rows     []ConversationRow
	cursor   int
	width    int
	height   int
	quitting bool
}

// NewConversationsModel creates a new conversations model.
func NewConversationsModel(rows []ConversationRow) ConversationsModel {
	return ConversationsModel{rows: rows}
}

// Init implements tea.Model.
func (m ConversationsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConversationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m ConversationsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Conversations"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(ValueStyle.Render("(no conversations)"))
	}

	for i, row := range m.rows {
		name := row.Name
		if name == "" {
			name = row.ID
		}
		line := fmt.Sprintf("%-30s %4d msgs", truncate(name, 30), row.Events)
		if row.Unread > 0 {
			line += "  " + UnreadStyle.Render(fmt.Sprintf("%d unread", row.Unread))
		}
		if row.LastActivity != "" {
			line += "  " + TimeStyle.Render(row.LastActivity)
		}

		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + ValueStyle.Render(line))
		}
		b.WriteString("\n")
	}

	help := HelpStyle.Render("↑/↓ navigate · q quit")
	return BoxStyle.Render(b.String()) + "\n" + help
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
	Up   key.Binding
	Down key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

// RunConversationsTUI runs the conversations TUI.
func RunConversationsTUI(data any) error {
	rows, ok := data.([]ConversationRow)
	if !ok {
		return fmt.Errorf("invalid data type for conversations view")
	}
	model := NewConversationsModel(rows)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderConversationsStatic renders the list without full TUI (for fallback).
func RenderConversationsStatic(rows []ConversationRow) string {
	model := NewConversationsModel(rows)
	model.width = 80
	model.height = 24
	return lipgloss.NewStyle().Padding(1, 2).Render(model.View())
}
