package tui

import (
	"fmt"
)

// View payload types shared between TUI and non-TUI rendering. Commands
// build these from client state; the renderer passes them through
// unchanged.

// ConversationRow is one row of the conversations view.
type ConversationRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Participants int    `json:"participants"`
	Events       int    `json:"events"`
	Unread       int    `json:"unread"`
	LastActivity string `json:"last_activity"`
}

// MessageRow is one row of the history view.
type MessageRow struct {
	Time   string `json:"time"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// HistoryView is the history view payload.
type HistoryView struct {
	ConversationID string       `json:"conversation_id"`
	Name           string       `json:"name"`
	Messages       []MessageRow `json:"messages"`
}

// Run starts the appropriate TUI based on the view type.
// Returns an error if the view type doesn't support TUI.
func Run(viewType string, data any) error {
	switch viewType {
	case "conversations":
		return RunConversationsTUI(data)
	case "history":
		return RunHistoryTUI(data)
	default:
		return fmt.Errorf("TUI mode is not supported for %s", viewType)
	}
}

// IsTUISupported returns true if the view type supports TUI mode.
// Only the read-only conversations and history views support TUI.
func IsTUISupported(viewType string) bool {
	switch viewType {
	case "conversations", "history":
		return true
	}
	return false
}

// SupportedTUIViews returns a list of view types that support TUI.
func SupportedTUIViews() []string {
	return []string{"conversations", "history"}
}
