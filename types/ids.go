// Package types defines core domain types for the Parley client.
package types

// ConversationID is an opaque server-assigned conversation identifier.
// It keys all per-conversation state.
type ConversationID string

// EventID is an opaque server-assigned event identifier, unique within
// its conversation.
type EventID string

// UserID identifies a participant. Either half may be absent; the server
// populates whichever identifiers it has for the account.
type UserID struct {
	// GaiaID is the account-level identifier.
	GaiaID string
	// ChatID is the chat-backend identifier.
	ChatID string
}

// IsZero reports whether neither identifier is populated.
func (u UserID) IsZero() bool {
	return u.GaiaID == "" && u.ChatID == ""
}

// Key returns the canonical map key for this participant: the gaia id
// when present, otherwise the chat id.
func (u UserID) Key() string {
	if u.GaiaID != "" {
		return u.GaiaID
	}
	return u.ChatID
}

// Equal reports participant equality. Comparison is by gaia id when both
// sides carry one, otherwise by chat id.
func (u UserID) Equal(o UserID) bool {
	if u.GaiaID != "" && o.GaiaID != "" {
		return u.GaiaID == o.GaiaID
	}
	return u.ChatID == o.ChatID
}
