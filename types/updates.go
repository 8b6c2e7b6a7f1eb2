package types

// StateUpdateHeader is metadata attached to every state update.
type StateUpdateHeader struct {
	ActiveClientState ActiveClientState
	RequestTraceID    string
	// NotificationSettings uses explicit presence for do-not-disturb.
	NotificationSettings *NotificationSettings
	CurrentServerTime    int64
}

// NotificationSettings carries account-level notification state.
type NotificationSettings struct {
	DNDSetting *DoNotDisturbSetting
}

// DoNotDisturbSetting distinguishes "unset" from "explicitly off":
// DoNotDisturb is nil when the server omitted the field.
type DoNotDisturbSetting struct {
	DoNotDisturb        *bool
	ExpirationTimestamp int64
	Version             int64
}

// EventNotification delivers a new conversation event.
type EventNotification struct {
	Event *Event
}

// SetFocusNotification reports a participant focusing a conversation.
type SetFocusNotification struct {
	ConversationID ConversationID
	SenderID       UserID
	Timestamp      int64
	Type           FocusType
}

// SetTypingNotification reports a participant's typing state.
type SetTypingNotification struct {
	ConversationID ConversationID
	SenderID       UserID
	Timestamp      int64
	Type           TypingType
}

// SetNotificationLevelNotification reports a conversation ring setting
// change.
type SetNotificationLevelNotification struct {
	ConversationID ConversationID
	Level          NotificationLevel
	Timestamp      int64
}

// ReplyToInviteNotification reports an invite being accepted or
// declined.
type ReplyToInviteNotification struct {
	ConversationID ConversationID
	Type           ReplyToInviteType
}

// WatermarkNotification reports a participant's read position advancing.
type WatermarkNotification struct {
	SenderID            UserID
	ConversationID      ConversationID
	LatestReadTimestamp int64
}

// ConversationViewModification reports a conversation moving between
// inbox sections.
type ConversationViewModification struct {
	ConversationID ConversationID
	OldView        ConversationView
	NewView        ConversationView
}

// EasterEgg is an animation trigger.
type EasterEgg struct {
	Message string
}

// EasterEggNotification reports an easter egg sent to a conversation.
type EasterEggNotification struct {
	SenderID       UserID
	ConversationID ConversationID
	EasterEgg      *EasterEgg
}

// SelfPresenceNotification reports this account's own presence changing,
// usually because another client set it.
type SelfPresenceNotification struct {
	PresenceState ClientPresenceState
}

// DeleteActionNotification reports server-side history deletion for a
// conversation.
type DeleteActionNotification struct {
	ConversationID ConversationID
	DeleteAction   *DeleteAction
}

// PresenceNotification reports presence for a batch of participants.
type PresenceNotification struct {
	Presence []*PresenceResult
}

// BlockStateChange reports one participant being blocked or unblocked.
type BlockStateChange struct {
	ParticipantID UserID
	NewBlockState BlockState
}

// BlockNotification reports block list changes.
type BlockNotification struct {
	StateChanges []*BlockStateChange
}

// SetNotificationSettingNotification reports account notification
// settings changing.
type SetNotificationSettingNotification struct {
	DNDSetting *DoNotDisturbSetting
}

// RichPresenceEnabledNotification reports the rich presence sharing
// setting changing.
type RichPresenceEnabledNotification struct {
	Enabled *bool
}

// StateUpdate is the tagged union pushed by the server. Exactly one
// notification variant should be populated; the update demultiplexer
// resolves violations by lowest wire field number. Conversation, when
// present, is a metadata snapshot to merge before the notification is
// dispatched.
type StateUpdate struct {
	Header       *StateUpdateHeader
	Conversation *Conversation

	// Variants, in ascending wire field number order. This order is the
	// classification priority.
	EventNotification               *EventNotification
	FocusNotification               *SetFocusNotification
	TypingNotification              *SetTypingNotification
	NotificationLevelNotification   *SetNotificationLevelNotification
	ReplyToInviteNotification       *ReplyToInviteNotification
	WatermarkNotification           *WatermarkNotification
	ViewModification                *ConversationViewModification
	EasterEggNotification           *EasterEggNotification
	SelfPresenceNotification        *SelfPresenceNotification
	DeleteNotification              *DeleteActionNotification
	PresenceNotification            *PresenceNotification
	BlockNotification               *BlockNotification
	NotificationSettingNotification *SetNotificationSettingNotification
	RichPresenceEnabledNotification *RichPresenceEnabledNotification
}

// ConversationIDRef returns the conversation the update refers to, or
// "" for account-level updates.
func (u *StateUpdate) ConversationIDRef() ConversationID {
	switch {
	case u.EventNotification != nil && u.EventNotification.Event != nil:
		return u.EventNotification.Event.ConversationID
	case u.FocusNotification != nil:
		return u.FocusNotification.ConversationID
	case u.TypingNotification != nil:
		return u.TypingNotification.ConversationID
	case u.NotificationLevelNotification != nil:
		return u.NotificationLevelNotification.ConversationID
	case u.ReplyToInviteNotification != nil:
		return u.ReplyToInviteNotification.ConversationID
	case u.WatermarkNotification != nil:
		return u.WatermarkNotification.ConversationID
	case u.ViewModification != nil:
		return u.ViewModification.ConversationID
	case u.EasterEggNotification != nil:
		return u.EasterEggNotification.ConversationID
	case u.DeleteNotification != nil:
		return u.DeleteNotification.ConversationID
	case u.Conversation != nil:
		return u.Conversation.ConversationID
	}
	return ""
}

// BatchUpdate is the push channel payload: state updates in delivery
// order.
type BatchUpdate struct {
	StateUpdates []*StateUpdate
}

// PushFrame is one decoded push channel frame. Frames either assign the
// channel's client resource id or carry a batch of state updates.
type PushFrame struct {
	ClientID    string
	BatchUpdate *BatchUpdate
}
