// Package demux classifies pushed state updates into typed
// notifications.
//
// A state update is a tagged union. Exactly one variant should be
// populated, but the server occasionally violates that; classification
// resolves the conflict by picking the variant with the lowest wire
// field number and logging a diagnostic for the rest. An update with no
// populated variant classifies as NoOp, never as an error.
package demux

import (
	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/types"
)

// Kind identifies the notification variant a state update carries.
type Kind int

const (
	// KindNoOp is an update with no recognized variant, typically one
	// whose variant was added by a newer server revision.
	KindNoOp Kind = iota
	KindEvent
	KindFocus
	KindTyping
	KindNotificationLevel
	KindReplyToInvite
	KindWatermark
	KindViewModification
	KindEasterEgg
	KindSelfPresence
	KindDelete
	KindPresence
	KindBlock
	KindNotificationSetting
	KindRichPresenceEnabled
)

var kindNames = map[Kind]string{
	KindNoOp:                "noop",
	KindEvent:               "event",
	KindFocus:               "set_focus",
	KindTyping:              "set_typing",
	KindNotificationLevel:   "set_notification_level",
	KindReplyToInvite:       "reply_to_invite",
	KindWatermark:           "watermark",
	KindViewModification:    "view_modification",
	KindEasterEgg:           "easter_egg",
	KindSelfPresence:        "self_presence",
	KindDelete:              "delete_action",
	KindPresence:            "presence",
	KindBlock:               "block",
	KindNotificationSetting: "set_notification_setting",
	KindRichPresenceEnabled: "rich_presence_enabled",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Notification is one classified state update. Update retains the full
// decoded union so handlers can reach the variant payload; Conversation
// is the metadata snapshot to merge before dispatch, nil when the
// server sent none.
type Notification struct {
	Kind           Kind
	ConversationID types.ConversationID
	Conversation   *types.Conversation
	Update         *types.StateUpdate
}

// Demux classifies state updates.
type Demux struct {
	logger *log.Logger
}

// New creates a demultiplexer. logger may be log.Nop() in tests.
func New(logger *log.Logger) *Demux {
	return &Demux{logger: logger}
}

// variants lists the union fields in ascending wire field number order.
// This order is the classification priority.
func variants(u *types.StateUpdate) []struct {
	kind Kind
	set  bool
} {
	return []struct {
		kind Kind
		set  bool
	}{
		{KindEvent, u.EventNotification != nil},
		{KindFocus, u.FocusNotification != nil},
		{KindTyping, u.TypingNotification != nil},
		{KindNotificationLevel, u.NotificationLevelNotification != nil},
		{KindReplyToInvite, u.ReplyToInviteNotification != nil},
		{KindWatermark, u.WatermarkNotification != nil},
		{KindViewModification, u.ViewModification != nil},
		{KindEasterEgg, u.EasterEggNotification != nil},
		{KindSelfPresence, u.SelfPresenceNotification != nil},
		{KindDelete, u.DeleteNotification != nil},
		{KindPresence, u.PresenceNotification != nil},
		{KindBlock, u.BlockNotification != nil},
		{KindNotificationSetting, u.NotificationSettingNotification != nil},
		{KindRichPresenceEnabled, u.RichPresenceEnabledNotification != nil},
	}
}

// Classify resolves a state update to a single notification. Multiple
// populated variants resolve to the lowest field number; none resolves
// to NoOp.
func (d *Demux) Classify(u *types.StateUpdate) Notification {
	chosen := KindNoOp
	populated := 0
	for _, v := range variants(u) {
		if !v.set {
			continue
		}
		populated++
		if chosen == KindNoOp {
			chosen = v.kind
		}
	}

	if populated > 1 {
		d.logger.Warn("state update populated multiple variants", map[string]any{
			"chosen":    chosen.String(),
			"populated": populated,
		})
	}
	if chosen == KindNoOp {
		d.logger.Debug("state update carried no recognized variant", map[string]any{
			"conversation_id": string(u.ConversationIDRef()),
		})
	}

	return Notification{
		Kind:           chosen,
		ConversationID: u.ConversationIDRef(),
		Conversation:   u.Conversation,
		Update:         u,
	}
}

// ClassifyBatch classifies every update in a batch, preserving delivery
// order.
func (d *Demux) ClassifyBatch(b *types.BatchUpdate) []Notification {
	if b == nil {
		return nil
	}
	out := make([]Notification, 0, len(b.StateUpdates))
	for _, u := range b.StateUpdates {
		out = append(out, d.Classify(u))
	}
	return out
}
