package types

// PayloadKind labels which payload variant an Event carries. Exactly one
// variant is populated on well-formed events; PayloadOf picks the first
// populated variant when the server violates that.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadChatMessage
	PayloadMembershipChange
	PayloadConversationRename
	PayloadHangoutEvent
	PayloadOTRModification
)

// Segment is one formatted run of a chat message.
type Segment struct {
	Type       SegmentType
	Text       string
	Formatting *Formatting
	LinkData   *LinkData
}

// Formatting holds text styling for a segment.
type Formatting struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
}

// LinkData is the target of a link segment.
type LinkData struct {
	LinkTarget string
}

// MessageContent is the body of a chat message.
type MessageContent struct {
	Segments []*Segment
}

// Text flattens the message segments into a plain string.
func (m *MessageContent) Text() string {
	if m == nil {
		return ""
	}
	var out string
	for _, s := range m.Segments {
		switch s.Type {
		case SegmentTypeLineBreak:
			out += "\n"
		default:
			out += s.Text
		}
	}
	return out
}

// ChatMessage is the payload of a regular chat message event.
type ChatMessage struct {
	Content *MessageContent
}

// MembershipChange is the payload of a join/leave event.
type MembershipChange struct {
	Type           MembershipChangeType
	ParticipantIDs []UserID
}

// ConversationRename is the payload of a rename event.
type ConversationRename struct {
	NewName string
	OldName string
}

// HangoutEvent is the payload of a video call lifecycle event.
type HangoutEvent struct {
	EventType      HangoutEventType
	ParticipantIDs []UserID
}

// OTRModification is the payload of a history on/off toggle event.
type OTRModification struct {
	OldStatus OffTheRecordStatus
	NewStatus OffTheRecordStatus
}

// DeliveryMedium identifies how an event was delivered.
type DeliveryMedium struct {
	MediumType DeliveryMediumType
}

// Event is a single immutable conversation event. Events are totally
// ordered within a conversation by (Timestamp, EventID) and are never
// mutated after creation.
type Event struct {
	ConversationID ConversationID
	SenderID       UserID
	// Timestamp is the server-assigned time in microseconds since epoch.
	Timestamp int64
	EventID   EventID

	ChatMessage        *ChatMessage
	MembershipChange   *MembershipChange
	ConversationRename *ConversationRename
	HangoutEvent       *HangoutEvent
	OTRModification    *OTRModification

	// AdvancesSortTimestamp distinguishes unset from explicit false; an
	// unset value means the conversation sort order does advance.
	AdvancesSortTimestamp *bool
	EventOTR              OffTheRecordStatus
	DeliveryMedium        *DeliveryMedium
	EventType             EventType
}

// PayloadOf returns the populated payload variant, scanning in a fixed
// order so the result is deterministic even on malformed events.
func (e *Event) PayloadOf() PayloadKind {
	switch {
	case e.ChatMessage != nil:
		return PayloadChatMessage
	case e.MembershipChange != nil:
		return PayloadMembershipChange
	case e.ConversationRename != nil:
		return PayloadConversationRename
	case e.HangoutEvent != nil:
		return PayloadHangoutEvent
	case e.OTRModification != nil:
		return PayloadOTRModification
	}
	return PayloadNone
}

// Text returns the flattened chat message text, or "" for non-message
// events.
func (e *Event) Text() string {
	if e.ChatMessage == nil {
		return ""
	}
	return e.ChatMessage.Content.Text()
}

// Before reports whether e sorts strictly before o in the conversation
// order (Timestamp, then EventID).
func (e *Event) Before(o *Event) bool {
	if e.Timestamp != o.Timestamp {
		return e.Timestamp < o.Timestamp
	}
	return e.EventID < o.EventID
}

// EventContinuationToken is an opaque cursor for resuming event fetches
// strictly after a known point. Tokens are only valid for the
// conversation they were issued from. Callers may read EventTimestamp
// for display decisions; StorageToken must not be interpreted.
type EventContinuationToken struct {
	EventID        EventID
	StorageToken   []byte
	EventTimestamp int64
}
