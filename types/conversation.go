package types

// UserReadState is a participant's read watermark within a conversation.
type UserReadState struct {
	ParticipantID UserID
	// LatestReadTimestamp is microseconds since epoch; zero means the
	// server omitted the field.
	LatestReadTimestamp int64
}

// ConversationParticipantData carries display information for one
// participant.
type ConversationParticipantData struct {
	ID           UserID
	FallbackName string
}

// UserConversationState is the requesting user's own state within a
// conversation.
type UserConversationState struct {
	SelfReadState     *UserReadState
	NotificationLevel NotificationLevel
	Views             []ConversationView
}

// Conversation is server-provided conversation metadata. Snapshots of it
// arrive embedded in state updates and sync responses; fields the server
// omits stay zero and must not overwrite prior known values on merge.
type Conversation struct {
	ConversationID      ConversationID
	Type                ConversationType
	Name                string
	SelfState           *UserConversationState
	ReadStates          []*UserReadState
	OTRStatus           OffTheRecordStatus
	CurrentParticipants []UserID
	ParticipantData     []*ConversationParticipantData
}

// ParticipantName returns the display name for a participant, or the
// participant key when the server sent no fallback name.
func (c *Conversation) ParticipantName(id UserID) string {
	for _, pd := range c.ParticipantData {
		if pd.ID.Equal(id) && pd.FallbackName != "" {
			return pd.FallbackName
		}
	}
	return id.Key()
}

// ConversationState is the wire grouping of a conversation snapshot, a
// window of its events, and the continuation token for older history.
type ConversationState struct {
	ConversationID         ConversationID
	Conversation           *Conversation
	Events                 []*Event
	EventContinuationToken *EventContinuationToken
}

// DeleteAction describes a server-side history deletion. Events up to
// DeleteUpperBoundTimestamp are removed; the event stamped exactly
// DeleteActionTimestamp is retained per observed server behavior.
type DeleteAction struct {
	DeleteActionTimestamp     int64
	DeleteUpperBoundTimestamp int64
	DeleteType                DeleteType
}

// Presence is a participant's reachability as reported by the server.
// Reachable and Available use explicit presence: nil means the server
// did not report the field, which is distinct from false.
type Presence struct {
	Reachable *bool
	Available *bool
}

// PresenceResult pairs a participant with their presence.
type PresenceResult struct {
	UserID   UserID
	Presence *Presence
}

// Entity is directory information about an account.
type Entity struct {
	ID         UserID
	Properties *EntityProperties
}

// EntityProperties is the displayable subset of an entity's profile.
type EntityProperties struct {
	DisplayName string
	PhotoURL    string
	Emails      []string
}
