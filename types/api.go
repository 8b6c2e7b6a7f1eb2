package types

// RequestHeader is attached to every API request.
type RequestHeader struct {
	ClientVersion    *ClientVersion
	ClientIdentifier *ClientIdentifier
	LanguageCode     string
}

// ClientVersion identifies the client build to the server.
type ClientVersion struct {
	MajorVersion string
}

// ClientIdentifier carries the channel-assigned client resource id.
// Resource may be empty before the push channel has assigned one.
type ClientIdentifier struct {
	Resource string
}

// ResponseHeader is attached to every API response.
type ResponseHeader struct {
	Status            ResponseStatus
	ErrorDescription  string
	DebugURL          string
	RequestTraceID    string
	CurrentServerTime int64
}

// EventRequestHeader is attached to requests that create conversation
// events.
type EventRequestHeader struct {
	ConversationID ConversationID
	// ClientGeneratedID lets the server dedup resent requests.
	ClientGeneratedID uint64
	ExpectedOTR       OffTheRecordStatus
	DeliveryMedium    *DeliveryMedium
	EventType         EventType
}

// ConversationSpec selects a conversation in fetch requests.
type ConversationSpec struct {
	ConversationID ConversationID
}

// InviteeID identifies an account being invited to a conversation.
type InviteeID struct {
	GaiaID       string
	FallbackName string
}

// PresenceStateSetting is the presence a client asks the server to
// report for it.
type PresenceStateSetting struct {
	TimeoutSecs int64
	Type        ClientPresenceState
}

// EntityLookupSpec selects an account in directory lookups.
type EntityLookupSpec struct {
	GaiaID string
	ChatID string
	Email  string
}

// SyncAllNewEventsRequest asks for all events across conversations at
// or after LastSyncTimestamp.
type SyncAllNewEventsRequest struct {
	RequestHeader        *RequestHeader
	LastSyncTimestamp    int64
	MaxResponseSizeBytes int64
}

// SyncAllNewEventsResponse carries the new events grouped per
// conversation. SyncTimestamp is the new catch-up cursor.
type SyncAllNewEventsResponse struct {
	ResponseHeader     *ResponseHeader
	SyncTimestamp      int64
	ConversationStates []*ConversationState
}

// SyncRecentConversationsRequest asks for the most recent conversations
// with a bounded event window each.
type SyncRecentConversationsRequest struct {
	RequestHeader            *RequestHeader
	MaxConversations         int32
	MaxEventsPerConversation int32
	SyncFilters              []SyncFilter
}

// SyncRecentConversationsResponse mirrors SyncAllNewEventsResponse for
// the recent-conversations bootstrap.
type SyncRecentConversationsResponse struct {
	ResponseHeader     *ResponseHeader
	SyncTimestamp      int64
	ConversationStates []*ConversationState
}

// GetConversationRequest fetches one conversation's metadata and,
// optionally, a page of events ending at the continuation token.
type GetConversationRequest struct {
	RequestHeader            *RequestHeader
	ConversationSpec         *ConversationSpec
	IncludeEvents            bool
	MaxEventsPerConversation int32
	EventContinuationToken   *EventContinuationToken
}

// GetConversationResponse carries the requested conversation state.
type GetConversationResponse struct {
	ResponseHeader    *ResponseHeader
	ConversationState *ConversationState
}

// SendChatMessageRequest sends a chat message.
type SendChatMessageRequest struct {
	RequestHeader      *RequestHeader
	EventRequestHeader *EventRequestHeader
	MessageContent     *MessageContent
}

// SendChatMessageResponse carries the event the server created for the
// sent message.
type SendChatMessageResponse struct {
	ResponseHeader *ResponseHeader
	CreatedEvent   *Event
}

// UpdateWatermarkRequest advances this account's read position.
type UpdateWatermarkRequest struct {
	RequestHeader     *RequestHeader
	ConversationID    ConversationID
	LastReadTimestamp int64
}

// UpdateWatermarkResponse acknowledges a watermark update.
type UpdateWatermarkResponse struct {
	ResponseHeader *ResponseHeader
}

// SetTypingRequest reports this account's typing state.
type SetTypingRequest struct {
	RequestHeader  *RequestHeader
	ConversationID ConversationID
	Type           TypingType
}

// SetTypingResponse acknowledges a typing report.
type SetTypingResponse struct {
	ResponseHeader *ResponseHeader
	Timestamp      int64
}

// SetFocusRequest reports this account focusing a conversation.
type SetFocusRequest struct {
	RequestHeader  *RequestHeader
	ConversationID ConversationID
	Type           FocusType
	TimeoutSecs    int64
}

// SetFocusResponse acknowledges a focus report.
type SetFocusResponse struct {
	ResponseHeader *ResponseHeader
	Timestamp      int64
}

// SetPresenceRequest sets this client's presence.
type SetPresenceRequest struct {
	RequestHeader        *RequestHeader
	PresenceStateSetting *PresenceStateSetting
	MoodMessage          *MessageContent
}

// SetPresenceResponse acknowledges a presence change.
type SetPresenceResponse struct {
	ResponseHeader *ResponseHeader
}

// QueryPresenceRequest asks for other participants' presence.
type QueryPresenceRequest struct {
	RequestHeader  *RequestHeader
	ParticipantIDs []UserID
	FieldMasks     []PresenceFieldMask
}

// QueryPresenceResponse carries the queried presence results.
type QueryPresenceResponse struct {
	ResponseHeader *ResponseHeader
	Presence       []*PresenceResult
}

// SetActiveClientRequest claims or releases notification ownership for
// this client.
type SetActiveClientRequest struct {
	RequestHeader *RequestHeader
	IsActive      bool
	FullJID       string
	TimeoutSecs   int64
}

// SetActiveClientResponse acknowledges an active client change.
type SetActiveClientResponse struct {
	ResponseHeader *ResponseHeader
}

// CreateConversationRequest creates a one-to-one or group conversation.
type CreateConversationRequest struct {
	RequestHeader     *RequestHeader
	Type              ConversationType
	ClientGeneratedID uint64
	InviteeIDs        []*InviteeID
}

// CreateConversationResponse carries the created (or pre-existing
// one-to-one) conversation.
type CreateConversationResponse struct {
	ResponseHeader         *ResponseHeader
	ConversationState      *ConversationState
	NewConversationCreated bool
}

// AddUserRequest invites accounts to an existing group conversation.
type AddUserRequest struct {
	RequestHeader      *RequestHeader
	EventRequestHeader *EventRequestHeader
	InviteeIDs         []*InviteeID
}

// AddUserResponse carries the membership change event.
type AddUserResponse struct {
	ResponseHeader *ResponseHeader
	CreatedEvent   *Event
}

// RemoveUserRequest leaves a group conversation.
type RemoveUserRequest struct {
	RequestHeader      *RequestHeader
	EventRequestHeader *EventRequestHeader
}

// RemoveUserResponse carries the membership change event.
type RemoveUserResponse struct {
	ResponseHeader *ResponseHeader
	CreatedEvent   *Event
}

// RenameConversationRequest renames a conversation.
type RenameConversationRequest struct {
	RequestHeader      *RequestHeader
	EventRequestHeader *EventRequestHeader
	NewName            string
}

// RenameConversationResponse carries the rename event.
type RenameConversationResponse struct {
	ResponseHeader *ResponseHeader
	CreatedEvent   *Event
}

// DeleteConversationRequest clears a one-to-one conversation's history
// up to the upper bound timestamp.
type DeleteConversationRequest struct {
	RequestHeader             *RequestHeader
	ConversationID            ConversationID
	DeleteUpperBoundTimestamp int64
}

// DeleteConversationResponse carries the resulting delete action.
type DeleteConversationResponse struct {
	ResponseHeader *ResponseHeader
	DeleteAction   *DeleteAction
}

// SetNotificationLevelRequest sets a conversation's ring setting.
type SetNotificationLevelRequest struct {
	RequestHeader  *RequestHeader
	ConversationID ConversationID
	Level          NotificationLevel
}

// SetNotificationLevelResponse acknowledges a ring setting change.
type SetNotificationLevelResponse struct {
	ResponseHeader *ResponseHeader
}

// EasterEggRequest sends an easter egg to a conversation.
type EasterEggRequest struct {
	RequestHeader  *RequestHeader
	ConversationID ConversationID
	EasterEgg      *EasterEgg
}

// EasterEggResponse acknowledges an easter egg.
type EasterEggResponse struct {
	ResponseHeader *ResponseHeader
}

// GetSelfInfoRequest asks for this account's directory entry.
type GetSelfInfoRequest struct {
	RequestHeader *RequestHeader
}

// GetSelfInfoResponse carries this account's directory entry.
type GetSelfInfoResponse struct {
	ResponseHeader *ResponseHeader
	SelfEntity     *Entity
}

// GetEntityByIDRequest looks up directory entries for accounts.
type GetEntityByIDRequest struct {
	RequestHeader    *RequestHeader
	BatchLookupSpecs []*EntityLookupSpec
}

// GetEntityByIDResponse carries the looked-up entries.
type GetEntityByIDResponse struct {
	ResponseHeader *ResponseHeader
	Entities       []*Entity
}

// SearchEntitiesRequest searches the directory for people.
type SearchEntitiesRequest struct {
	RequestHeader *RequestHeader
	Query         string
	MaxCount      int32
}

// SearchEntitiesResponse carries directory search results.
type SearchEntitiesResponse struct {
	ResponseHeader *ResponseHeader
	Entities       []*Entity
}
