package types

// ResponseStatus is the application-level status carried in every
// response header. Any value other than ResponseStatusOK is an error.
type ResponseStatus int32

const (
	ResponseStatusUnknown         ResponseStatus = 0
	ResponseStatusOK              ResponseStatus = 1
	ResponseStatusReloadSession   ResponseStatus = 2
	ResponseStatusRetryLimit      ResponseStatus = 3
	ResponseStatusUnexpectedError ResponseStatus = 4
	ResponseStatusInvalidRequest  ResponseStatus = 5
)

// ConversationType distinguishes one-to-one from group conversations.
type ConversationType int32

const (
	ConversationTypeUnknown  ConversationType = 0
	ConversationTypeOneToOne ConversationType = 1
	ConversationTypeGroup    ConversationType = 2
)

// EventType labels the payload an Event carries.
type EventType int32

const (
	EventTypeUnknown            EventType = 0
	EventTypeRegularChatMessage EventType = 1
	EventTypeAddUser            EventType = 4
	EventTypeRemoveUser         EventType = 5
	EventTypeConversationRename EventType = 6
	EventTypeHangout            EventType = 7
	EventTypeOTRModification    EventType = 9
)

// TypingType is the phase of a typing notification.
type TypingType int32

const (
	TypingTypeUnknown TypingType = 0
	TypingTypeStarted TypingType = 1
	TypingTypePaused  TypingType = 2
	TypingTypeStopped TypingType = 3
)

// FocusType reports whether a participant has a conversation focused.
type FocusType int32

const (
	FocusTypeUnknown   FocusType = 0
	FocusTypeFocused   FocusType = 1
	FocusTypeUnfocused FocusType = 2
)

// NotificationLevel controls whether a conversation rings.
type NotificationLevel int32

const (
	NotificationLevelUnknown NotificationLevel = 0
	NotificationLevelQuiet   NotificationLevel = 10
	NotificationLevelRing    NotificationLevel = 30
)

// OffTheRecordStatus controls whether events are saved to history.
type OffTheRecordStatus int32

const (
	OffTheRecordStatusUnknown      OffTheRecordStatus = 0
	OffTheRecordStatusOffTheRecord OffTheRecordStatus = 1
	OffTheRecordStatusOnTheRecord  OffTheRecordStatus = 2
)

// ClientPresenceState is the presence a client reports for itself.
type ClientPresenceState int32

const (
	ClientPresenceStateUnknown       ClientPresenceState = 0
	ClientPresenceStateNone          ClientPresenceState = 1
	ClientPresenceStateDesktopIdle   ClientPresenceState = 30
	ClientPresenceStateDesktopActive ClientPresenceState = 40
)

// DeliveryMediumType identifies the medium an event was delivered over.
type DeliveryMediumType int32

const (
	DeliveryMediumUnknown DeliveryMediumType = 0
	DeliveryMediumBabel   DeliveryMediumType = 1
	DeliveryMediumSMS     DeliveryMediumType = 2
)

// MembershipChangeType is the direction of a membership change event.
type MembershipChangeType int32

const (
	MembershipChangeTypeUnknown MembershipChangeType = 0
	MembershipChangeTypeJoin    MembershipChangeType = 1
	MembershipChangeTypeLeave   MembershipChangeType = 2
)

// HangoutEventType is the phase of a video call event.
type HangoutEventType int32

const (
	HangoutEventTypeUnknown HangoutEventType = 0
	HangoutEventTypeStart   HangoutEventType = 1
	HangoutEventTypeEnd     HangoutEventType = 2
	HangoutEventTypeJoin    HangoutEventType = 3
	HangoutEventTypeLeave   HangoutEventType = 4
)

// ActiveClientState reports which of the account's clients is active.
type ActiveClientState int32

const (
	ActiveClientStateNoActive    ActiveClientState = 0
	ActiveClientStateIsActive    ActiveClientState = 1
	ActiveClientStateOtherActive ActiveClientState = 2
)

// SegmentType labels a chat message segment.
type SegmentType int32

const (
	SegmentTypeText      SegmentType = 0
	SegmentTypeLineBreak SegmentType = 1
	SegmentTypeLink      SegmentType = 2
)

// SyncFilter selects which conversations a recent-conversations sync
// returns.
type SyncFilter int32

const (
	SyncFilterUnknown  SyncFilter = 0
	SyncFilterInbox    SyncFilter = 1
	SyncFilterArchived SyncFilter = 2
)

// ConversationView is the inbox section a conversation appears in.
type ConversationView int32

const (
	ConversationViewUnknown  ConversationView = 0
	ConversationViewInbox    ConversationView = 1
	ConversationViewArchived ConversationView = 2
)

// DeleteType labels a delete action.
type DeleteType int32

const (
	DeleteTypeUnknown    DeleteType = 0
	DeleteTypeUpperBound DeleteType = 1
)

// ReplyToInviteType is the response to a conversation invite.
type ReplyToInviteType int32

const (
	ReplyToInviteTypeUnknown ReplyToInviteType = 0
	ReplyToInviteTypeAccept  ReplyToInviteType = 1
	ReplyToInviteTypeDecline ReplyToInviteType = 2
)

// BlockState is the block status of a participant.
type BlockState int32

const (
	BlockStateUnknown BlockState = 0
	BlockStateBlock   BlockState = 1
	BlockStateUnblock BlockState = 2
)

// PresenceFieldMask selects which presence fields a query returns.
type PresenceFieldMask int32

const (
	PresenceFieldMaskReachable PresenceFieldMask = 1
	PresenceFieldMaskAvailable PresenceFieldMask = 2
	PresenceFieldMaskMood      PresenceFieldMask = 3
)
