package wire

import (
	"errors"
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/parley-im/parley/types"
)

func boolPtr(v bool) *bool { return &v }

func chatEvent(conv types.ConversationID, id types.EventID, ts int64, text string) *types.Event {
	return &types.Event{
		ConversationID: conv,
		SenderID:       types.UserID{GaiaID: "108", ChatID: "108"},
		Timestamp:      ts,
		EventID:        id,
		ChatMessage: &types.ChatMessage{
			Content: &types.MessageContent{
				Segments: []*types.Segment{{Type: types.SegmentTypeText, Text: text}},
			},
		},
		EventType: types.EventTypeRegularChatMessage,
	}
}

func TestEvent_RoundTrip(t *testing.T) {
	event := chatEvent("conv-1", "evt-1", 1000, "hello")
	event.AdvancesSortTimestamp = boolPtr(false)
	event.EventOTR = types.OffTheRecordStatusOnTheRecord
	event.DeliveryMedium = &types.DeliveryMedium{MediumType: types.DeliveryMediumBabel}
	event.ChatMessage.Content.Segments = append(event.ChatMessage.Content.Segments,
		&types.Segment{Type: types.SegmentTypeLineBreak},
		&types.Segment{
			Type:       types.SegmentTypeLink,
			Text:       "example.com",
			Formatting: &types.Formatting{Bold: true},
			LinkData:   &types.LinkData{LinkTarget: "https://example.com"},
		},
	)

	decoded, err := DecodeEvent(EncodeEvent(event))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, event) {
		t.Errorf("decoded = %+v, want %+v", decoded, event)
	}
	if decoded.Text() != "hello\nexample.com" {
		t.Errorf("Text() = %q, want %q", decoded.Text(), "hello\nexample.com")
	}
}

func TestEvent_ExplicitPresence(t *testing.T) {
	unset := chatEvent("conv-1", "evt-1", 1000, "a")
	decoded, err := DecodeEvent(EncodeEvent(unset))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.AdvancesSortTimestamp != nil {
		t.Errorf("AdvancesSortTimestamp = %v, want nil", *decoded.AdvancesSortTimestamp)
	}

	explicit := chatEvent("conv-1", "evt-2", 1001, "b")
	explicit.AdvancesSortTimestamp = boolPtr(false)
	decoded, err = DecodeEvent(EncodeEvent(explicit))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.AdvancesSortTimestamp == nil || *decoded.AdvancesSortTimestamp {
		t.Errorf("AdvancesSortTimestamp = %v, want explicit false", decoded.AdvancesSortTimestamp)
	}
}

func TestEvent_MembershipChange(t *testing.T) {
	event := &types.Event{
		ConversationID: "conv-1",
		SenderID:       types.UserID{GaiaID: "108"},
		Timestamp:      2000,
		EventID:        "evt-2",
		MembershipChange: &types.MembershipChange{
			Type:           types.MembershipChangeTypeJoin,
			ParticipantIDs: []types.UserID{{GaiaID: "201"}, {GaiaID: "202"}},
		},
		EventType: types.EventTypeAddUser,
	}

	decoded, err := DecodeEvent(EncodeEvent(event))
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.PayloadOf() != types.PayloadMembershipChange {
		t.Fatalf("PayloadOf = %v, want PayloadMembershipChange", decoded.PayloadOf())
	}
	if !reflect.DeepEqual(decoded.MembershipChange, event.MembershipChange) {
		t.Errorf("MembershipChange = %+v, want %+v", decoded.MembershipChange, event.MembershipChange)
	}
}

func TestEvent_UnknownFieldsSkipped(t *testing.T) {
	event := chatEvent("conv-1", "evt-1", 1000, "hello")
	raw := EncodeEvent(event)

	// Fields a newer server revision might add: a varint, a nested
	// message, and a fixed64, all with unused numbers.
	raw = protowire.AppendTag(raw, 99, protowire.VarintType)
	raw = protowire.AppendVarint(raw, 7)
	raw = protowire.AppendTag(raw, 100, protowire.BytesType)
	raw = protowire.AppendBytes(raw, []byte{0x08, 0x01})
	raw = protowire.AppendTag(raw, 101, protowire.Fixed64Type)
	raw = protowire.AppendFixed64(raw, 42)

	decoded, err := DecodeEvent(raw)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, event) {
		t.Errorf("decoded = %+v, want %+v", decoded, event)
	}
}

func TestEvent_WireTypeMismatchSkipped(t *testing.T) {
	// Timestamp (field 3) sent as bytes instead of varint. The field is
	// skipped, not an error, and stays zero.
	event := chatEvent("conv-1", "evt-1", 0, "hello")
	raw := EncodeEvent(event)
	raw = protowire.AppendTag(raw, 3, protowire.BytesType)
	raw = protowire.AppendBytes(raw, []byte("not a varint"))

	decoded, err := DecodeEvent(raw)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.Timestamp != 0 {
		t.Errorf("Timestamp = %d, want 0", decoded.Timestamp)
	}
	if decoded.EventID != "evt-1" {
		t.Errorf("EventID = %q, want %q", decoded.EventID, "evt-1")
	}
}

func TestEvent_TruncatedVarint(t *testing.T) {
	raw := protowire.AppendTag(nil, 3, protowire.VarintType)
	raw = append(raw, 0x80) // continuation bit with no terminator

	_, err := DecodeEvent(raw)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("DecodeEvent error = %v, want *DecodeError", err)
	}
	if decErr.Kind != KindMalformedFrame {
		t.Errorf("Kind = %v, want KindMalformedFrame", decErr.Kind)
	}
}

func TestEvent_TruncatedLengthPrefix(t *testing.T) {
	// Length-delimited field declaring more bytes than remain.
	raw := protowire.AppendTag(nil, 12, protowire.BytesType)
	raw = protowire.AppendVarint(raw, 50)
	raw = append(raw, []byte("short")...)

	_, err := DecodeEvent(raw)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("DecodeEvent error = %v, want *DecodeError", err)
	}
	if decErr.Kind != KindMalformedFrame {
		t.Errorf("Kind = %v, want KindMalformedFrame", decErr.Kind)
	}
}

func TestStateUpdate_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		update *types.StateUpdate
	}{
		{
			name: "event",
			update: &types.StateUpdate{
				Header: &types.StateUpdateHeader{
					ActiveClientState: types.ActiveClientStateIsActive,
					RequestTraceID:    "trace-1",
					CurrentServerTime: 5000,
				},
				EventNotification: &types.EventNotification{
					Event: chatEvent("conv-1", "evt-1", 1000, "hi"),
				},
			},
		},
		{
			name: "typing",
			update: &types.StateUpdate{
				TypingNotification: &types.SetTypingNotification{
					ConversationID: "conv-1",
					SenderID:       types.UserID{GaiaID: "108", ChatID: "108"},
					Timestamp:      1234,
					Type:           types.TypingTypeStarted,
				},
			},
		},
		{
			name: "watermark",
			update: &types.StateUpdate{
				WatermarkNotification: &types.WatermarkNotification{
					SenderID:            types.UserID{GaiaID: "108", ChatID: "108"},
					ConversationID:      "conv-1",
					LatestReadTimestamp: 9999,
				},
			},
		},
		{
			name: "delete",
			update: &types.StateUpdate{
				DeleteNotification: &types.DeleteActionNotification{
					ConversationID: "conv-1",
					DeleteAction: &types.DeleteAction{
						DeleteActionTimestamp:     800,
						DeleteUpperBoundTimestamp: 750,
						DeleteType:                types.DeleteTypeUpperBound,
					},
				},
			},
		},
		{
			name: "presence",
			update: &types.StateUpdate{
				PresenceNotification: &types.PresenceNotification{
					Presence: []*types.PresenceResult{{
						UserID:   types.UserID{GaiaID: "201", ChatID: "201"},
						Presence: &types.Presence{Reachable: boolPtr(true), Available: boolPtr(false)},
					}},
				},
			},
		},
		{
			name: "rich presence toggle",
			update: &types.StateUpdate{
				RichPresenceEnabledNotification: &types.RichPresenceEnabledNotification{
					Enabled: boolPtr(false),
				},
			},
		},
		{
			name: "conversation snapshot only",
			update: &types.StateUpdate{
				Conversation: &types.Conversation{
					ConversationID: "conv-1",
					Type:           types.ConversationTypeGroup,
					Name:           "release crew",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeStateUpdate(EncodeStateUpdate(tt.update))
			if err != nil {
				t.Fatalf("DecodeStateUpdate failed: %v", err)
			}
			if !reflect.DeepEqual(decoded, tt.update) {
				t.Errorf("decoded = %+v, want %+v", decoded, tt.update)
			}
		})
	}
}

func TestStateUpdate_MultipleVariantsSurviveDecode(t *testing.T) {
	// A server bug can populate two variants at once. The codec keeps
	// both; classification resolves the conflict downstream.
	update := &types.StateUpdate{
		EventNotification: &types.EventNotification{
			Event: chatEvent("conv-1", "evt-1", 1000, "hi"),
		},
		TypingNotification: &types.SetTypingNotification{
			ConversationID: "conv-1",
			SenderID:       types.UserID{GaiaID: "108", ChatID: "108"},
			Type:           types.TypingTypeStarted,
		},
	}

	decoded, err := DecodeStateUpdate(EncodeStateUpdate(update))
	if err != nil {
		t.Fatalf("DecodeStateUpdate failed: %v", err)
	}
	if decoded.EventNotification == nil {
		t.Error("EventNotification = nil, want populated")
	}
	if decoded.TypingNotification == nil {
		t.Error("TypingNotification = nil, want populated")
	}
}

func TestStateUpdate_DoNotDisturbPresence(t *testing.T) {
	update := &types.StateUpdate{
		Header: &types.StateUpdateHeader{
			NotificationSettings: &types.NotificationSettings{
				DNDSetting: &types.DoNotDisturbSetting{
					DoNotDisturb:        boolPtr(false),
					ExpirationTimestamp: 7777,
					Version:             3,
				},
			},
		},
		SelfPresenceNotification: &types.SelfPresenceNotification{
			PresenceState: types.ClientPresenceStateDesktopActive,
		},
	}

	decoded, err := DecodeStateUpdate(EncodeStateUpdate(update))
	if err != nil {
		t.Fatalf("DecodeStateUpdate failed: %v", err)
	}
	dnd := decoded.Header.NotificationSettings.DNDSetting
	if dnd.DoNotDisturb == nil || *dnd.DoNotDisturb {
		t.Errorf("DoNotDisturb = %v, want explicit false", dnd.DoNotDisturb)
	}
	if dnd.ExpirationTimestamp != 7777 {
		t.Errorf("ExpirationTimestamp = %d, want 7777", dnd.ExpirationTimestamp)
	}
}

func TestConversationState_RoundTrip(t *testing.T) {
	state := &types.ConversationState{
		ConversationID: "conv-1",
		Conversation: &types.Conversation{
			ConversationID: "conv-1",
			Type:           types.ConversationTypeOneToOne,
			SelfState: &types.UserConversationState{
				SelfReadState: &types.UserReadState{
					ParticipantID:       types.UserID{GaiaID: "108", ChatID: "108"},
					LatestReadTimestamp: 900,
				},
				NotificationLevel: types.NotificationLevelRing,
			},
			ReadStates: []*types.UserReadState{{
				ParticipantID:       types.UserID{GaiaID: "201", ChatID: "201"},
				LatestReadTimestamp: 850,
			}},
			OTRStatus:           types.OffTheRecordStatusOnTheRecord,
			CurrentParticipants: []types.UserID{{GaiaID: "108", ChatID: "108"}, {GaiaID: "201", ChatID: "201"}},
			ParticipantData: []*types.ConversationParticipantData{{
				ID:           types.UserID{GaiaID: "201", ChatID: "201"},
				FallbackName: "Sam",
			}},
		},
		Events: []*types.Event{
			chatEvent("conv-1", "evt-1", 1000, "one"),
			chatEvent("conv-1", "evt-2", 1001, "two"),
		},
		EventContinuationToken: &types.EventContinuationToken{
			EventID:        "evt-1",
			StorageToken:   []byte{0xde, 0xad, 0xbe, 0xef},
			EventTimestamp: 1000,
		},
	}

	decoded, err := DecodeConversationState(EncodeConversationState(state))
	if err != nil {
		t.Fatalf("DecodeConversationState failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, state) {
		t.Errorf("decoded = %+v, want %+v", decoded, state)
	}
}

func TestPushFrame_ClientID(t *testing.T) {
	frame := &types.PushFrame{ClientID: "res-abc123"}

	decoded, err := DecodePushFrame(EncodePushFrame(frame))
	if err != nil {
		t.Fatalf("DecodePushFrame failed: %v", err)
	}
	if decoded.ClientID != "res-abc123" {
		t.Errorf("ClientID = %q, want %q", decoded.ClientID, "res-abc123")
	}
	if decoded.BatchUpdate != nil {
		t.Errorf("BatchUpdate = %+v, want nil", decoded.BatchUpdate)
	}
}

func TestPushFrame_BatchUpdate(t *testing.T) {
	frame := &types.PushFrame{
		BatchUpdate: &types.BatchUpdate{
			StateUpdates: []*types.StateUpdate{
				{EventNotification: &types.EventNotification{
					Event: chatEvent("conv-1", "evt-1", 1000, "first"),
				}},
				{TypingNotification: &types.SetTypingNotification{
					ConversationID: "conv-2",
					SenderID:       types.UserID{GaiaID: "201", ChatID: "201"},
					Type:           types.TypingTypeStopped,
				}},
			},
		},
	}

	decoded, err := DecodePushFrame(EncodePushFrame(frame))
	if err != nil {
		t.Fatalf("DecodePushFrame failed: %v", err)
	}
	if !reflect.DeepEqual(decoded, frame) {
		t.Errorf("decoded = %+v, want %+v", decoded, frame)
	}
}
