package demux

import (
	"testing"

	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/types"
)

func TestClassify_SingleVariant(t *testing.T) {
	tests := []struct {
		name     string
		update   *types.StateUpdate
		wantKind Kind
		wantConv types.ConversationID
	}{
		{
			name: "event",
			update: &types.StateUpdate{
				EventNotification: &types.EventNotification{
					Event: &types.Event{ConversationID: "conv-1", EventID: "evt-1"},
				},
			},
			wantKind: KindEvent,
			wantConv: "conv-1",
		},
		{
			name: "typing",
			update: &types.StateUpdate{
				TypingNotification: &types.SetTypingNotification{
					ConversationID: "conv-2",
					Type:           types.TypingTypeStarted,
				},
			},
			wantKind: KindTyping,
			wantConv: "conv-2",
		},
		{
			name: "watermark",
			update: &types.StateUpdate{
				WatermarkNotification: &types.WatermarkNotification{
					ConversationID:      "conv-3",
					LatestReadTimestamp: 500,
				},
			},
			wantKind: KindWatermark,
			wantConv: "conv-3",
		},
		{
			name: "self presence is account level",
			update: &types.StateUpdate{
				SelfPresenceNotification: &types.SelfPresenceNotification{
					PresenceState: types.ClientPresenceStateDesktopActive,
				},
			},
			wantKind: KindSelfPresence,
			wantConv: "",
		},
		{
			name: "rich presence toggle",
			update: &types.StateUpdate{
				RichPresenceEnabledNotification: &types.RichPresenceEnabledNotification{},
			},
			wantKind: KindRichPresenceEnabled,
			wantConv: "",
		},
	}

	d := New(log.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Classify(tt.update)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.ConversationID != tt.wantConv {
				t.Errorf("ConversationID = %q, want %q", got.ConversationID, tt.wantConv)
			}
			if got.Update != tt.update {
				t.Errorf("Update = %p, want the classified update", got.Update)
			}
		})
	}
}

func TestClassify_EmptyUpdateIsNoOp(t *testing.T) {
	d := New(log.Nop())

	got := d.Classify(&types.StateUpdate{})
	if got.Kind != KindNoOp {
		t.Errorf("Kind = %v, want KindNoOp", got.Kind)
	}
}

func TestClassify_LowestFieldNumberWins(t *testing.T) {
	d := New(log.Nop())

	// Event (field 3) beats typing (field 5).
	got := d.Classify(&types.StateUpdate{
		EventNotification: &types.EventNotification{
			Event: &types.Event{ConversationID: "conv-1", EventID: "evt-1"},
		},
		TypingNotification: &types.SetTypingNotification{ConversationID: "conv-1"},
	})
	if got.Kind != KindEvent {
		t.Errorf("Kind = %v, want KindEvent", got.Kind)
	}

	// Watermark (field 8) beats presence (field 13).
	got = d.Classify(&types.StateUpdate{
		WatermarkNotification: &types.WatermarkNotification{ConversationID: "conv-1"},
		PresenceNotification:  &types.PresenceNotification{},
	})
	if got.Kind != KindWatermark {
		t.Errorf("Kind = %v, want KindWatermark", got.Kind)
	}
}

func TestClassify_ConversationSnapshotCarried(t *testing.T) {
	d := New(log.Nop())

	conv := &types.Conversation{ConversationID: "conv-1", Name: "release crew"}
	got := d.Classify(&types.StateUpdate{
		Conversation: conv,
		TypingNotification: &types.SetTypingNotification{
			ConversationID: "conv-1",
		},
	})
	if got.Conversation != conv {
		t.Errorf("Conversation = %+v, want the snapshot", got.Conversation)
	}
}

func TestClassify_SnapshotOnlyUpdateIsNoOp(t *testing.T) {
	d := New(log.Nop())

	got := d.Classify(&types.StateUpdate{
		Conversation: &types.Conversation{ConversationID: "conv-1"},
	})
	if got.Kind != KindNoOp {
		t.Errorf("Kind = %v, want KindNoOp", got.Kind)
	}
	if got.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want %q", got.ConversationID, "conv-1")
	}
}

func TestClassifyBatch_PreservesOrder(t *testing.T) {
	d := New(log.Nop())

	batch := &types.BatchUpdate{
		StateUpdates: []*types.StateUpdate{
			{WatermarkNotification: &types.WatermarkNotification{ConversationID: "conv-1"}},
			{},
			{TypingNotification: &types.SetTypingNotification{ConversationID: "conv-2"}},
		},
	}

	got := d.ClassifyBatch(batch)
	want := []Kind{KindWatermark, KindNoOp, KindTyping}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("got[%d].Kind = %v, want %v", i, got[i].Kind, k)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindEvent.String() != "event" {
		t.Errorf("KindEvent.String() = %q, want %q", KindEvent.String(), "event")
	}
	if Kind(999).String() != "unknown" {
		t.Errorf("Kind(999).String() = %q, want %q", Kind(999).String(), "unknown")
	}
}
