package journal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/parley-im/parley/types"
)

func event(id types.EventID, ts int64) *types.Event {
	return &types.Event{
		ConversationID: "conv-1",
		SenderID:       types.UserID{GaiaID: "108"},
		Timestamp:      ts,
		EventID:        id,
		ChatMessage: &types.ChatMessage{
			Content: &types.MessageContent{
				Segments: []*types.Segment{{Type: types.SegmentTypeText, Text: string(id)}},
			},
		},
		EventType: types.EventTypeRegularChatMessage,
	}
}

func eventIDs(events []*types.Event) []types.EventID {
	ids := make([]types.EventID, len(events))
	for i, e := range events {
		ids[i] = e.EventID
	}
	return ids
}

func TestAppend_OrderInvariance(t *testing.T) {
	j := New("conv-1")

	res, err := j.Append(event("e3", 3000), event("e1", 1000), event("e2", 2000))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if res.Inserted != 3 || res.Duplicates != 0 {
		t.Errorf("AppendResult = %+v, want Inserted=3 Duplicates=0", res)
	}

	got := eventIDs(j.Events())
	want := []types.EventID{"e1", "e2", "e3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Events() order = %v, want %v", got, want)
		}
	}
}

func TestAppend_Idempotent(t *testing.T) {
	j := New("conv-1")
	batch := []*types.Event{event("e1", 1000), event("e2", 2000)}

	if _, err := j.Append(batch...); err != nil {
		t.Fatalf("first Append failed: %v", err)
	}
	res, err := j.Append(batch...)
	if err != nil {
		t.Fatalf("second Append failed: %v", err)
	}
	if res.Inserted != 0 || res.Duplicates != 2 {
		t.Errorf("AppendResult = %+v, want Inserted=0 Duplicates=2", res)
	}
	if j.Len() != 2 {
		t.Errorf("Len = %d, want 2", j.Len())
	}
}

func TestAppend_FirstWriteWins(t *testing.T) {
	j := New("conv-1")

	original := event("e1", 1000)
	if _, err := j.Append(original); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// Same id, different content. The stored event must not change.
	replay := event("e1", 1000)
	replay.ChatMessage.Content.Segments[0].Text = "tampered"
	if _, err := j.Append(replay); err != nil {
		t.Fatalf("replay Append failed: %v", err)
	}

	if got := j.Events()[0].Text(); got != "e1" {
		t.Errorf("stored event text = %q, want %q", got, "e1")
	}
}

func TestAppend_EqualTimestampsOrderByEventID(t *testing.T) {
	j := New("conv-1")

	if _, err := j.Append(event("eB", 1000), event("eA", 1000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	got := eventIDs(j.Events())
	if got[0] != "eA" || got[1] != "eB" {
		t.Errorf("order = %v, want [eA eB]", got)
	}
}

func TestAppend_WrongConversationRejected(t *testing.T) {
	j := New("conv-1")

	stray := event("e1", 1000)
	stray.ConversationID = "conv-2"
	_, err := j.Append(event("e0", 500), stray)
	if !errors.Is(err, ErrWrongConversation) {
		t.Fatalf("Append error = %v, want ErrWrongConversation", err)
	}
	// Nothing may land on a rejected append.
	if j.Len() != 0 {
		t.Errorf("Len = %d, want 0", j.Len())
	}
}

func TestApplyWatermark_Monotonic(t *testing.T) {
	j := New("conv-1")
	sam := types.UserID{GaiaID: "201"}

	if !j.ApplyWatermark(sam, 5) {
		t.Error("ApplyWatermark(5) = false, want true")
	}
	if j.ApplyWatermark(sam, 3) {
		t.Error("ApplyWatermark(3) = true, want false (rewind)")
	}
	if !j.ApplyWatermark(sam, 8) {
		t.Error("ApplyWatermark(8) = false, want true")
	}
	if got := j.Watermark(sam); got != 8 {
		t.Errorf("Watermark = %d, want 8", got)
	}
}

func TestApplyWatermark_Idempotent(t *testing.T) {
	j := New("conv-1")
	sam := types.UserID{GaiaID: "201"}

	j.ApplyWatermark(sam, 5)
	if j.ApplyWatermark(sam, 5) {
		t.Error("re-applying the same watermark advanced it")
	}
	if got := j.Watermark(sam); got != 5 {
		t.Errorf("Watermark = %d, want 5", got)
	}
}

func TestUnreadCount(t *testing.T) {
	j := New("conv-1")
	sam := types.UserID{GaiaID: "201"}

	j.Append(event("e1", 1000), event("e2", 2000), event("e3", 3000))
	j.ApplyWatermark(sam, 2000)

	if got := j.UnreadCount(sam); got != 1 {
		t.Errorf("UnreadCount = %d, want 1", got)
	}
}

func TestApplyDelete_RetainsDeleteActionTimestamp(t *testing.T) {
	j := New("conv-1")
	j.Append(
		event("e1", 1000),
		event("e2", 2000),
		event("e3", 3000),
		event("e4", 4000),
	)

	removed := j.ApplyDelete(&types.DeleteAction{
		DeleteActionTimestamp:     2000,
		DeleteUpperBoundTimestamp: 3000,
		DeleteType:                types.DeleteTypeUpperBound,
	})
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	got := eventIDs(j.Events())
	want := []types.EventID{"e2", "e4"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Events() = %v, want %v", got, want)
	}

	// Deleted ids may legitimately be replayed by a later sync.
	res, err := j.Append(event("e1", 1000))
	if err != nil {
		t.Fatalf("Append after delete failed: %v", err)
	}
	if res.Inserted != 1 {
		t.Errorf("re-append after delete: Inserted = %d, want 1", res.Inserted)
	}
}

func TestContinuationToken_DerivedFromOldest(t *testing.T) {
	j := New("conv-1")
	if j.ContinuationToken() != nil {
		t.Error("empty journal token != nil")
	}

	j.Append(event("e2", 2000), event("e1", 1000))
	tok := j.ContinuationToken()
	if tok == nil {
		t.Fatal("ContinuationToken = nil, want derived token")
	}
	if tok.EventID != "e1" || tok.EventTimestamp != 1000 {
		t.Errorf("token = %+v, want oldest event e1@1000", tok)
	}
}

func TestContinuationToken_ServerIssuedWins(t *testing.T) {
	j := New("conv-1")
	j.Append(event("e1", 1000))

	issued := &types.EventContinuationToken{
		EventID:        "e0",
		StorageToken:   []byte{0x01},
		EventTimestamp: 500,
	}
	j.SetContinuationToken(issued)

	if got := j.ContinuationToken(); got != issued {
		t.Errorf("ContinuationToken = %+v, want the server-issued token", got)
	}
}

func TestRetention_TrimsOldest(t *testing.T) {
	j := New("conv-1", WithRetention(3))
	for i := 1; i <= 5; i++ {
		j.Append(event(types.EventID(fmt.Sprintf("e%d", i)), int64(i*1000)))
	}

	got := eventIDs(j.Events())
	want := []types.EventID{"e3", "e4", "e5"}
	if len(got) != 3 {
		t.Fatalf("Len = %d, want 3", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Events() = %v, want %v", got, want)
		}
	}

	// Trimmed events are no longer duplicates; a history page can
	// reinsert them.
	res, err := j.Append(event("e1", 1000))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if res.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", res.Inserted)
	}
}

func TestTable_GetOrCreate(t *testing.T) {
	table := NewTable()

	c1 := table.GetOrCreate("conv-1")
	c2 := table.GetOrCreate("conv-1")
	if c1 != c2 {
		t.Error("GetOrCreate returned distinct conversations for the same id")
	}
	if _, ok := table.Get("conv-2"); ok {
		t.Error("Get returned a conversation that was never created")
	}
	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1", table.Len())
	}
}

func TestTable_Delete(t *testing.T) {
	table := NewTable()
	table.GetOrCreate("conv-1")
	table.Delete("conv-1")
	if _, ok := table.Get("conv-1"); ok {
		t.Error("conversation survived Delete")
	}
}

func TestTable_ListOrdersByRecency(t *testing.T) {
	table := NewTable()

	a := table.GetOrCreate("conv-a")
	a.Journal().Append(event("e1", 1000))
	b := table.GetOrCreate("conv-b")
	b.Journal().Append(&types.Event{ConversationID: "conv-b", EventID: "e2", Timestamp: 5000})
	table.GetOrCreate("conv-c") // empty, sorts last

	got := table.List()
	want := []types.ConversationID{"conv-b", "conv-a", "conv-c"}
	for i := range want {
		if got[i].ID() != want[i] {
			t.Fatalf("List order = [%s %s %s], want %v", got[0].ID(), got[1].ID(), got[2].ID(), want)
		}
	}
}

func TestConversation_MergeDoesNotEraseKnownFields(t *testing.T) {
	table := NewTable()
	c := table.GetOrCreate("conv-1")

	c.Merge(&types.Conversation{
		ConversationID: "conv-1",
		Type:           types.ConversationTypeGroup,
		Name:           "release crew",
	})
	// Partial snapshot with the name omitted.
	c.Merge(&types.Conversation{
		ConversationID:      "conv-1",
		CurrentParticipants: []types.UserID{{GaiaID: "108"}, {GaiaID: "201"}},
	})

	meta := c.Meta()
	if meta.Name != "release crew" {
		t.Errorf("Name = %q, want %q", meta.Name, "release crew")
	}
	if meta.Type != types.ConversationTypeGroup {
		t.Errorf("Type = %v, want ConversationTypeGroup", meta.Type)
	}
	if len(meta.CurrentParticipants) != 2 {
		t.Errorf("CurrentParticipants = %d, want 2", len(meta.CurrentParticipants))
	}
}

func TestConversation_MergeAppliesReadStates(t *testing.T) {
	table := NewTable()
	c := table.GetOrCreate("conv-1")
	sam := types.UserID{GaiaID: "201"}

	c.Journal().ApplyWatermark(sam, 900)
	c.Merge(&types.Conversation{
		ConversationID: "conv-1",
		ReadStates: []*types.UserReadState{
			{ParticipantID: sam, LatestReadTimestamp: 1200},
		},
	})
	if got := c.Journal().Watermark(sam); got != 1200 {
		t.Errorf("Watermark = %d, want 1200", got)
	}

	// A stale snapshot must not rewind.
	c.Merge(&types.Conversation{
		ConversationID: "conv-1",
		ReadStates: []*types.UserReadState{
			{ParticipantID: sam, LatestReadTimestamp: 1000},
		},
	})
	if got := c.Journal().Watermark(sam); got != 1200 {
		t.Errorf("Watermark after stale merge = %d, want 1200", got)
	}
}

func TestConversation_Snapshot(t *testing.T) {
	table := NewTable()
	c := table.GetOrCreate("conv-1")
	c.Merge(&types.Conversation{ConversationID: "conv-1", Name: "release crew"})
	c.Journal().Append(event("e1", 1000), event("e2", 2000))

	snap := c.Snapshot()
	if snap.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q, want conv-1", snap.ConversationID)
	}
	if snap.Conversation.Name != "release crew" {
		t.Errorf("Name = %q, want %q", snap.Conversation.Name, "release crew")
	}
	if len(snap.Events) != 2 {
		t.Errorf("Events = %d, want 2", len(snap.Events))
	}
	if snap.EventContinuationToken == nil || snap.EventContinuationToken.EventID != "e1" {
		t.Errorf("token = %+v, want derived from e1", snap.EventContinuationToken)
	}
}
