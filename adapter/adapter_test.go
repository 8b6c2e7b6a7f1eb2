package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/types"
)

// blockingAdapter records published events and can be paused to build
// queue backpressure.
type blockingAdapter struct {
	mu     sync.Mutex
	events []*MessageEvent
	gate   chan struct{}
	closed bool
}

func newBlockingAdapter(gated bool) *blockingAdapter {
	a := &blockingAdapter{}
	if gated {
		a.gate = make(chan struct{})
	}
	return a
}

func (a *blockingAdapter) Publish(ctx context.Context, event *MessageEvent) error {
	if a.gate != nil {
		select {
		case <-a.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	a.mu.Lock()
	a.events = append(a.events, event)
	a.mu.Unlock()
	return nil
}

func (a *blockingAdapter) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	return nil
}

func (a *blockingAdapter) published() []*MessageEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*MessageEvent(nil), a.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func messageEvent(id string) *MessageEvent {
	return &MessageEvent{EventType: "message_received", EventID: id, Text: "hi"}
}

func TestDispatcher_FansOutToAllAdapters(t *testing.T) {
	a1 := newBlockingAdapter(false)
	a2 := newBlockingAdapter(false)
	d := NewDispatcher(log.Nop(), 8, a1, a2)
	defer func() { _ = d.Close() }()

	d.Enqueue(messageEvent("ev-1"))

	waitFor(t, func() bool {
		return len(a1.published()) == 1 && len(a2.published()) == 1
	})
	if got := a1.published()[0].EventID; got != "ev-1" {
		t.Errorf("EventID = %s, want ev-1", got)
	}
}

func TestDispatcher_DropsOldestWhenFull(t *testing.T) {
	a := newBlockingAdapter(true)
	d := NewDispatcher(log.Nop(), 2, a)
	defer func() { _ = d.Close() }()

	// The worker pulls one event and blocks on the gate; two more fill
	// the queue, the fourth forces a drop.
	d.Enqueue(messageEvent("ev-1"))
	waitFor(t, func() bool { return len(d.queue) == 0 })
	d.Enqueue(messageEvent("ev-2"))
	d.Enqueue(messageEvent("ev-3"))
	d.Enqueue(messageEvent("ev-4"))

	if got := d.Dropped(); got != 1 {
		t.Errorf("Dropped = %d, want 1", got)
	}

	close(a.gate)
	waitFor(t, func() bool { return len(a.published()) == 3 })

	ids := make([]string, 0, 3)
	for _, e := range a.published() {
		ids = append(ids, e.EventID)
	}
	want := []string{"ev-1", "ev-3", "ev-4"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("published = %v, want %v", ids, want)
		}
	}
}

func TestDispatcher_CloseStopsAndClosesAdapters(t *testing.T) {
	a := newBlockingAdapter(false)
	d := NewDispatcher(log.Nop(), 8, a)

	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !a.closed {
		t.Error("adapter not closed")
	}

	// Idempotent, and Enqueue after Close is a no-op.
	if err := d.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	d.Enqueue(messageEvent("ev-late"))
	if got := len(a.published()); got != 0 {
		t.Errorf("published after close = %d, want 0", got)
	}
}

type failingAdapter struct{}

func (failingAdapter) Publish(context.Context, *MessageEvent) error {
	return errors.New("downstream unavailable")
}
func (failingAdapter) Close() error { return nil }

func TestDispatcher_FailingAdapterDoesNotBlockOthers(t *testing.T) {
	ok := newBlockingAdapter(false)
	d := NewDispatcher(log.Nop(), 8, failingAdapter{}, ok)
	defer func() { _ = d.Close() }()

	d.Enqueue(messageEvent("ev-1"))
	waitFor(t, func() bool { return len(ok.published()) == 1 })
}

func TestNewMessageEvent(t *testing.T) {
	sender := types.UserID{GaiaID: "g-1", ChatID: "c-1"}
	e := &types.Event{
		ConversationID: "conv-1",
		SenderID:       sender,
		Timestamp:      1700000000000000,
		EventID:        "ev-1",
		ChatMessage: &types.ChatMessage{
			Content: &types.MessageContent{
				Segments: []*types.Segment{{Type: types.SegmentTypeText, Text: "hello"}},
			},
		},
		EventOTR: types.OffTheRecordStatusOffTheRecord,
	}
	conv := &types.Conversation{
		ConversationID: "conv-1",
		Name:           "Weekend plans",
		ParticipantData: []*types.ConversationParticipantData{
			{ID: sender, FallbackName: "Ada"},
		},
	}

	got := NewMessageEvent(e, conv)
	if got.ConversationName != "Weekend plans" {
		t.Errorf("ConversationName = %q", got.ConversationName)
	}
	if got.SenderName != "Ada" {
		t.Errorf("SenderName = %q, want Ada", got.SenderName)
	}
	if got.Text != "hello" {
		t.Errorf("Text = %q, want hello", got.Text)
	}
	if !got.OffTheRecord {
		t.Error("OffTheRecord = false, want true")
	}
	if got.Timestamp != "2023-11-14T22:13:20Z" {
		t.Errorf("Timestamp = %q", got.Timestamp)
	}

	if name := NewMessageEvent(e, nil).SenderName; name != "" {
		t.Errorf("SenderName without conversation = %q, want empty", name)
	}
}
