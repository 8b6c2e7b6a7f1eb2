package channel

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/metrics"
	"github.com/parley-im/parley/types"
	"github.com/parley-im/parley/wire"
)

func pushFrame(f *types.PushFrame) []byte {
	return EncodeFrame(wire.EncodePushFrame(f))
}

func eventBatch(conv types.ConversationID, id types.EventID, ts int64) *types.BatchUpdate {
	return &types.BatchUpdate{
		StateUpdates: []*types.StateUpdate{{
			EventNotification: &types.EventNotification{
				Event: &types.Event{ConversationID: conv, EventID: id, Timestamp: ts},
			},
		}},
	}
}

func TestFrameDecoder_RoundTrip(t *testing.T) {
	payload := []byte("hello frames")
	decoder := NewFrameDecoder(bytes.NewReader(EncodeFrame(payload)))

	got, err := decoder.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %q, want %q", got, payload)
	}

	if _, err := decoder.ReadFrame(); err != io.EOF {
		t.Errorf("second ReadFrame = %v, want io.EOF", err)
	}
}

func TestFrameDecoder_PartialFrame(t *testing.T) {
	framed := EncodeFrame([]byte("truncated payload"))
	decoder := NewFrameDecoder(bytes.NewReader(framed[:len(framed)-3]))

	_, err := decoder.ReadFrame()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("ReadFrame error = %v, want *FrameError", err)
	}
	if frameErr.Kind != FrameErrorPartial {
		t.Errorf("Kind = %v, want FrameErrorPartial", frameErr.Kind)
	}
}

func TestFrameDecoder_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xff, 0xff, 0xff})
	decoder := NewFrameDecoder(&buf)

	_, err := decoder.ReadFrame()
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("ReadFrame error = %v, want *FrameError", err)
	}
	if frameErr.Kind != FrameErrorTooLarge {
		t.Errorf("Kind = %v, want FrameErrorTooLarge", frameErr.Kind)
	}
}

func TestRun_ClientIDThenBatches(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(pushFrame(&types.PushFrame{ClientID: "res-abc123"}))
	buf.Write(pushFrame(&types.PushFrame{BatchUpdate: eventBatch("conv-1", "e1", 1000)}))
	buf.Write(pushFrame(&types.PushFrame{BatchUpdate: eventBatch("conv-1", "e2", 2000)}))

	ch := New(NewReaderStream(&buf), log.Nop())
	var delivered []types.EventID
	err := ch.Run(context.Background(), func(b *types.BatchUpdate) error {
		for _, u := range b.StateUpdates {
			delivered = append(delivered, u.EventNotification.Event.EventID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if ch.ClientID() != "res-abc123" {
		t.Errorf("ClientID = %q, want %q", ch.ClientID(), "res-abc123")
	}
	if len(delivered) != 2 || delivered[0] != "e1" || delivered[1] != "e2" {
		t.Errorf("delivered = %v, want [e1 e2] in order", delivered)
	}
}

func TestRun_MalformedFrameSkipped(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(pushFrame(&types.PushFrame{BatchUpdate: eventBatch("conv-1", "e1", 1000)}))
	// Structurally invalid payload: lone continuation byte.
	buf.Write(EncodeFrame([]byte{0x08, 0x80}))
	buf.Write(pushFrame(&types.PushFrame{BatchUpdate: eventBatch("conv-1", "e2", 2000)}))

	col := metrics.NewCollector("test")
	ch := New(NewReaderStream(&buf), log.Nop(), WithCollector(col))
	var delivered []types.EventID
	err := ch.Run(context.Background(), func(b *types.BatchUpdate) error {
		delivered = append(delivered, b.StateUpdates[0].EventNotification.Event.EventID)
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(delivered) != 2 || delivered[1] != "e2" {
		t.Errorf("delivered = %v, want frames after the bad one", delivered)
	}
	if got := col.Snapshot().FramesMalformed; got != 1 {
		t.Errorf("FramesMalformed = %d, want 1", got)
	}
}

func TestRun_ClientIDFuncInvokedOnAssignment(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(pushFrame(&types.PushFrame{ClientID: "res-abc123"}))
	// Repeated id on a later frame must not re-fire the hook.
	buf.Write(pushFrame(&types.PushFrame{
		ClientID:    "res-abc123",
		BatchUpdate: eventBatch("conv-1", "e1", 1000),
	}))

	var assigned []string
	batches := 0
	ch := New(NewReaderStream(&buf), log.Nop(), WithClientIDFunc(func(id string) {
		assigned = append(assigned, id)
		if batches != 0 {
			t.Error("hook ran after a batch was delivered")
		}
	}))
	err := ch.Run(context.Background(), func(*types.BatchUpdate) error {
		batches++
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(assigned) != 1 || assigned[0] != "res-abc123" {
		t.Errorf("hook calls = %v, want one with res-abc123", assigned)
	}
	if batches != 1 {
		t.Errorf("batches = %d, want 1", batches)
	}
}

func TestRun_PartialFrameIsStreamError(t *testing.T) {
	framed := pushFrame(&types.PushFrame{BatchUpdate: eventBatch("conv-1", "e1", 1000)})
	ch := New(NewReaderStream(bytes.NewReader(framed[:len(framed)-2])), log.Nop())

	err := ch.Run(context.Background(), func(*types.BatchUpdate) error { return nil })
	if !IsStreamError(err) {
		t.Fatalf("Run error = %v, want stream error", err)
	}
	if !IsFrameError(errors.Unwrap(err)) {
		t.Errorf("unwrapped = %v, want *FrameError", errors.Unwrap(err))
	}
}

func TestRun_DeliverErrorStopsLoop(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(pushFrame(&types.PushFrame{BatchUpdate: eventBatch("conv-1", "e1", 1000)}))
	buf.Write(pushFrame(&types.PushFrame{BatchUpdate: eventBatch("conv-1", "e2", 2000)}))

	ch := New(NewReaderStream(&buf), log.Nop())
	deliverErr := errors.New("journal rejected batch")
	calls := 0
	err := ch.Run(context.Background(), func(*types.BatchUpdate) error {
		calls++
		return deliverErr
	})

	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Kind != RunErrorDeliver {
		t.Fatalf("Run error = %v, want RunErrorDeliver", err)
	}
	if !errors.Is(err, deliverErr) {
		t.Errorf("error chain lost the deliver error: %v", err)
	}
	if calls != 1 {
		t.Errorf("deliver calls = %d, want 1", calls)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := New(NewReaderStream(&bytes.Buffer{}), log.Nop())
	err := ch.Run(ctx, func(*types.BatchUpdate) error { return nil })

	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Kind != RunErrorCanceled {
		t.Fatalf("Run error = %v, want RunErrorCanceled", err)
	}
}
