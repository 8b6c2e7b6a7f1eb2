package metrics

import (
	"sync"
	"testing"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("sess-1")

	c.IncFrameReceived()
	c.IncFrameReceived()
	c.IncFrameMalformed()
	c.IncBatchApplied()
	c.IncNotification("event")
	c.IncNotification("event")
	c.IncNotification("watermark")
	c.AddAppend(3, 1)
	c.AddDeleted(2)
	c.IncSyncStarted()
	c.IncSyncCompleted()
	c.IncRequestSent()
	c.IncRequestFailed()

	snap := c.Snapshot()
	if snap.FramesReceived != 2 {
		t.Errorf("FramesReceived = %d, want 2", snap.FramesReceived)
	}
	if snap.FramesMalformed != 1 {
		t.Errorf("FramesMalformed = %d, want 1", snap.FramesMalformed)
	}
	if snap.NotificationsByKind["event"] != 2 {
		t.Errorf("NotificationsByKind[event] = %d, want 2", snap.NotificationsByKind["event"])
	}
	if snap.EventsInserted != 3 || snap.EventsDuplicated != 1 {
		t.Errorf("append counters = %d/%d, want 3/1", snap.EventsInserted, snap.EventsDuplicated)
	}
	if snap.EventsDeleted != 2 {
		t.Errorf("EventsDeleted = %d, want 2", snap.EventsDeleted)
	}
	if snap.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", snap.SessionID)
	}
}

func TestCollector_SnapshotIsIsolated(t *testing.T) {
	c := NewCollector("sess-1")
	c.IncNotification("event")

	snap := c.Snapshot()
	snap.NotificationsByKind["event"] = 99

	if got := c.Snapshot().NotificationsByKind["event"]; got != 1 {
		t.Errorf("collector mutated through snapshot: %d, want 1", got)
	}
}

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *Collector
	c.IncFrameReceived()
	c.IncNotification("event")
	c.AddAppend(1, 1)

	snap := c.Snapshot()
	if snap.FramesReceived != 0 {
		t.Errorf("nil collector snapshot = %+v, want zero", snap)
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("sess-1")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncFrameReceived()
				c.IncNotification("event")
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.FramesReceived != 1000 {
		t.Errorf("FramesReceived = %d, want 1000", snap.FramesReceived)
	}
	if snap.NotificationsByKind["event"] != 1000 {
		t.Errorf("NotificationsByKind[event] = %d, want 1000", snap.NotificationsByKind["event"])
	}
}
