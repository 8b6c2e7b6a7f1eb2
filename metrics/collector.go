// Package metrics provides per-session metrics collection.
//
// The Collector accumulates counters during a single client session. It
// is a leaf package with no internal dependencies. Notification counts
// are recorded per classified kind so update mix is visible without
// logging every frame.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all session metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Push channel
	FramesReceived  int64
	FramesMalformed int64
	BatchesApplied  int64

	// Notifications, keyed by classified kind name
	NotificationsByKind map[string]int64

	// Journal
	EventsInserted   int64
	EventsDuplicated int64
	EventsDeleted    int64

	// Sync
	SyncsStarted   int64
	SyncsCompleted int64
	SyncsFailed    int64

	// Requests
	RequestsSent   int64
	RequestsFailed int64

	// Dimensions (informational, set at construction)
	SessionID string
}

// Collector accumulates metrics during a single session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe so instrumented paths need no guards.
type Collector struct {
	mu sync.Mutex

	framesReceived  int64
	framesMalformed int64
	batchesApplied  int64

	notificationsByKind map[string]int64

	eventsInserted   int64
	eventsDuplicated int64
	eventsDeleted    int64

	syncsStarted   int64
	syncsCompleted int64
	syncsFailed    int64

	requestsSent   int64
	requestsFailed int64

	sessionID string
}

// NewCollector creates a Collector labeled with the session id.
func NewCollector(sessionID string) *Collector {
	return &Collector{
		notificationsByKind: make(map[string]int64),
		sessionID:           sessionID,
	}
}

// IncFrameReceived records a push frame arriving.
func (c *Collector) IncFrameReceived() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesReceived++
	c.mu.Unlock()
}

// IncFrameMalformed records a push frame dropped as undecodable.
func (c *Collector) IncFrameMalformed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesMalformed++
	c.mu.Unlock()
}

// IncBatchApplied records a batch applied to completion.
func (c *Collector) IncBatchApplied() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.batchesApplied++
	c.mu.Unlock()
}

// IncNotification records one classified notification by kind name.
func (c *Collector) IncNotification(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.notificationsByKind[kind]++
	c.mu.Unlock()
}

// AddAppend records the outcome of a journal append.
func (c *Collector) AddAppend(inserted, duplicates int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.eventsInserted += int64(inserted)
	c.eventsDuplicated += int64(duplicates)
	c.mu.Unlock()
}

// AddDeleted records events removed by a delete action.
func (c *Collector) AddDeleted(n int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.eventsDeleted += int64(n)
	c.mu.Unlock()
}

// IncSyncStarted records a sync attempt.
func (c *Collector) IncSyncStarted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.syncsStarted++
	c.mu.Unlock()
}

// IncSyncCompleted records a successful sync.
func (c *Collector) IncSyncCompleted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.syncsCompleted++
	c.mu.Unlock()
}

// IncSyncFailed records a failed sync.
func (c *Collector) IncSyncFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.syncsFailed++
	c.mu.Unlock()
}

// IncRequestSent records an API request being issued.
func (c *Collector) IncRequestSent() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.requestsSent++
	c.mu.Unlock()
}

// IncRequestFailed records an API request failing.
func (c *Collector) IncRequestFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.requestsFailed++
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
// Nil-receiver safe: returns a zero Snapshot.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byKind := make(map[string]int64, len(c.notificationsByKind))
	for k, v := range c.notificationsByKind {
		byKind[k] = v
	}
	return Snapshot{
		FramesReceived:      c.framesReceived,
		FramesMalformed:     c.framesMalformed,
		BatchesApplied:      c.batchesApplied,
		NotificationsByKind: byKind,
		EventsInserted:      c.eventsInserted,
		EventsDuplicated:    c.eventsDuplicated,
		EventsDeleted:       c.eventsDeleted,
		SyncsStarted:        c.syncsStarted,
		SyncsCompleted:      c.syncsCompleted,
		SyncsFailed:         c.syncsFailed,
		RequestsSent:        c.requestsSent,
		RequestsFailed:      c.requestsFailed,
		SessionID:           c.sessionID,
	}
}
