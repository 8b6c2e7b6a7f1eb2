// Package journal maintains per-conversation event history.
//
// A Journal is an append-only ordered store of events for one
// conversation, deduplicated by event id. Duplicate delivery is normal:
// live push and catch-up sync overlap, so append is idempotent and
// order-independent with respect to final contents. The Table groups
// journals with conversation metadata and owns the id to conversation
// map.
package journal

import (
	"errors"
	"sort"
	"sync"

	"github.com/parley-im/parley/types"
)

// ErrWrongConversation indicates an event addressed to a different
// conversation than the journal's. Use errors.Is for assertions.
var ErrWrongConversation = errors.New("event belongs to another conversation")

// AppendResult reports how an append settled.
type AppendResult struct {
	// Inserted is the number of events newly added to the journal.
	Inserted int
	// Duplicates is the number of events whose id was already stored.
	// The stored event is kept unchanged; first write wins.
	Duplicates int
}

// Option configures a Journal.
type Option func(*Journal)

// WithRetention bounds the journal to at most maxEvents events. When an
// append exceeds the bound, the oldest events are trimmed; trimmed
// history stays reachable through the continuation token.
func WithRetention(maxEvents int) Option {
	return func(j *Journal) {
		j.maxEvents = maxEvents
	}
}

// Journal is the ordered event store for one conversation.
// All methods are safe for concurrent use.
type Journal struct {
	mu             sync.Mutex
	conversationID types.ConversationID

	// events is sorted ascending by (timestamp, event id).
	events []*types.Event
	seen   map[types.EventID]struct{}

	// watermarks is keyed by participant key, values are latest-read
	// timestamps, monotonic non-decreasing.
	watermarks map[string]int64

	// token is the newest server-issued continuation token, nil until
	// one arrives.
	token *types.EventContinuationToken

	maxEvents int
}

// New creates an empty journal for a conversation.
func New(id types.ConversationID, opts ...Option) *Journal {
	j := &Journal{
		conversationID: id,
		seen:           make(map[types.EventID]struct{}),
		watermarks:     make(map[string]int64),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// ConversationID returns the conversation this journal belongs to.
func (j *Journal) ConversationID() types.ConversationID {
	return j.conversationID
}

// Append inserts events, deduplicating by event id. Events addressed to
// another conversation fail the whole append with ErrWrongConversation
// before any mutation. Server batches are not guaranteed pre-sorted
// across merges from different requests, so the journal re-sorts when
// an insert lands out of order.
func (j *Journal) Append(events ...*types.Event) (AppendResult, error) {
	for _, e := range events {
		if e.ConversationID != "" && e.ConversationID != j.conversationID {
			return AppendResult{}, ErrWrongConversation
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	var res AppendResult
	needSort := false
	for _, e := range events {
		if _, dup := j.seen[e.EventID]; dup {
			res.Duplicates++
			continue
		}
		if n := len(j.events); n > 0 && !j.events[n-1].Before(e) {
			needSort = true
		}
		j.events = append(j.events, e)
		j.seen[e.EventID] = struct{}{}
		res.Inserted++
	}
	if needSort {
		sort.Slice(j.events, func(a, b int) bool {
			return j.events[a].Before(j.events[b])
		})
	}
	j.trimLocked()
	return res, nil
}

// trimLocked enforces the retention bound by dropping oldest events.
func (j *Journal) trimLocked() {
	if j.maxEvents <= 0 || len(j.events) <= j.maxEvents {
		return
	}
	dropped := j.events[:len(j.events)-j.maxEvents]
	for _, e := range dropped {
		delete(j.seen, e.EventID)
	}
	j.events = append([]*types.Event(nil), j.events[len(j.events)-j.maxEvents:]...)
}

// Events returns the stored events ascending by (timestamp, event id).
// The slice is a copy; the events themselves are shared and immutable.
func (j *Journal) Events() []*types.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*types.Event(nil), j.events...)
}

// Len returns the number of stored events.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}

// Latest returns the newest stored event, or nil for an empty journal.
func (j *Journal) Latest() *types.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.events) == 0 {
		return nil
	}
	return j.events[len(j.events)-1]
}

// Oldest returns the oldest stored event, or nil for an empty journal.
func (j *Journal) Oldest() *types.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.events) == 0 {
		return nil
	}
	return j.events[0]
}

// ContinuationToken returns the cursor for fetching history older than
// what the journal retains. The newest server-issued token wins; with
// none on file the token is derived from the oldest retained event.
// Returns nil for an empty journal with no stored token.
func (j *Journal) ContinuationToken() *types.EventContinuationToken {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.token != nil {
		return j.token
	}
	if len(j.events) == 0 {
		return nil
	}
	oldest := j.events[0]
	return &types.EventContinuationToken{
		EventID:        oldest.EventID,
		EventTimestamp: oldest.Timestamp,
	}
}

// SetContinuationToken records a server-issued token. Tokens are only
// valid for the conversation they were issued from; callers must route
// them through the owning journal.
func (j *Journal) SetContinuationToken(t *types.EventContinuationToken) {
	if t == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.token = t
}

// ApplyWatermark advances a participant's latest-read timestamp to
// max(existing, timestamp). Reports whether the watermark advanced.
// Idempotent and order-independent.
func (j *Journal) ApplyWatermark(participant types.UserID, timestamp int64) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	key := participant.Key()
	if timestamp <= j.watermarks[key] {
		return false
	}
	j.watermarks[key] = timestamp
	return true
}

// Watermark returns a participant's latest-read timestamp, zero when
// none has been observed.
func (j *Journal) Watermark(participant types.UserID) int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.watermarks[participant.Key()]
}

// UnreadCount returns the number of stored events newer than the
// participant's watermark.
func (j *Journal) UnreadCount(participant types.UserID) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	mark := j.watermarks[participant.Key()]
	n := sort.Search(len(j.events), func(i int) bool {
		return j.events[i].Timestamp > mark
	})
	return len(j.events) - n
}

// ApplyDelete removes events covered by a server-side history deletion:
// every event with timestamp <= the upper bound goes, except the event
// stamped exactly at the delete action timestamp, which observed server
// behavior retains. Returns the number of events removed.
func (j *Journal) ApplyDelete(action *types.DeleteAction) int {
	if action == nil {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	kept := j.events[:0]
	removed := 0
	for _, e := range j.events {
		if e.Timestamp <= action.DeleteUpperBoundTimestamp && e.Timestamp != action.DeleteActionTimestamp {
			delete(j.seen, e.EventID)
			removed++
			continue
		}
		kept = append(kept, e)
	}
	j.events = kept
	return removed
}
