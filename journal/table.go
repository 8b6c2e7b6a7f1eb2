package journal

import (
	"sort"
	"sync"

	"github.com/parley-im/parley/types"
)

// Conversation pairs server-provided metadata with the event journal
// for one conversation. Metadata arrives as partial snapshots embedded
// in state updates and sync responses; Merge folds them in without
// letting omitted fields erase known values.
type Conversation struct {
	mu      sync.Mutex
	id      types.ConversationID
	meta    *types.Conversation
	journal *Journal
}

// ID returns the conversation id.
func (c *Conversation) ID() types.ConversationID {
	return c.id
}

// Journal returns the conversation's event journal.
func (c *Conversation) Journal() *Journal {
	return c.journal
}

// Meta returns the current metadata snapshot. The returned value is
// shared; callers must not mutate it.
func (c *Conversation) Meta() *types.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta
}

// Name returns the conversation's display name, or "" when unknown.
func (c *Conversation) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.meta == nil {
		return ""
	}
	return c.meta.Name
}

// Merge folds a metadata snapshot into the conversation. Fields the
// server omitted stay zero in the snapshot and do not overwrite known
// values. Read states carried by the snapshot advance the journal's
// watermarks.
func (c *Conversation) Merge(snapshot *types.Conversation) {
	if snapshot == nil {
		return
	}

	c.mu.Lock()
	if c.meta == nil {
		c.meta = &types.Conversation{ConversationID: c.id}
	}
	if snapshot.Type != types.ConversationTypeUnknown {
		c.meta.Type = snapshot.Type
	}
	if snapshot.Name != "" {
		c.meta.Name = snapshot.Name
	}
	if snapshot.SelfState != nil {
		c.meta.SelfState = snapshot.SelfState
	}
	if snapshot.OTRStatus != types.OffTheRecordStatusUnknown {
		c.meta.OTRStatus = snapshot.OTRStatus
	}
	if len(snapshot.CurrentParticipants) > 0 {
		c.meta.CurrentParticipants = snapshot.CurrentParticipants
	}
	if len(snapshot.ParticipantData) > 0 {
		c.meta.ParticipantData = snapshot.ParticipantData
	}
	c.mu.Unlock()

	for _, rs := range snapshot.ReadStates {
		if rs.LatestReadTimestamp > 0 {
			c.journal.ApplyWatermark(rs.ParticipantID, rs.LatestReadTimestamp)
		}
	}
	if snapshot.SelfState != nil && snapshot.SelfState.SelfReadState != nil {
		srs := snapshot.SelfState.SelfReadState
		if srs.LatestReadTimestamp > 0 {
			c.journal.ApplyWatermark(srs.ParticipantID, srs.LatestReadTimestamp)
		}
	}
}

// Snapshot materializes the conversation as a wire-shaped state value:
// metadata, the retained event window in order, and the continuation
// token for older history. The event slice is a copy.
func (c *Conversation) Snapshot() *types.ConversationState {
	return &types.ConversationState{
		ConversationID:         c.id,
		Conversation:           c.Meta(),
		Events:                 c.journal.Events(),
		EventContinuationToken: c.journal.ContinuationToken(),
	}
}

// SortTimestamp returns the timestamp that orders this conversation in
// a recency listing: the newest event's timestamp, zero when empty.
func (c *Conversation) SortTimestamp() int64 {
	if latest := c.journal.Latest(); latest != nil {
		return latest.Timestamp
	}
	return 0
}

// Table owns the conversation id to conversation map. Conversations are
// created on first sync touching them and removed only on explicit
// delete. All methods are safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	convs map[types.ConversationID]*Conversation
	opts  []Option
}

// NewTable creates an empty table. opts apply to every journal the
// table creates.
func NewTable(opts ...Option) *Table {
	return &Table{
		convs: make(map[types.ConversationID]*Conversation),
		opts:  opts,
	}
}

// GetOrCreate returns the conversation, creating an empty one on first
// touch.
func (t *Table) GetOrCreate(id types.ConversationID) *Conversation {
	t.mu.RLock()
	c, ok := t.convs[id]
	t.mu.RUnlock()
	if ok {
		return c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.convs[id]; ok {
		return c
	}
	c = &Conversation{
		id:      id,
		journal: New(id, t.opts...),
	}
	t.convs[id] = c
	return c
}

// Get returns the conversation if it exists.
func (t *Table) Get(id types.ConversationID) (*Conversation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.convs[id]
	return c, ok
}

// Delete removes a conversation. Only explicit delete notifications
// warrant this.
func (t *Table) Delete(id types.ConversationID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.convs, id)
}

// Len returns the number of known conversations.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.convs)
}

// List returns all conversations ordered by recency, newest activity
// first. Conversations with equal sort timestamps order by id so the
// listing is stable.
func (t *Table) List() []*Conversation {
	t.mu.RLock()
	out := make([]*Conversation, 0, len(t.convs))
	for _, c := range t.convs {
		out = append(out, c)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		ta, tb := out[a].SortTimestamp(), out[b].SortTimestamp()
		if ta != tb {
			return ta > tb
		}
		return out[a].id < out[b].id
	})
	return out
}
