// Package syncer drives catch-up synchronization against the chat
// backend and merges results into per-conversation journals.
//
// The coordinator runs a small state machine per conversation
// (Uninitialized, Syncing, UpToDate, Stale) plus one process-wide
// last-sync timestamp that drives SyncAllNewEvents. It owns no retry
// timing: failed requests surface to the caller, which re-issues them
// under a Backoff. Duplicate delivery between live push and catch-up is
// expected and absorbed by journal dedup.
package syncer

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/parley-im/parley/journal"
	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/types"
)

// State is a conversation's position in the sync lifecycle.
type State int

const (
	// StateUninitialized means no sync has touched the conversation.
	StateUninitialized State = iota
	// StateSyncing means a fetch is in flight or more pages remain.
	StateSyncing
	// StateUpToDate means the journal reflects the last known server
	// state.
	StateUpToDate
	// StateStale means a live update implied the journal is behind and
	// a re-fetch is needed.
	StateStale
)

var stateNames = map[State]string{
	StateUninitialized: "uninitialized",
	StateSyncing:       "syncing",
	StateUpToDate:      "up_to_date",
	StateStale:         "stale",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// API is the subset of server operations the coordinator issues. The
// client façade implements it over the transport.
type API interface {
	SyncAllNewEvents(ctx context.Context, req *types.SyncAllNewEventsRequest) (*types.SyncAllNewEventsResponse, error)
	SyncRecentConversations(ctx context.Context, req *types.SyncRecentConversationsRequest) (*types.SyncRecentConversationsResponse, error)
	GetConversation(ctx context.Context, req *types.GetConversationRequest) (*types.GetConversationResponse, error)
}

const (
	defaultMaxConversations  = 100
	defaultMaxEventsPerConv  = 50
	defaultMaxResponseSize   = 1048576
	defaultResyncParallelism = 4
)

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLastSyncTimestamp seeds the process-wide last-sync timestamp,
// typically restored from the state store across restarts.
func WithLastSyncTimestamp(ts int64) CoordinatorOption {
	return func(c *Coordinator) {
		c.lastSync = ts
	}
}

// WithMaxEventsPerConversation bounds how many events each fetch asks
// for.
func WithMaxEventsPerConversation(n int32) CoordinatorOption {
	return func(c *Coordinator) {
		c.maxEventsPerConv = n
	}
}

// Coordinator owns sync state. All methods are safe for concurrent use;
// syncs for different conversations proceed in parallel while
// operations on one conversation are serialized.
type Coordinator struct {
	api    API
	table  *journal.Table
	logger *log.Logger

	mu       sync.Mutex
	states   map[types.ConversationID]State
	locks    map[types.ConversationID]*sync.Mutex
	lastSync int64

	maxEventsPerConv int32
}

// NewCoordinator creates a coordinator merging into table.
func NewCoordinator(api API, table *journal.Table, logger *log.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		api:              api,
		table:            table,
		logger:           logger,
		states:           make(map[types.ConversationID]State),
		locks:            make(map[types.ConversationID]*sync.Mutex),
		maxEventsPerConv: defaultMaxEventsPerConv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LastSyncTimestamp returns the process-wide last-sync timestamp. It
// only ever advances.
func (c *Coordinator) LastSyncTimestamp() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSync
}

// advanceLastSync moves the timestamp forward, never back.
func (c *Coordinator) advanceLastSync(ts int64) {
	c.mu.Lock()
	if ts > c.lastSync {
		c.lastSync = ts
	}
	c.mu.Unlock()
}

// State returns a conversation's sync state.
func (c *Coordinator) State(id types.ConversationID) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[id]
}

func (c *Coordinator) setState(id types.ConversationID, s State) {
	c.mu.Lock()
	c.states[id] = s
	c.mu.Unlock()
}

// convLock returns the serialization lock for one conversation.
func (c *Coordinator) convLock(id types.ConversationID) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[id]
	if !ok {
		l = new(sync.Mutex)
		c.locks[id] = l
	}
	return l
}

// Stale returns the conversations currently marked stale.
func (c *Coordinator) Stale() []types.ConversationID {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []types.ConversationID
	for id, s := range c.states {
		if s == StateStale {
			out = append(out, id)
		}
	}
	return out
}

// MarkStale flags a conversation for re-sync. Used when a live update
// references a conversation the journal has not loaded, or when the
// server signals a gap. Marking a conversation mid-sync is a no-op; the
// in-flight fetch will land anyway.
func (c *Coordinator) MarkStale(id types.ConversationID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.states[id] == StateSyncing {
		return
	}
	c.states[id] = StateStale
}

// merge folds one wire conversation state into the table: metadata
// snapshot, event window, continuation token.
func (c *Coordinator) merge(cs *types.ConversationState) (journal.AppendResult, error) {
	conv := c.table.GetOrCreate(cs.ConversationID)
	conv.Merge(cs.Conversation)
	res, err := conv.Journal().Append(cs.Events...)
	if err != nil {
		return res, err
	}
	conv.Journal().SetContinuationToken(cs.EventContinuationToken)
	return res, nil
}

// Bootstrap loads the most recent conversations, one page of events
// each. Conversations land UpToDate; the last-sync timestamp advances
// to the response's sync timestamp so a follow-up SyncAll picks up from
// there.
func (c *Coordinator) Bootstrap(ctx context.Context, maxConversations int32) error {
	if maxConversations <= 0 {
		maxConversations = defaultMaxConversations
	}
	resp, err := c.api.SyncRecentConversations(ctx, &types.SyncRecentConversationsRequest{
		MaxConversations:         maxConversations,
		MaxEventsPerConversation: c.maxEventsPerConv,
		SyncFilters:              []types.SyncFilter{types.SyncFilterInbox},
	})
	if err != nil {
		return err
	}
	if err := CheckStatus(resp.ResponseHeader); err != nil {
		return err
	}

	for _, cs := range resp.ConversationStates {
		lock := c.convLock(cs.ConversationID)
		lock.Lock()
		res, err := c.merge(cs)
		if err == nil {
			c.setState(cs.ConversationID, StateUpToDate)
		}
		lock.Unlock()
		if err != nil {
			return err
		}
		c.logger.Debug("conversation bootstrapped", map[string]any{
			"conversation_id": string(cs.ConversationID),
			"inserted":        res.Inserted,
		})
	}
	c.advanceLastSync(resp.SyncTimestamp)
	return nil
}

// SyncAll fetches every event newer than the last-sync timestamp and
// merges it. On success the timestamp advances to the server's sync
// timestamp; on failure it stays put so the next attempt resumes from
// the same point. Duplicates across attempts are absorbed by dedup.
func (c *Coordinator) SyncAll(ctx context.Context) error {
	since := c.LastSyncTimestamp()
	resp, err := c.api.SyncAllNewEvents(ctx, &types.SyncAllNewEventsRequest{
		LastSyncTimestamp:    since,
		MaxResponseSizeBytes: defaultMaxResponseSize,
	})
	if err != nil {
		return err
	}
	if err := CheckStatus(resp.ResponseHeader); err != nil {
		return err
	}

	inserted, duplicates := 0, 0
	for _, cs := range resp.ConversationStates {
		lock := c.convLock(cs.ConversationID)
		lock.Lock()
		res, err := c.merge(cs)
		if err == nil {
			c.setState(cs.ConversationID, StateUpToDate)
		}
		lock.Unlock()
		if err != nil {
			return err
		}
		inserted += res.Inserted
		duplicates += res.Duplicates
	}
	c.advanceLastSync(resp.SyncTimestamp)
	c.logger.Info("catch-up sync merged", map[string]any{
		"since":          since,
		"sync_timestamp": resp.SyncTimestamp,
		"conversations":  len(resp.ConversationStates),
		"inserted":       inserted,
		"duplicates":     duplicates,
	})
	return nil
}

// SyncConversation fetches a conversation's event window and merges it.
// A stale conversation resumes from its last known continuation token;
// follow-up pages are issued while the server keeps filling the
// requested window. On failure, including cancellation, the state
// reverts to what it was before the sync and no partially received
// response is merged.
func (c *Coordinator) SyncConversation(ctx context.Context, id types.ConversationID) error {
	lock := c.convLock(id)
	lock.Lock()
	defer lock.Unlock()

	prior := c.State(id)
	c.setState(id, StateSyncing)

	var token *types.EventContinuationToken
	if prior == StateStale {
		if conv, ok := c.table.Get(id); ok {
			token = conv.Journal().ContinuationToken()
		}
	}

	for {
		resp, err := c.api.GetConversation(ctx, &types.GetConversationRequest{
			ConversationSpec:         &types.ConversationSpec{ConversationID: id},
			IncludeEvents:            true,
			MaxEventsPerConversation: c.maxEventsPerConv,
			EventContinuationToken:   token,
		})
		if err == nil {
			err = CheckStatus(resp.ResponseHeader)
		}
		if err != nil {
			c.setState(id, prior)
			return err
		}

		state := resp.ConversationState
		if state == nil {
			break
		}
		if state.ConversationID == "" {
			state.ConversationID = id
		}
		res, err := c.merge(state)
		if err != nil {
			c.setState(id, prior)
			return err
		}

		// A full window with a fresh token means more pages remain.
		if state.EventContinuationToken == nil || int32(res.Inserted) < c.maxEventsPerConv {
			break
		}
		token = state.EventContinuationToken
	}

	c.setState(id, StateUpToDate)
	return nil
}

// PageBack fetches one page of history older than what the journal
// retains. Returns the number of events inserted; zero means the start
// of history was reached.
func (c *Coordinator) PageBack(ctx context.Context, id types.ConversationID) (int, error) {
	lock := c.convLock(id)
	lock.Lock()
	defer lock.Unlock()

	conv, ok := c.table.Get(id)
	if !ok {
		return 0, nil
	}
	token := conv.Journal().ContinuationToken()
	if token == nil {
		return 0, nil
	}

	resp, err := c.api.GetConversation(ctx, &types.GetConversationRequest{
		ConversationSpec:         &types.ConversationSpec{ConversationID: id},
		IncludeEvents:            true,
		MaxEventsPerConversation: c.maxEventsPerConv,
		EventContinuationToken:   token,
	})
	if err != nil {
		return 0, err
	}
	if err := CheckStatus(resp.ResponseHeader); err != nil {
		return 0, err
	}
	if resp.ConversationState == nil {
		return 0, nil
	}
	if resp.ConversationState.ConversationID == "" {
		resp.ConversationState.ConversationID = id
	}
	res, err := c.merge(resp.ConversationState)
	if err != nil {
		return 0, err
	}
	return res.Inserted, nil
}

// ResyncStale re-fetches every stale conversation, a few in parallel.
// The first failure cancels the remainder; conversations already synced
// stay UpToDate.
func (c *Coordinator) ResyncStale(ctx context.Context) error {
	stale := c.Stale()
	if len(stale) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultResyncParallelism)
	for _, id := range stale {
		g.Go(func() error {
			return c.SyncConversation(ctx, id)
		})
	}
	return g.Wait()
}
