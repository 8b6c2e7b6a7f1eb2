// Package client is the public façade of the chat protocol layer. It
// composes the wire codec, update demultiplexer, per-conversation
// journals, and sync coordinator behind a subscribe / fetch / send API,
// and owns the run loop that keeps journals current from the push
// channel.
package client

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parley-im/parley/channel"
	"github.com/parley-im/parley/demux"
	"github.com/parley-im/parley/journal"
	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/metrics"
	"github.com/parley-im/parley/statestore"
	"github.com/parley-im/parley/syncer"
	"github.com/parley-im/parley/types"
)

// Active client lease parameters. The backend routes notifications to
// whichever client most recently claimed active; the claim expires
// after the timeout and re-claiming more often than the limit is
// throttled client-side.
const (
	ActiveTimeoutSecs        = 120
	SetActiveClientLimitSecs = 60
)

// Config assembles a Client.
type Config struct {
	// Transport issues API requests. Required.
	Transport Transport
	// Stream is the push channel source. Optional; without one, Run
	// only performs catch-up syncs when asked.
	Stream channel.Stream
	// Email is the account address, used for the active client JID.
	Email string
	// LanguageCode defaults to "en".
	LanguageCode string
	// MaxEventsPerConversation bounds sync fetches. Zero uses the
	// coordinator default.
	MaxEventsPerConversation int32
	// Retention bounds each journal's in-memory window. Zero keeps
	// everything.
	Retention int
	// Store persists the sync position across restarts. Optional.
	Store *statestore.Store
	// Logger defaults to a stderr logger keyed by a fresh session id.
	Logger *log.Logger
	// Metrics is optional; a nil collector disables counting.
	Metrics *metrics.Collector
}

// Handler receives classified notifications after they are applied to
// the journals. Handlers run on the delivery goroutine; slow handlers
// stall the stream.
type Handler func(demux.Notification)

// Client is the protocol layer entry point. All methods are safe for
// concurrent use.
type Client struct {
	transport Transport
	table     *journal.Table
	coord     *syncer.Coordinator
	demuxer   *demux.Demux
	chnl      *channel.Channel
	store     *statestore.Store
	logger    *log.Logger
	collector *metrics.Collector

	sessionID string
	resource  string
	email     string
	language  string

	mu          sync.Mutex
	handlers    map[int]Handler
	nextHandler int
	selfID      types.UserID

	activeMu   sync.Mutex
	lastActive time.Time
}

// New creates a client. No network traffic happens until Run or an API
// call.
func New(cfg Config) *Client {
	sessionID := uuid.NewString()
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewLogger(sessionID)
	}
	language := cfg.LanguageCode
	if language == "" {
		language = "en"
	}

	var tableOpts []journal.Option
	if cfg.Retention > 0 {
		tableOpts = append(tableOpts, journal.WithRetention(cfg.Retention))
	}
	table := journal.NewTable(tableOpts...)

	c := &Client{
		transport: cfg.Transport,
		table:     table,
		demuxer:   demux.New(logger),
		store:     cfg.Store,
		logger:    logger,
		collector: cfg.Metrics,
		sessionID: sessionID,
		resource:  uuid.NewString(),
		email:     cfg.Email,
		language:  language,
		handlers:  make(map[int]Handler),
	}

	var coordOpts []syncer.CoordinatorOption
	if cfg.MaxEventsPerConversation > 0 {
		coordOpts = append(coordOpts, syncer.WithMaxEventsPerConversation(cfg.MaxEventsPerConversation))
	}
	if cfg.Store != nil {
		if snap, err := cfg.Store.Load(); err == nil {
			coordOpts = append(coordOpts, syncer.WithLastSyncTimestamp(snap.LastSyncTimestamp))
		} else if err != statestore.ErrNoSnapshot {
			logger.Warn("discarding unreadable sync snapshot", map[string]any{
				"error": err.Error(),
			})
		}
	}
	c.coord = syncer.NewCoordinator(c, table, logger, coordOpts...)

	if cfg.Stream != nil {
		c.chnl = channel.New(cfg.Stream, logger,
			channel.WithCollector(cfg.Metrics),
			channel.WithClientIDFunc(c.adoptResource))
	}
	return c
}

// SessionID returns this client instance's session id.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Logger returns the client's logger, for components that should share
// its session context.
func (c *Client) Logger() *log.Logger {
	return c.logger
}

// Coordinator exposes the sync coordinator for state inspection.
func (c *Client) Coordinator() *syncer.Coordinator {
	return c.coord
}

// Table exposes the conversation table for read access.
func (c *Client) Table() *journal.Table {
	return c.table
}

// SelfID returns the account's own participant id, zero until
// GetSelfInfo has succeeded.
func (c *Client) SelfID() types.UserID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selfID
}

// Subscribe registers a handler for classified notifications. The
// returned function unsubscribes it.
func (c *Client) Subscribe(h Handler) func() {
	c.mu.Lock()
	id := c.nextHandler
	c.nextHandler++
	c.handlers[id] = h
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.handlers, id)
		c.mu.Unlock()
	}
}

func (c *Client) dispatch(n demux.Notification) {
	c.mu.Lock()
	hs := make([]Handler, 0, len(c.handlers))
	for _, h := range c.handlers {
		hs = append(hs, h)
	}
	c.mu.Unlock()
	for _, h := range hs {
		h(n)
	}
}

// Conversation returns a snapshot of one conversation's state.
func (c *Client) Conversation(id types.ConversationID) (*types.ConversationState, bool) {
	conv, ok := c.table.Get(id)
	if !ok {
		return nil, false
	}
	return conv.Snapshot(), true
}

// Conversations returns snapshots of all known conversations ordered
// by recency, newest activity first.
func (c *Client) Conversations() []*types.ConversationState {
	convs := c.table.List()
	out := make([]*types.ConversationState, len(convs))
	for i, conv := range convs {
		out[i] = conv.Snapshot()
	}
	return out
}

// SendMessage sends a chat message and appends the server-created event
// to the conversation's journal. The returned event is the server's
// canonical copy; there is no optimistic local echo.
func (c *Client) SendMessage(ctx context.Context, id types.ConversationID, content *types.MessageContent) (*types.Event, error) {
	c.maybeClaimActive(ctx)

	resp, err := c.SendChatMessage(ctx, &types.SendChatMessageRequest{
		EventRequestHeader: c.eventRequestHeader(id, types.EventTypeRegularChatMessage),
		MessageContent:     content,
	})
	if err != nil {
		return nil, err
	}
	created := resp.CreatedEvent
	if created != nil {
		conv := c.table.GetOrCreate(id)
		if res, err := conv.Journal().Append(created); err == nil {
			c.collector.AddAppend(res.Inserted, res.Duplicates)
		}
	}
	return created, nil
}

// SendText is SendMessage for a plain text body.
func (c *Client) SendText(ctx context.Context, id types.ConversationID, text string) (*types.Event, error) {
	return c.SendMessage(ctx, id, &types.MessageContent{
		Segments: []*types.Segment{{Type: types.SegmentTypeText, Text: text}},
	})
}

// MarkRead advances the account's own watermark for a conversation,
// locally and on the server.
func (c *Client) MarkRead(ctx context.Context, id types.ConversationID, timestamp int64) error {
	_, err := c.UpdateWatermark(ctx, &types.UpdateWatermarkRequest{
		ConversationID:    id,
		LastReadTimestamp: timestamp,
	})
	if err != nil {
		return err
	}
	if conv, ok := c.table.Get(id); ok {
		conv.Journal().ApplyWatermark(c.SelfID(), timestamp)
	}
	return nil
}

// adoptResource switches request identity to the resource id the push
// channel assigned. Until the assignment arrives, requests carry the
// boot-time id.
func (c *Client) adoptResource(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	changed := c.resource != id
	c.resource = id
	c.mu.Unlock()
	if changed {
		c.logger.Info("adopted channel client id", map[string]any{
			"resource": id,
		})
	}
}

func (c *Client) clientResource() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resource
}

func (c *Client) requestHeader() *types.RequestHeader {
	return &types.RequestHeader{
		ClientVersion:    &types.ClientVersion{MajorVersion: types.Version},
		ClientIdentifier: &types.ClientIdentifier{Resource: c.clientResource()},
		LanguageCode:     c.language,
	}
}

func (c *Client) eventRequestHeader(id types.ConversationID, et types.EventType) *types.EventRequestHeader {
	otr := types.OffTheRecordStatusOnTheRecord
	if conv, ok := c.table.Get(id); ok {
		if meta := conv.Meta(); meta != nil && meta.OTRStatus != types.OffTheRecordStatusUnknown {
			otr = meta.OTRStatus
		}
	}
	return &types.EventRequestHeader{
		ConversationID:    id,
		ClientGeneratedID: newClientGeneratedID(),
		ExpectedOTR:       otr,
		DeliveryMedium:    &types.DeliveryMedium{MediumType: types.DeliveryMediumBabel},
		EventType:         et,
	}
}

func newClientGeneratedID() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[:8])
}

// maybeClaimActive claims the active client lease before a user-visible
// action, throttled so bursts of sends do not spam the endpoint.
func (c *Client) maybeClaimActive(ctx context.Context) {
	c.activeMu.Lock()
	if time.Since(c.lastActive) < SetActiveClientLimitSecs*time.Second {
		c.activeMu.Unlock()
		return
	}
	c.lastActive = time.Now()
	c.activeMu.Unlock()

	_, err := c.SetActiveClient(ctx, &types.SetActiveClientRequest{
		IsActive:    true,
		FullJID:     c.email + "/" + c.clientResource(),
		TimeoutSecs: ActiveTimeoutSecs,
	})
	if err != nil {
		c.logger.Warn("failed to claim active client", map[string]any{
			"error": err.Error(),
		})
	}
}

// applyBatch applies one pushed batch: for each update, the embedded
// conversation snapshot merges first, then the notification mutates
// journal state, then subscribers see it. Updates apply one at a time
// in delivery order.
func (c *Client) applyBatch(b *types.BatchUpdate) error {
	for _, n := range c.demuxer.ClassifyBatch(b) {
		c.applyNotification(n)
	}
	c.collector.IncBatchApplied()
	return nil
}

func (c *Client) applyNotification(n demux.Notification) {
	c.collector.IncNotification(n.Kind.String())

	if n.ConversationID != "" {
		if _, loaded := c.table.Get(n.ConversationID); !loaded {
			// Live update for a conversation we have never synced.
			c.coord.MarkStale(n.ConversationID)
		}
	}
	if n.Conversation != nil {
		c.table.GetOrCreate(n.ConversationID).Merge(n.Conversation)
	}

	u := n.Update
	switch n.Kind {
	case demux.KindEvent:
		if e := u.EventNotification.Event; e != nil {
			conv := c.table.GetOrCreate(e.ConversationID)
			res, err := conv.Journal().Append(e)
			if err != nil {
				c.logger.Warn("dropping misrouted event", map[string]any{
					"conversation_id": string(e.ConversationID),
					"event_id":        string(e.EventID),
					"error":           err.Error(),
				})
				return
			}
			c.collector.AddAppend(res.Inserted, res.Duplicates)
		}
	case demux.KindWatermark:
		wm := u.WatermarkNotification
		if conv, ok := c.table.Get(wm.ConversationID); ok {
			conv.Journal().ApplyWatermark(wm.SenderID, wm.LatestReadTimestamp)
		}
	case demux.KindDelete:
		del := u.DeleteNotification
		if conv, ok := c.table.Get(del.ConversationID); ok {
			removed := conv.Journal().ApplyDelete(del.DeleteAction)
			c.collector.AddDeleted(removed)
		}
	}

	c.dispatch(n)
}

// Run drives the client: restores the sync position, performs the
// initial sync, then consumes the push channel until ctx is canceled or
// the stream ends. Stale conversations detected during delivery are
// re-fetched between batches. The sync position is saved on exit.
func (c *Client) Run(ctx context.Context) error {
	backoff := syncer.DefaultBackoff()

	c.collector.IncSyncStarted()
	var err error
	if c.coord.LastSyncTimestamp() == 0 {
		err = backoff.Execute(ctx, func() error { return c.coord.Bootstrap(ctx, 0) })
	} else {
		err = backoff.Execute(ctx, func() error { return c.coord.SyncAll(ctx) })
	}
	if err != nil {
		c.collector.IncSyncFailed()
		return err
	}
	c.collector.IncSyncCompleted()
	defer c.saveState()

	if c.chnl == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	return c.chnl.Run(ctx, func(b *types.BatchUpdate) error {
		c.collector.IncFrameReceived()
		if err := c.applyBatch(b); err != nil {
			return err
		}
		if err := c.coord.ResyncStale(ctx); err != nil {
			c.logger.Warn("stale resync failed", map[string]any{
				"error": err.Error(),
			})
		}
		return nil
	})
}

// saveState persists the sync position. Best effort; a failed save
// costs a larger catch-up on next start, not correctness.
func (c *Client) saveState() {
	if c.store == nil {
		return
	}
	snap := &statestore.Snapshot{
		LastSyncTimestamp: c.coord.LastSyncTimestamp(),
	}
	self := c.SelfID()
	for _, conv := range c.table.List() {
		cursor := statestore.ConversationCursor{
			ConversationID:    string(conv.ID()),
			SelfReadTimestamp: conv.Journal().Watermark(self),
		}
		if tok := conv.Journal().ContinuationToken(); tok != nil {
			cursor.Token = tok.StorageToken
		}
		snap.Cursors = append(snap.Cursors, cursor)
	}
	if err := c.store.Save(snap); err != nil {
		c.logger.Warn("failed to save sync snapshot", map[string]any{
			"error": err.Error(),
		})
	}
}
