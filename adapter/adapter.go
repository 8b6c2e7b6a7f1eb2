// Package adapter defines the outbound notification boundary.
//
// Adapters forward received chat messages to downstream systems such as
// webhooks or pub/sub channels. A Dispatcher decouples adapters from
// the delivery goroutine: publishes are queued and a slow or failing
// downstream drops old notifications instead of stalling the stream.
package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/types"
)

// MessageEvent is the payload published for a received chat message.
type MessageEvent struct {
	EventType        string `json:"event_type"` // always "message_received"
	ConversationID   string `json:"conversation_id"`
	ConversationName string `json:"conversation_name,omitempty"`
	EventID          string `json:"event_id"`
	SenderGaiaID     string `json:"sender_gaia_id,omitempty"`
	SenderChatID     string `json:"sender_chat_id,omitempty"`
	SenderName       string `json:"sender_name,omitempty"`
	Text             string `json:"text"`
	Timestamp        string `json:"timestamp"` // ISO 8601
	OffTheRecord     bool   `json:"off_the_record,omitempty"`
}

// NewMessageEvent builds the publish payload for a chat message event.
// conv supplies display names and may be nil.
func NewMessageEvent(e *types.Event, conv *types.Conversation) *MessageEvent {
	m := &MessageEvent{
		EventType:      "message_received",
		ConversationID: string(e.ConversationID),
		EventID:        string(e.EventID),
		SenderGaiaID:   e.SenderID.GaiaID,
		SenderChatID:   e.SenderID.ChatID,
		Text:           e.Text(),
		Timestamp:      time.UnixMicro(e.Timestamp).UTC().Format(time.RFC3339),
		OffTheRecord:   e.EventOTR == types.OffTheRecordStatusOffTheRecord,
	}
	if conv != nil {
		m.ConversationName = conv.Name
		m.SenderName = conv.ParticipantName(e.SenderID)
	}
	return m
}

// Adapter publishes message events to a downstream system.
// Implementations must be safe for concurrent Publish calls.
type Adapter interface {
	// Publish sends one message event downstream. Must respect context
	// cancellation and deadlines.
	Publish(ctx context.Context, event *MessageEvent) error

	// Close releases adapter resources.
	Close() error
}

// DefaultQueueSize bounds a dispatcher's pending queue.
const DefaultQueueSize = 256

// Dispatcher fans message events out to a set of adapters from a
// background goroutine. The queue is bounded; when full, the oldest
// pending event is dropped so a dead downstream cannot grow memory or
// stall the caller.
type Dispatcher struct {
	adapters []Adapter
	logger   *log.Logger
	queue    chan *MessageEvent

	mu      sync.Mutex
	dropped int64
	closed  bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewDispatcher starts a dispatcher over the given adapters. queueSize
// <= 0 uses DefaultQueueSize.
func NewDispatcher(logger *log.Logger, queueSize int, adapters ...Adapter) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		adapters: adapters,
		logger:   logger,
		queue:    make(chan *MessageEvent, queueSize),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
	go d.run(ctx)
	return d
}

// Enqueue queues an event for publishing. When the queue is full the
// oldest pending event is discarded to make room. Enqueue never blocks.
func (d *Dispatcher) Enqueue(event *MessageEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for {
		select {
		case d.queue <- event:
			return
		default:
		}
		select {
		case old := <-d.queue:
			d.dropped++
			d.logger.Warn("notification queue full, dropping oldest", map[string]any{
				"event_id": old.EventID,
				"dropped":  d.dropped,
			})
		default:
		}
	}
}

// Dropped returns the number of events discarded due to backpressure.
func (d *Dispatcher) Dropped() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.queue:
			d.publish(ctx, event)
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, event *MessageEvent) {
	for _, a := range d.adapters {
		if err := a.Publish(ctx, event); err != nil {
			d.logger.Warn("adapter publish failed", map[string]any{
				"event_id": event.EventID,
				"error":    err.Error(),
			})
		}
	}
}

// Close drains nothing: pending events are abandoned, the worker stops,
// and every adapter is closed. Close is idempotent.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	<-d.done

	var firstErr error
	for _, a := range d.adapters {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
